// Package pricing computes the customer price breakdown for a service in a region.
//
// The calculation is shared by the API server and the Go client so that a preview and
// the persisted record are always identical.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	DefaultGSTPercent         = 18.0
	DefaultPlatformFeePercent = 25.0
	DefaultTravelCharge       = 88.0
)

var hundred = decimal.NewFromInt(100)

// Input holds the four values a breakdown is derived from.
type Input struct {
	BasePrice          float64 `json:"basePrice"`
	GSTPercent         float64 `json:"gstPercent"`
	PlatformFeePercent float64 `json:"platformFeePercent"`
	TravelCharge       float64 `json:"travelCharge"`
}

// Breakdown is the derived price split. Monetary amounts are whole rupees.
type Breakdown struct {
	BasePrice          float64 `json:"basePrice"`
	GSTPercent         float64 `json:"gstPercent"`
	GSTAmount          float64 `json:"gstAmount"`
	PlatformFeePercent float64 `json:"platformFeePercent"`
	PlatformFeeAmount  float64 `json:"platformFeeAmount"`
	TravelCharge       float64 `json:"travelCharge"`
	TotalPrice         float64 `json:"totalPrice"`
	MechanicEarning    float64 `json:"mechanicEarning"`
	CompanyEarning     float64 `json:"companyEarning"`
}

// ValidationError names the input field that is out of range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Defaults fills in the optional inputs when a caller omits them.
type Defaults struct {
	GSTPercent         float64
	PlatformFeePercent float64
	TravelCharge       float64
}

// StandardDefaults returns 18% GST, 25% platform fee and a flat 88 travel charge.
func StandardDefaults() Defaults {
	return Defaults{
		GSTPercent:         DefaultGSTPercent,
		PlatformFeePercent: DefaultPlatformFeePercent,
		TravelCharge:       DefaultTravelCharge,
	}
}

// Resolve builds an Input, taking each nil optional value from the defaults.
func (d Defaults) Resolve(basePrice float64, gstPercent, platformFeePercent, travelCharge *float64) Input {
	in := Input{
		BasePrice:          basePrice,
		GSTPercent:         d.GSTPercent,
		PlatformFeePercent: d.PlatformFeePercent,
		TravelCharge:       d.TravelCharge,
	}
	if gstPercent != nil {
		in.GSTPercent = *gstPercent
	}
	if platformFeePercent != nil {
		in.PlatformFeePercent = *platformFeePercent
	}
	if travelCharge != nil {
		in.TravelCharge = *travelCharge
	}
	return in
}

// Validate checks the input ranges without computing anything.
func (in Input) Validate() error {
	if err := checkAmount("basePrice", in.BasePrice); err != nil {
		return err
	}
	if err := checkPercent("gstPercent", in.GSTPercent); err != nil {
		return err
	}
	if err := checkPercent("platformFeePercent", in.PlatformFeePercent); err != nil {
		return err
	}
	return checkAmount("travelCharge", in.TravelCharge)
}

// Calculate derives the breakdown. Every amount is a whole rupee: the base price and
// travel charge are rounded half-up first, then GST and platform fee are percentages of
// the rounded base, rounded the same way. The company keeps the platform fee and the
// mechanic receives the rest of the total.
func Calculate(in Input) (*Breakdown, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	base := decimal.NewFromFloat(in.BasePrice).Round(0)
	travel := decimal.NewFromFloat(in.TravelCharge).Round(0)

	gstAmount := percentOf(base, in.GSTPercent)
	feeAmount := percentOf(base, in.PlatformFeePercent)

	total := base.Add(gstAmount).Add(feeAmount).Add(travel)
	company := feeAmount
	mechanic := total.Sub(company)

	return &Breakdown{
		BasePrice:          base.InexactFloat64(),
		GSTPercent:         in.GSTPercent,
		GSTAmount:          gstAmount.InexactFloat64(),
		PlatformFeePercent: in.PlatformFeePercent,
		PlatformFeeAmount:  feeAmount.InexactFloat64(),
		TravelCharge:       travel.InexactFloat64(),
		TotalPrice:         total.InexactFloat64(),
		MechanicEarning:    mechanic.InexactFloat64(),
		CompanyEarning:     company.InexactFloat64(),
	}, nil
}

// Round rounds an amount half-up to whole rupees.
func Round(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(0).InexactFloat64()
}

func percentOf(base decimal.Decimal, percent float64) decimal.Decimal {
	// amounts are non-negative here, so Round's half-away-from-zero is half-up
	return base.Mul(decimal.NewFromFloat(percent)).Div(hundred).Round(0)
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Message: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

func checkPercent(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return &ValidationError{Field: field, Message: "must be between 0 and 100"}
	}
	return nil
}
