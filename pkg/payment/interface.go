// Package payment issues refunds for online booking payments.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type PaymentProvider interface {
	Name() string
	RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
}

type RefundRequest struct {
	TransactionID string            `json:"transactionId"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Reason        string            `json:"reason"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type RefundResponse struct {
	RefundID  string  `json:"refundId"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"createdAt"`
}

type Options struct {
	Provider string

	StripeSecretKey string

	RazorpayKeyID     string
	RazorpayKeySecret string
}

// New returns the configured gateway, or nil when refunds are disabled.
func New(opts Options) (PaymentProvider, error) {
	switch opts.Provider {
	case "", "none":
		return nil, nil
	case "stripe":
		return NewStripeProvider(opts.StripeSecretKey), nil
	case "razorpay":
		return NewRazorpayProvider(opts.RazorpayKeyID, opts.RazorpayKeySecret), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", opts.Provider)
	}
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts rupees to paise, rounding half-up.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

func FromMinorUnits(amount int64) float64 {
	return decimal.NewFromInt(amount).Div(hundred).InexactFloat64()
}
