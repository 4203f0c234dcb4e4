package models

import (
	"time"

	"mecfinder/pkg/pricing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PricingStatus string

const (
	PricingStatusActive   PricingStatus = "ACTIVE"
	PricingStatusInactive PricingStatus = "INACTIVE"
)

func (s PricingStatus) IsValid() bool {
	return s == PricingStatusActive || s == PricingStatusInactive
}

// Pricing is the stored price of one service in one region. The derived
// amounts are persisted so list views never recompute them.
type Pricing struct {
	ID                 primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ServiceID          primitive.ObjectID `json:"-" bson:"service_id"`
	RegionID           primitive.ObjectID `json:"-" bson:"region_id"`
	Service            *ServiceRef        `json:"serviceId" bson:"-"`
	Region             *RegionRef         `json:"regionId" bson:"-"`
	BasePrice          float64            `json:"basePrice" bson:"base_price"`
	GSTPercent         float64            `json:"gstPercent" bson:"gst_percent"`
	GSTAmount          float64            `json:"gstAmount" bson:"gst_amount"`
	PlatformFeePercent float64            `json:"platformFeePercent" bson:"platform_fee_percent"`
	PlatformFeeAmount  float64            `json:"platformFeeAmount" bson:"platform_fee_amount"`
	TravelCharge       float64            `json:"travelCharge" bson:"travel_charge"`
	TotalPrice         float64            `json:"totalPrice" bson:"total_price"`
	MechanicEarning    float64            `json:"mechanicEarning" bson:"mechanic_earning"`
	CompanyEarning     float64            `json:"companyEarning" bson:"company_earning"`
	Status             PricingStatus      `json:"status" bson:"status"`
	UpdatedBy          string             `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Apply copies a computed breakdown onto the record.
func (p *Pricing) Apply(b *pricing.Breakdown) {
	p.BasePrice = b.BasePrice
	p.GSTPercent = b.GSTPercent
	p.GSTAmount = b.GSTAmount
	p.PlatformFeePercent = b.PlatformFeePercent
	p.PlatformFeeAmount = b.PlatformFeeAmount
	p.TravelCharge = b.TravelCharge
	p.TotalPrice = b.TotalPrice
	p.MechanicEarning = b.MechanicEarning
	p.CompanyEarning = b.CompanyEarning
}

func (p *Pricing) Breakdown() *pricing.Breakdown {
	return &pricing.Breakdown{
		BasePrice:          p.BasePrice,
		GSTPercent:         p.GSTPercent,
		GSTAmount:          p.GSTAmount,
		PlatformFeePercent: p.PlatformFeePercent,
		PlatformFeeAmount:  p.PlatformFeeAmount,
		TravelCharge:       p.TravelCharge,
		TotalPrice:         p.TotalPrice,
		MechanicEarning:    p.MechanicEarning,
		CompanyEarning:     p.CompanyEarning,
	}
}

type PricingFilter struct {
	ServiceID *primitive.ObjectID
	RegionID  *primitive.ObjectID
	Status    PricingStatus
}
