package client

import (
	"time"

	"mecfinder/pkg/moderation"
	"mecfinder/pkg/pricing"
)

// Ref is a populated reference such as pricing.serviceId or booking.userId.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

type Pricing struct {
	ID      string `json:"_id"`
	Service *Ref   `json:"serviceId"`
	Region  *Ref   `json:"regionId"`
	pricing.Breakdown
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PricingFilter struct {
	ServiceID string
	RegionID  string
	Status    string
}

// PricingInput is the body of an upsert. Nil fields take the server defaults.
type PricingInput struct {
	ServiceID          string   `json:"serviceId"`
	RegionID           string   `json:"regionId"`
	BasePrice          *float64 `json:"basePrice,omitempty"`
	GSTPercent         *float64 `json:"gstPercent,omitempty"`
	PlatformFeePercent *float64 `json:"platformFeePercent,omitempty"`
	TravelCharge       *float64 `json:"travelCharge,omitempty"`
}

type PricingUpdate struct {
	BasePrice          *float64 `json:"basePrice,omitempty"`
	GSTPercent         *float64 `json:"gstPercent,omitempty"`
	PlatformFeePercent *float64 `json:"platformFeePercent,omitempty"`
	TravelCharge       *float64 `json:"travelCharge,omitempty"`
	Status             *string  `json:"status,omitempty"`
}

type Category struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
	Status       string `json:"status"`
}

type Service struct {
	ID            string   `json:"_id"`
	Category      *Ref     `json:"categoryId"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	BasePrice     float64  `json:"basePrice"`
	EstimatedTime int      `json:"estimatedTime,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	VehicleTypes  []string `json:"vehicleTypes,omitempty"`
	Status        string   `json:"status"`
}

type ServiceInput struct {
	CategoryID    string   `json:"categoryId,omitempty"`
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	BasePrice     float64  `json:"basePrice,omitempty"`
	EstimatedTime int      `json:"estimatedTime,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	VehicleTypes  []string `json:"vehicleTypes,omitempty"`
	Status        string   `json:"status,omitempty"`
}

type Region struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
	Center  *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"center,omitempty"`
}

type RegionInput struct {
	Name    string `json:"name,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Status  string `json:"status,omitempty"`
}

type User struct {
	ID        string             `json:"_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email,omitempty"`
	Phone     string             `json:"phone"`
	Gender    string             `json:"gender,omitempty"`
	Status    string             `json:"status"`
	BanInfo   moderation.BanInfo `json:"banInfo"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Mechanic struct {
	ID            string             `json:"_id"`
	Name          string             `json:"name"`
	Email         string             `json:"email,omitempty"`
	Phone         string             `json:"phone"`
	VehicleTypes  []string           `json:"vehicleTypes"`
	Rating        float64            `json:"rating"`
	TotalRatings  int                `json:"totalRatings"`
	CompletedJobs int                `json:"completedJobs"`
	IsOnline      bool               `json:"isOnline"`
	Status        string             `json:"status"`
	BanInfo       moderation.BanInfo `json:"banInfo"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type AccountStats struct {
	TotalBookings     int64   `json:"totalBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalAmount       float64 `json:"totalAmount"`
}

type AccountFilter struct {
	ListOptions
	Status   string
	IsOnline *bool
}

type Booking struct {
	ID              string `json:"_id"`
	BookingNumber   string `json:"bookingId"`
	User            *Ref   `json:"userId"`
	Mechanic        *Ref   `json:"mechanicId"`
	ServiceSnapshot struct {
		Name         string `json:"name"`
		CategoryName string `json:"categoryName"`
	} `json:"serviceSnapshot"`
	Pricing struct {
		BasePrice    float64 `json:"basePrice"`
		GSTAmount    float64 `json:"gstAmount"`
		PlatformFee  float64 `json:"platformFee"`
		TravelCharge float64 `json:"travelCharge"`
		TotalAmount  float64 `json:"totalAmount"`
	} `json:"pricing"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BookingFilter struct {
	ListOptions
	Status        string
	PaymentMethod string
	// StartDate and EndDate are YYYY-MM-DD.
	StartDate string
	EndDate   string
}

type SupportQuery struct {
	ID         string     `json:"_id"`
	User       *Ref       `json:"userId"`
	Subject    string     `json:"subject"`
	Message    string     `json:"message"`
	Category   string     `json:"category"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	AssignedTo string     `json:"assignedTo,omitempty"`
	Resolution string     `json:"resolution,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type SupportFilter struct {
	ListOptions
	Status   string
	Priority string
	Category string
}

type SupportStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

type DashboardStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	BannedUsers       int64   `json:"bannedUsers"`
	TotalMechanics    int64   `json:"totalMechanics"`
	OnlineMechanics   int64   `json:"onlineMechanics"`
	PendingMechanics  int64   `json:"pendingMechanics"`
	BannedMechanics   int64   `json:"bannedMechanics"`
	TotalBookings     int64   `json:"totalBookings"`
	ActiveBookings    int64   `json:"activeBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
	CompanyEarnings   float64 `json:"companyEarnings"`
	OpenQueries       int64   `json:"openQueries"`
	ActiveRegions     int64   `json:"activeRegions"`
}

type Dashboard struct {
	Stats          DashboardStats `json:"stats"`
	RecentBookings []Booking      `json:"recentBookings"`
}
