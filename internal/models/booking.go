package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusSearching  BookingStatus = "SEARCHING"
	BookingStatusAssigned   BookingStatus = "ASSIGNED"
	BookingStatusAccepted   BookingStatus = "ACCEPTED"
	BookingStatusEnRoute    BookingStatus = "EN_ROUTE"
	BookingStatusArrived    BookingStatus = "ARRIVED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusExpired    BookingStatus = "EXPIRED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusSearching, BookingStatusExpired},
	BookingStatusSearching:  {BookingStatusAssigned, BookingStatusExpired},
	BookingStatusAssigned:   {BookingStatusAccepted, BookingStatusSearching},
	BookingStatusAccepted:   {BookingStatusEnRoute},
	BookingStatusEnRoute:    {BookingStatusArrived},
	BookingStatusArrived:    {BookingStatusInProgress},
	BookingStatusInProgress: {BookingStatusCompleted},
}

func (s BookingStatus) IsValid() bool {
	if s.IsTerminal() {
		return true
	}
	_, ok := bookingTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible. A booking
// expires when no mechanic took it in time.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusExpired
}

// CanTransitionTo reports whether an admin may move a booking from s to next.
// Any non-terminal booking may be cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	if next == BookingStatusCancelled {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

type ServiceSnapshot struct {
	ServiceID    primitive.ObjectID `json:"serviceId" bson:"service_id"`
	Name         string             `json:"name" bson:"name"`
	CategoryName string             `json:"categoryName" bson:"category_name"`
}

type BookingPricing struct {
	BasePrice       float64 `json:"basePrice" bson:"base_price"`
	GSTAmount       float64 `json:"gstAmount" bson:"gst_amount"`
	PlatformFee     float64 `json:"platformFee" bson:"platform_fee"`
	TravelCharge    float64 `json:"travelCharge" bson:"travel_charge"`
	TotalAmount     float64 `json:"totalAmount" bson:"total_amount"`
	MechanicEarning float64 `json:"mechanicEarning" bson:"mechanic_earning"`
	CompanyEarning  float64 `json:"companyEarning" bson:"company_earning"`
}

type StatusChange struct {
	Status    BookingStatus `json:"status" bson:"status"`
	ChangedBy string        `json:"changedBy,omitempty" bson:"changed_by,omitempty"`
	Note      string        `json:"note,omitempty" bson:"note,omitempty"`
	ChangedAt time.Time     `json:"changedAt" bson:"changed_at"`
}

type Refund struct {
	RefundID  string    `json:"refundId" bson:"refund_id"`
	Amount    float64   `json:"amount" bson:"amount"`
	Status    string    `json:"status" bson:"status"`
	Provider  string    `json:"provider" bson:"provider"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type Booking struct {
	ID              primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	BookingNumber   string              `json:"bookingId" bson:"booking_number"`
	UserID          primitive.ObjectID  `json:"-" bson:"user_id"`
	MechanicID      *primitive.ObjectID `json:"-" bson:"mechanic_id,omitempty"`
	RegionID        primitive.ObjectID  `json:"regionId" bson:"region_id"`
	User            *PartySummary       `json:"userId" bson:"-"`
	Mechanic        *PartySummary       `json:"mechanicId" bson:"-"`
	ServiceSnapshot ServiceSnapshot     `json:"serviceSnapshot" bson:"service_snapshot"`
	Pricing         BookingPricing      `json:"pricing" bson:"pricing"`
	Status          BookingStatus       `json:"status" bson:"status"`
	PaymentMethod   PaymentMethod       `json:"paymentMethod" bson:"payment_method"`
	PaymentStatus   PaymentStatus       `json:"paymentStatus" bson:"payment_status"`
	TransactionID   string              `json:"transactionId,omitempty" bson:"transaction_id,omitempty"`
	Address         string              `json:"address,omitempty" bson:"address,omitempty"`
	StatusHistory   []StatusChange      `json:"statusHistory,omitempty" bson:"status_history,omitempty"`
	Refund          *Refund             `json:"refund,omitempty" bson:"refund,omitempty"`
	CancelReason    string              `json:"cancelReason,omitempty" bson:"cancel_reason,omitempty"`
	CompletedAt     *time.Time          `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelledAt,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

// NeedsRefund reports whether cancelling the booking should return the payment.
func (b *Booking) NeedsRefund() bool {
	return b.PaymentMethod == PaymentMethodOnline && b.PaymentStatus == PaymentStatusPaid && b.TransactionID != ""
}

type BookingFilter struct {
	Status        BookingStatus
	PaymentMethod PaymentMethod
	UserID        *primitive.ObjectID
	MechanicID    *primitive.ObjectID
	StartDate     *time.Time
	EndDate       *time.Time
	Search        string
}
