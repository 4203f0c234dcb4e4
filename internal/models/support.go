package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SupportStatus string

const (
	SupportStatusOpen       SupportStatus = "OPEN"
	SupportStatusInProgress SupportStatus = "IN_PROGRESS"
	SupportStatusResolved   SupportStatus = "RESOLVED"
	SupportStatusClosed     SupportStatus = "CLOSED"
)

func (s SupportStatus) IsValid() bool {
	switch s {
	case SupportStatusOpen, SupportStatusInProgress, SupportStatusResolved, SupportStatusClosed:
		return true
	}
	return false
}

type SupportPriority string

const (
	SupportPriorityLow    SupportPriority = "LOW"
	SupportPriorityMedium SupportPriority = "MEDIUM"
	SupportPriorityHigh   SupportPriority = "HIGH"
	SupportPriorityUrgent SupportPriority = "URGENT"
)

func (p SupportPriority) IsValid() bool {
	switch p {
	case SupportPriorityLow, SupportPriorityMedium, SupportPriorityHigh, SupportPriorityUrgent:
		return true
	}
	return false
}

type SupportQuery struct {
	ID         primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID  `json:"-" bson:"user_id"`
	User       *PartySummary       `json:"userId" bson:"-"`
	BookingID  *primitive.ObjectID `json:"bookingId,omitempty" bson:"booking_id,omitempty"`
	Subject    string              `json:"subject" bson:"subject"`
	Message    string              `json:"message" bson:"message"`
	Category   string              `json:"category" bson:"category"`
	Priority   SupportPriority     `json:"priority" bson:"priority"`
	Status     SupportStatus       `json:"status" bson:"status"`
	AssignedTo *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	Resolution string              `json:"resolution,omitempty" bson:"resolution,omitempty"`
	ResolvedAt *time.Time          `json:"resolvedAt,omitempty" bson:"resolved_at,omitempty"`
	ResolvedBy *primitive.ObjectID `json:"resolvedBy,omitempty" bson:"resolved_by,omitempty"`
	CreatedAt  time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updatedAt" bson:"updated_at"`
}

type SupportFilter struct {
	Status   SupportStatus
	Priority SupportPriority
	Category string
	Search   string
}

type SupportStats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}
