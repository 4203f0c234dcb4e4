package models

import (
	"mecfinder/pkg/moderation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DevicePlatform string

const (
	DevicePlatformAndroid DevicePlatform = "android"
	DevicePlatformIOS     DevicePlatform = "ios"
)

type DeviceToken struct {
	Token    string         `json:"token" bson:"token"`
	Platform DevicePlatform `json:"platform" bson:"platform"`
}

// PartySummary is a populated user or mechanic reference.
type PartySummary struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Phone string             `json:"phone"`
}

type SubjectKind string

const (
	SubjectUser     SubjectKind = "user"
	SubjectMechanic SubjectKind = "mechanic"
)

// Bannable is implemented by the account types that can be moderated.
type Bannable interface {
	GetID() primitive.ObjectID
	GetName() string
	GetPhone() string
	GetBanInfo() moderation.BanInfo
	GetDeviceTokens() []DeviceToken
}

// AccountStats are booking counters shown next to a user or mechanic.
type AccountStats struct {
	TotalBookings     int64   `json:"totalBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalAmount       float64 `json:"totalAmount"`
}
