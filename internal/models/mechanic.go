package models

import (
	"time"

	"mecfinder/pkg/moderation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MechanicStatus string

const (
	MechanicStatusPending   MechanicStatus = "PENDING"
	MechanicStatusApproved  MechanicStatus = "APPROVED"
	MechanicStatusRejected  MechanicStatus = "REJECTED"
	MechanicStatusSuspended MechanicStatus = "SUSPENDED"
	MechanicStatusBanned    MechanicStatus = "BANNED"
	MechanicStatusActive    MechanicStatus = "ACTIVE"
)

func (s MechanicStatus) IsValid() bool {
	switch s {
	case MechanicStatusPending, MechanicStatusApproved, MechanicStatusRejected,
		MechanicStatusSuspended, MechanicStatusBanned, MechanicStatusActive:
		return true
	}
	return false
}

type Mechanic struct {
	ID              primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Name            string              `json:"name" bson:"name"`
	Email           string              `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string              `json:"phone" bson:"phone"`
	ProfileImageURL string              `json:"profileImageUrl,omitempty" bson:"profile_image_url,omitempty"`
	VehicleTypes    []string            `json:"vehicleTypes" bson:"vehicle_types"`
	RegionID        *primitive.ObjectID `json:"regionId,omitempty" bson:"region_id,omitempty"`
	Rating          float64             `json:"rating" bson:"rating"`
	TotalRatings    int                 `json:"totalRatings" bson:"total_ratings"`
	CompletedJobs   int                 `json:"completedJobs" bson:"completed_jobs"`
	IsOnline        bool                `json:"isOnline" bson:"is_online"`
	Status          MechanicStatus      `json:"status" bson:"status"`
	BanInfo         moderation.BanInfo  `json:"banInfo" bson:"ban_info"`
	DeviceTokens    []DeviceToken       `json:"-" bson:"device_tokens,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

func (m *Mechanic) GetID() primitive.ObjectID      { return m.ID }
func (m *Mechanic) GetName() string                { return m.Name }
func (m *Mechanic) GetPhone() string               { return m.Phone }
func (m *Mechanic) GetBanInfo() moderation.BanInfo { return m.BanInfo }
func (m *Mechanic) GetDeviceTokens() []DeviceToken { return m.DeviceTokens }

func (m *Mechanic) Summary() *PartySummary {
	return &PartySummary{ID: m.ID, Name: m.Name, Phone: m.Phone}
}

type MechanicFilter struct {
	Status   MechanicStatus
	Search   string
	IsOnline *bool
}
