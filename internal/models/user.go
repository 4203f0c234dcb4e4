package models

import (
	"time"

	"mecfinder/pkg/moderation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
	UserStatusBanned UserStatus = "BANNED"
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusBanned
}

type User struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string             `json:"phone" bson:"phone"`
	Gender          string             `json:"gender,omitempty" bson:"gender,omitempty"`
	ProfileImageURL string             `json:"profileImageUrl,omitempty" bson:"profile_image_url,omitempty"`
	Status          UserStatus         `json:"status" bson:"status"`
	BanInfo         moderation.BanInfo `json:"banInfo" bson:"ban_info"`
	DeviceTokens    []DeviceToken      `json:"-" bson:"device_tokens,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

func (u *User) GetID() primitive.ObjectID      { return u.ID }
func (u *User) GetName() string                { return u.Name }
func (u *User) GetPhone() string               { return u.Phone }
func (u *User) GetBanInfo() moderation.BanInfo { return u.BanInfo }
func (u *User) GetDeviceTokens() []DeviceToken { return u.DeviceTokens }

func (u *User) Summary() *PartySummary {
	return &PartySummary{ID: u.ID, Name: u.Name, Phone: u.Phone}
}

type UserFilter struct {
	Status UserStatus
	Search string
}
