package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegionStatus string

const (
	RegionStatusActive   RegionStatus = "ACTIVE"
	RegionStatusInactive RegionStatus = "INACTIVE"
)

func (s RegionStatus) IsValid() bool {
	return s == RegionStatusActive || s == RegionStatusInactive
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

type Region struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	State     string             `json:"state" bson:"state"`
	Country   string             `json:"country" bson:"country"`
	Slug      string             `json:"slug" bson:"slug"`
	Status    RegionStatus       `json:"status" bson:"status"`
	Center    *GeoPoint          `json:"center,omitempty" bson:"center,omitempty"`
	PlaceID   string             `json:"placeId,omitempty" bson:"place_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RegionRef is the populated form of a region reference.
type RegionRef struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

func (r *Region) Ref() *RegionRef {
	return &RegionRef{ID: r.ID, Name: r.Name}
}
