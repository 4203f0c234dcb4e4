package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogStatus string

const (
	CatalogStatusActive   CatalogStatus = "ACTIVE"
	CatalogStatusInactive CatalogStatus = "INACTIVE"
)

func (s CatalogStatus) IsValid() bool {
	return s == CatalogStatusActive || s == CatalogStatusInactive
}

type ServiceCategory struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Icon         string             `json:"icon" bson:"icon"`
	DisplayOrder int                `json:"displayOrder" bson:"display_order"`
	Status       CatalogStatus      `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CategoryRef is the populated form of a category reference.
type CategoryRef struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
	Icon string             `json:"icon"`
}

func (c *ServiceCategory) Ref() *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, Icon: c.Icon}
}

type Service struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CategoryID    primitive.ObjectID `json:"-" bson:"category_id"`
	Category      *CategoryRef       `json:"categoryId" bson:"-"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	BasePrice     float64            `json:"basePrice" bson:"base_price"`
	EstimatedTime int                `json:"estimatedTime,omitempty" bson:"estimated_time,omitempty"`
	Icon          string             `json:"icon,omitempty" bson:"icon,omitempty"`
	VehicleTypes  []string           `json:"vehicleTypes,omitempty" bson:"vehicle_types,omitempty"`
	Status        CatalogStatus      `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ServiceRef is the populated form of a service reference.
type ServiceRef struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Category *CategoryRef       `json:"categoryId,omitempty"`
}

func (s *Service) Ref() *ServiceRef {
	return &ServiceRef{ID: s.ID, Name: s.Name, Category: s.Category}
}

type ServiceFilter struct {
	CategoryID *primitive.ObjectID
	Status     CatalogStatus
	Search     string
}
