package interfaces

import (
	"context"

	"mecfinder/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PricingRepository interface {
	// Upsert creates or replaces the record for (ServiceID, RegionID) in one
	// atomic operation and returns the stored document.
	Upsert(ctx context.Context, pricing *models.Pricing) (*models.Pricing, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Pricing, error)
	List(ctx context.Context, filter models.PricingFilter) ([]*models.Pricing, error)
	Update(ctx context.Context, pricing *models.Pricing) (*models.Pricing, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	DeleteByService(ctx context.Context, serviceID primitive.ObjectID) (int64, error)
	DeleteByRegion(ctx context.Context, regionID primitive.ObjectID) (int64, error)
}
