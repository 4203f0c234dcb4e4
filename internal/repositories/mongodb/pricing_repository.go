package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type pricingRepository struct {
	collection *mongo.Collection
}

func NewPricingRepository(db *mongo.Database) interfaces.PricingRepository {
	return &pricingRepository{
		collection: db.Collection(database.CollectionPricing),
	}
}

func pricingFields(p *models.Pricing, now time.Time) bson.M {
	return bson.M{
		"base_price":           p.BasePrice,
		"gst_percent":          p.GSTPercent,
		"gst_amount":           p.GSTAmount,
		"platform_fee_percent": p.PlatformFeePercent,
		"platform_fee_amount":  p.PlatformFeeAmount,
		"travel_charge":        p.TravelCharge,
		"total_price":          p.TotalPrice,
		"mechanic_earning":     p.MechanicEarning,
		"company_earning":      p.CompanyEarning,
		"status":               p.Status,
		"updated_by":           p.UpdatedBy,
		"updated_at":           now,
	}
}

func (r *pricingRepository) Upsert(ctx context.Context, pricing *models.Pricing) (*models.Pricing, error) {
	now := time.Now()
	filter := bson.M{"service_id": pricing.ServiceID, "region_id": pricing.RegionID}
	update := bson.M{
		"$set":         pricingFields(pricing, now),
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Pricing
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent upsert inserted the key first; the retry becomes an update
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pricing: %w", err)
	}
	return &stored, nil
}

func (r *pricingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Pricing, error) {
	return findOne[models.Pricing](ctx, r.collection, bson.M{"_id": id}, "pricing")
}

func (r *pricingRepository) List(ctx context.Context, f models.PricingFilter) ([]*models.Pricing, error) {
	filter := bson.M{}
	if f.ServiceID != nil {
		filter["service_id"] = *f.ServiceID
	}
	if f.RegionID != nil {
		filter["region_id"] = *f.RegionID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[models.Pricing](ctx, r.collection, filter, opts, "pricing")
}

func (r *pricingRepository) Update(ctx context.Context, pricing *models.Pricing) (*models.Pricing, error) {
	var stored models.Pricing
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": pricing.ID},
		bson.M{"$set": pricingFields(pricing, time.Now())},
		afterUpdate(),
	).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("pricing not found: %w", interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update pricing: %w", err)
	}
	return &stored, nil
}

func (r *pricingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pricing: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("pricing not found: %w", interfaces.ErrNotFound)
	}
	return nil
}

func (r *pricingRepository) DeleteByService(ctx context.Context, serviceID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"service_id": serviceID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete pricing for service: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *pricingRepository) DeleteByRegion(ctx context.Context, regionID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"region_id": regionID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete pricing for region: %w", err)
	}
	return result.DeletedCount, nil
}
