package mongodb

import (
	"context"
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

const regionCacheTTL = 10 * time.Minute

type regionRepository struct {
	collection *mongo.Collection
	cache      interfaces.CacheService
}

func NewRegionRepository(db *mongo.Database, cache interfaces.CacheService) interfaces.RegionRepository {
	return &regionRepository{
		collection: db.Collection(database.CollectionRegions),
		cache:      cache,
	}
}

func (r *regionRepository) Create(ctx context.Context, region *models.Region) error {
	region.ID = primitive.NewObjectID()
	region.CreatedAt = time.Now()
	region.UpdatedAt = region.CreatedAt

	if _, err := r.collection.InsertOne(ctx, region); err != nil {
		return wrapWriteError(err, "create region")
	}
	return nil
}

func (r *regionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Region, error) {
	key := fmt.Sprintf("region:%s", id.Hex())
	if r.cache != nil {
		var cached models.Region
		if err := r.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	region, err := findOne[models.Region](ctx, r.collection, bson.M{"_id": id}, "region")
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(ctx, key, region, regionCacheTTL)
	}
	return region, nil
}

func (r *regionRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Region, error) {
	out := make(map[primitive.ObjectID]*models.Region, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	regions, err := findAll[models.Region](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, nil, "regions")
	if err != nil {
		return nil, err
	}
	for _, region := range regions {
		out[region.ID] = region
	}
	return out, nil
}

func (r *regionRepository) List(ctx context.Context, status models.RegionStatus) ([]*models.Region, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "state", Value: 1}, {Key: "name", Value: 1}})
	return findAll[models.Region](ctx, r.collection, filter, opts, "regions")
}

func (r *regionRepository) Update(ctx context.Context, region *models.Region) error {
	region.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": region.ID}, region)
	if err != nil {
		return wrapWriteError(err, "update region")
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("region not found: %w", interfaces.ErrNotFound)
	}

	r.invalidate(ctx, region.ID)
	return nil
}

func (r *regionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("region not found: %w", interfaces.ErrNotFound)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *regionRepository) Count(ctx context.Context, status models.RegionStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count regions: %w", err)
	}
	return count, nil
}

func (r *regionRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("region:%s", id.Hex()))
	}
}
