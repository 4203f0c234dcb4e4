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

const categoryCacheTTL = 10 * time.Minute

type categoryRepository struct {
	collection *mongo.Collection
	cache      interfaces.CacheService
}

func NewCategoryRepository(db *mongo.Database, cache interfaces.CacheService) interfaces.CategoryRepository {
	return &categoryRepository{
		collection: db.Collection(database.CollectionServiceCategories),
		cache:      cache,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.ServiceCategory) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		return wrapWriteError(err, "create category")
	}
	r.cacheCategory(ctx, category)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceCategory, error) {
	if category := r.getCategoryFromCache(ctx, id.Hex()); category != nil {
		return category, nil
	}

	category, err := findOne[models.ServiceCategory](ctx, r.collection, bson.M{"_id": id}, "category")
	if err != nil {
		return nil, err
	}
	r.cacheCategory(ctx, category)
	return category, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.ServiceCategory, error) {
	out := make(map[primitive.ObjectID]*models.ServiceCategory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	categories, err := findAll[models.ServiceCategory](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, nil, "categories")
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		out[c.ID] = c
	}
	return out, nil
}

func (r *categoryRepository) List(ctx context.Context, status models.CatalogStatus) ([]*models.ServiceCategory, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "name", Value: 1}})
	return findAll[models.ServiceCategory](ctx, r.collection, filter, opts, "categories")
}

func (r *categoryRepository) Update(ctx context.Context, category *models.ServiceCategory) error {
	category.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return wrapWriteError(err, "update category")
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("category not found: %w", interfaces.ErrNotFound)
	}

	r.invalidateCategoryCache(ctx, category.ID.Hex())
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("category not found: %w", interfaces.ErrNotFound)
	}

	r.invalidateCategoryCache(ctx, id.Hex())
	return nil
}

func (r *categoryRepository) InsertIfMissing(ctx context.Context, category *models.ServiceCategory) (bool, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"name": category.Name},
		bson.M{"$setOnInsert": bson.M{
			"name":          category.Name,
			"description":   category.Description,
			"icon":          category.Icon,
			"display_order": category.DisplayOrder,
			"status":        category.Status,
			"created_at":    now,
			"updated_at":    now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to seed category %q: %w", category.Name, err)
	}
	return result.UpsertedCount > 0, nil
}

// Cache operations
func (r *categoryRepository) cacheCategory(ctx context.Context, category *models.ServiceCategory) {
	if r.cache != nil {
		r.cache.Set(ctx, fmt.Sprintf("category:%s", category.ID.Hex()), category, categoryCacheTTL)
	}
}

func (r *categoryRepository) getCategoryFromCache(ctx context.Context, id string) *models.ServiceCategory {
	if r.cache == nil {
		return nil
	}
	var category models.ServiceCategory
	if err := r.cache.Get(ctx, fmt.Sprintf("category:%s", id), &category); err != nil {
		return nil
	}
	return &category
}

func (r *categoryRepository) invalidateCategoryCache(ctx context.Context, id string) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("category:%s", id))
	}
}
