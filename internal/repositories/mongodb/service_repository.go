package mongodb

import (
	"context"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type serviceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) interfaces.ServiceRepository {
	return &serviceRepository{
		collection: db.Collection(database.CollectionServices),
	}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	service.ID = primitive.NewObjectID()
	service.CreatedAt = time.Now()
	service.UpdatedAt = service.CreatedAt

	if _, err := r.collection.InsertOne(ctx, service); err != nil {
		return wrapWriteError(err, "create service")
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	return findOne[models.Service](ctx, r.collection, bson.M{"_id": id}, "service")
}

func (r *serviceRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Service, error) {
	out := make(map[primitive.ObjectID]*models.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	services, err := findAll[models.Service](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}}, nil, "services")
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		out[s.ID] = s
	}
	return out, nil
}

func (r *serviceRepository) List(ctx context.Context, f models.ServiceFilter, params *utils.PaginationParams) ([]*models.Service, int64, error) {
	filter := bson.M{}
	if f.CategoryID != nil {
		filter["category_id"] = *f.CategoryID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		params.Search = f.Search
	}
	return findPage[models.Service](ctx, r.collection, filter, params, []string{"name", "description"}, "services")
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	service.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": service.ID}, service)
	if err != nil {
		return wrapWriteError(err, "update service")
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("service not found: %w", interfaces.ErrNotFound)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("service not found: %w", interfaces.ErrNotFound)
	}
	return nil
}

func (r *serviceRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}
