package mongodb

import (
	"context"
	"fmt"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mechanicRepository struct {
	*accountStore[models.Mechanic]
	collection *mongo.Collection
}

func NewMechanicRepository(db *mongo.Database) interfaces.MechanicRepository {
	collection := db.Collection(database.CollectionMechanics)
	return &mechanicRepository{
		accountStore: &accountStore[models.Mechanic]{collection: collection, name: "mechanic"},
		collection:   collection,
	}
}

func (r *mechanicRepository) List(ctx context.Context, filter models.MechanicFilter, params *utils.PaginationParams) ([]*models.Mechanic, int64, error) {
	if filter.Search != "" {
		params.Search = filter.Search
	}
	return findPage[models.Mechanic](ctx, r.collection, mechanicFilter(filter), params, []string{"name", "email", "phone"}, "mechanics")
}

func (r *mechanicRepository) Count(ctx context.Context, filter models.MechanicFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, mechanicFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count mechanics: %w", err)
	}
	return count, nil
}

func mechanicFilter(f models.MechanicFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.IsOnline != nil {
		filter["is_online"] = *f.IsOnline
	}
	return filter
}
