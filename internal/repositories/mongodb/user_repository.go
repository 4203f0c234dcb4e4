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

type userRepository struct {
	*accountStore[models.User]
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	collection := db.Collection(database.CollectionUsers)
	return &userRepository{
		accountStore: &accountStore[models.User]{collection: collection, name: "user"},
		collection:   collection,
	}
}

func (r *userRepository) List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	if filter.Search != "" {
		params.Search = filter.Search
	}
	return findPage[models.User](ctx, r.collection, userFilter(filter), params, []string{"name", "email", "phone"}, "users")
}

func (r *userRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, userFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func userFilter(f models.UserFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
