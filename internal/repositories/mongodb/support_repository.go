package mongodb

import (
	"context"
	"errors"
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

type supportRepository struct {
	collection *mongo.Collection
}

func NewSupportRepository(db *mongo.Database) interfaces.SupportRepository {
	return &supportRepository{
		collection: db.Collection(database.CollectionSupportQueries),
	}
}

func (r *supportRepository) Create(ctx context.Context, query *models.SupportQuery) error {
	query.ID = primitive.NewObjectID()
	query.CreatedAt = time.Now()
	query.UpdatedAt = query.CreatedAt

	if _, err := r.collection.InsertOne(ctx, query); err != nil {
		return wrapWriteError(err, "create support query")
	}
	return nil
}

func (r *supportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SupportQuery, error) {
	return findOne[models.SupportQuery](ctx, r.collection, bson.M{"_id": id}, "support query")
}

func (r *supportRepository) List(ctx context.Context, f models.SupportFilter, params *utils.PaginationParams) ([]*models.SupportQuery, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		params.Search = f.Search
	}
	return findPage[models.SupportQuery](ctx, r.collection, filter, params, []string{"subject", "message"}, "support queries")
}

func (r *supportRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SupportQuery, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	var query models.SupportQuery
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&query)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("support query not found: %w", interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update support query: %w", err)
	}
	return &query, nil
}

type statusCount struct {
	Status models.SupportStatus `bson:"_id"`
	Count  int64                `bson:"count"`
}

func (r *supportRepository) Stats(ctx context.Context) (*models.SupportStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate support stats: %w", err)
	}
	counts, err := decodeAll[statusCount](ctx, cursor, "support stats")
	if err != nil {
		return nil, err
	}

	stats := &models.SupportStats{}
	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case models.SupportStatusOpen:
			stats.Open = c.Count
		case models.SupportStatusInProgress:
			stats.InProgress = c.Count
		case models.SupportStatusResolved:
			stats.Resolved = c.Count
		case models.SupportStatusClosed:
			stats.Closed = c.Count
		}
	}
	return stats, nil
}
