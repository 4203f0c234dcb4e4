package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/pkg/moderation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// accountStore implements the moderation operations for any collection
// whose documents carry status and ban_info.
type accountStore[E any] struct {
	collection *mongo.Collection
	name       string
}

func (s *accountStore[E]) GetByID(ctx context.Context, id primitive.ObjectID) (*E, error) {
	return findOne[E](ctx, s.collection, bson.M{"_id": id}, s.name)
}

func (s *accountStore[E]) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*E, error) {
	filter := bson.M{"_id": id, "ban_info.is_banned": bson.M{"$ne": true}}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	return s.conditionalUpdate(ctx, id, filter, update)
}

func (s *accountStore[E]) ApplyBan(ctx context.Context, id primitive.ObjectID, wasBanned bool, ban moderation.BanInfo, status string) (*E, error) {
	filter := bson.M{"_id": id, "ban_info.is_banned": bson.M{"$ne": true}}
	if wasBanned {
		filter["ban_info.is_banned"] = true
	}
	update := bson.M{"$set": bson.M{
		"ban_info":   ban,
		"status":     status,
		"updated_at": time.Now(),
	}}
	return s.conditionalUpdate(ctx, id, filter, update)
}

func (s *accountStore[E]) conditionalUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (*E, error) {
	var item E
	err := s.collection.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&item)
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update %s: %w", s.name, err)
	}

	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", s.name, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%s not found: %w", s.name, interfaces.ErrNotFound)
	}
	return nil, fmt.Errorf("%s %s: %w", s.name, id.Hex(), interfaces.ErrStateChanged)
}

func (s *accountStore[E]) FindExpiredBans(ctx context.Context, now time.Time, limit int64) ([]*E, error) {
	filter := bson.M{
		"ban_info.is_banned":      true,
		"ban_info.ban_type":       moderation.BanTypeTemporary,
		"ban_info.ban_expires_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "ban_info.ban_expires_at", Value: 1}}).
		SetLimit(limit)
	return findAll[E](ctx, s.collection, filter, opts, s.name)
}

type partyDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Phone string             `bson:"phone"`
}

func (s *accountStore[E]) GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PartySummary, error) {
	out := make(map[primitive.ObjectID]*models.PartySummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "phone": 1})
	docs, err := findAll[partyDoc](ctx, s.collection, bson.M{"_id": bson.M{"$in": ids}}, opts, s.name)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = &models.PartySummary{ID: d.ID, Name: d.Name, Phone: d.Phone}
	}
	return out, nil
}
