package mongodb

import (
	"context"
	"errors"
	"fmt"

	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findPage runs a counted, paginated query and decodes every document.
func findPage[E any](ctx context.Context, collection *mongo.Collection, filter bson.M, params *utils.PaginationParams, searchFields []string, name string) ([]*E, int64, error) {
	if params.Search != "" {
		if searchFilter := params.GetSearchFilter(searchFields); len(searchFilter) > 0 {
			filter = bson.M{"$and": []bson.M{filter, searchFilter}}
		}
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", name, err)
	}

	cursor, err := collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find %s: %w", name, err)
	}

	items, err := decodeAll[E](ctx, cursor, name)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func findAll[E any](ctx context.Context, collection *mongo.Collection, filter bson.M, opts *options.FindOptions, name string) ([]*E, error) {
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", name, err)
	}
	return decodeAll[E](ctx, cursor, name)
}

func decodeAll[E any](ctx context.Context, cursor *mongo.Cursor, name string) ([]*E, error) {
	defer cursor.Close(ctx)

	items := make([]*E, 0)
	for cursor.Next(ctx) {
		var item E
		if err := cursor.Decode(&item); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		items = append(items, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", name, err)
	}
	return items, nil
}

func findOne[E any](ctx context.Context, collection *mongo.Collection, filter bson.M, name string) (*E, error) {
	var item E
	err := collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s not found: %w", name, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	return &item, nil
}

// wrapWriteError maps duplicate key violations onto ErrDuplicate.
func wrapWriteError(err error, action string) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to %s: %w", action, interfaces.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
