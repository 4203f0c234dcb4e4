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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection(database.CollectionBookings),
	}
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return findOne[models.Booking](ctx, r.collection, bson.M{"_id": id}, "booking")
}

func (r *bookingRepository) List(ctx context.Context, f models.BookingFilter, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	if f.Search != "" {
		params.Search = f.Search
	}
	return findPage[models.Booking](ctx, r.collection, bookingFilter(f), params,
		[]string{"booking_number", "service_snapshot.name", "address"}, "bookings")
}

func bookingFilter(f models.BookingFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentMethod != "" {
		filter["payment_method"] = f.PaymentMethod
	}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.MechanicID != nil {
		filter["mechanic_id"] = *f.MechanicID
	}
	if f.StartDate != nil || f.EndDate != nil {
		created := bson.M{}
		if f.StartDate != nil {
			created["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			created["$lte"] = *f.EndDate
		}
		filter["created_at"] = created
	}
	return filter
}

func (r *bookingRepository) Recent(ctx context.Context, limit int64) ([]*models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	return findAll[models.Booking](ctx, r.collection, bson.M{}, opts, "bookings")
}

func (r *bookingRepository) Transition(ctx context.Context, id primitive.ObjectID, from models.BookingStatus, change models.StatusChange, updates map[string]interface{}) (*models.Booking, error) {
	set := bson.M{"status": change.Status, "updated_at": change.ChangedAt}
	for k, v := range updates {
		set[k] = v
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"status_history": change},
	}

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, update, afterUpdate()).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to check booking: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("booking not found: %w", interfaces.ErrNotFound)
	}
	return nil, fmt.Errorf("booking %s left %s: %w", id.Hex(), from, interfaces.ErrStateChanged)
}

func (r *bookingRepository) SetRefund(ctx context.Context, id primitive.ObjectID, refund *models.Refund, paymentStatus models.PaymentStatus) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"refund":         refund,
			"payment_status": paymentStatus,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}
	return nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context, statuses ...models.BookingStatus) (int64, error) {
	filter := bson.M{}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) CompletedTotals(ctx context.Context) (*models.BookingTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.BookingStatusCompleted}}},
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"revenue":          bson.M{"$sum": "$pricing.total_amount"},
			"company_earnings": bson.M{"$sum": "$pricing.company_earning"},
		}}},
	}

	totals := &models.BookingTotals{}
	if err := r.aggregateOne(ctx, pipeline, totals); err != nil {
		return nil, fmt.Errorf("failed to aggregate booking totals: %w", err)
	}
	return totals, nil
}

func (r *bookingRepository) StatsForUser(ctx context.Context, userID primitive.ObjectID) (*models.AccountStats, error) {
	return r.accountStats(ctx, bson.M{"user_id": userID})
}

func (r *bookingRepository) StatsForMechanic(ctx context.Context, mechanicID primitive.ObjectID) (*models.AccountStats, error) {
	return r.accountStats(ctx, bson.M{"mechanic_id": mechanicID})
}

type accountStatsDoc struct {
	Total       int64   `bson:"total"`
	Completed   int64   `bson:"completed"`
	Cancelled   int64   `bson:"cancelled"`
	TotalAmount float64 `bson:"total_amount"`
}

func (r *bookingRepository) accountStats(ctx context.Context, match bson.M) (*models.AccountStats, error) {
	isStatus := func(s models.BookingStatus) bson.M {
		return bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", s}}, 1, 0}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"completed": bson.M{"$sum": isStatus(models.BookingStatusCompleted)},
			"cancelled": bson.M{"$sum": isStatus(models.BookingStatusCancelled)},
			"total_amount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.BookingStatusCompleted}},
				"$pricing.total_amount",
				0,
			}}},
		}}},
	}

	var doc accountStatsDoc
	if err := r.aggregateOne(ctx, pipeline, &doc); err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}
	return &models.AccountStats{
		TotalBookings:     doc.Total,
		CompletedBookings: doc.Completed,
		CancelledBookings: doc.Cancelled,
		TotalAmount:       doc.TotalAmount,
	}, nil
}

// aggregateOne decodes the first result of pipeline into dest and leaves
// dest untouched when the pipeline yields nothing.
func (r *bookingRepository) aggregateOne(ctx context.Context, pipeline mongo.Pipeline, dest interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		return cursor.Decode(dest)
	}
	return cursor.Err()
}
