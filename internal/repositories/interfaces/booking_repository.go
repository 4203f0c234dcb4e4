package interfaces

import (
	"context"

	"mecfinder/internal/models"
	"mecfinder/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	Recent(ctx context.Context, limit int64) ([]*models.Booking, error)

	// Transition moves the booking from `from` to the status carried in
	// change. updates are $set alongside it. ErrStateChanged is returned when
	// the stored status is no longer `from`.
	Transition(ctx context.Context, id primitive.ObjectID, from models.BookingStatus, change models.StatusChange, updates map[string]interface{}) (*models.Booking, error)
	SetRefund(ctx context.Context, id primitive.ObjectID, refund *models.Refund, paymentStatus models.PaymentStatus) error

	CountByStatus(ctx context.Context, statuses ...models.BookingStatus) (int64, error)
	CompletedTotals(ctx context.Context) (*models.BookingTotals, error)
	StatsForUser(ctx context.Context, userID primitive.ObjectID) (*models.AccountStats, error)
	StatsForMechanic(ctx context.Context, mechanicID primitive.ObjectID) (*models.AccountStats, error)
}
