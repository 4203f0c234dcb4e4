package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/payment"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	List(ctx context.Context, filter models.BookingFilter, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)

	// UpdateStatus moves a booking along the booking flow. Cancelling a paid
	// online booking refunds it through the payment gateway.
	UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.BookingStatus, note string) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo    interfaces.BookingRepository
	userRepo       interfaces.UserRepository
	mechanicRepo   interfaces.MechanicRepository
	payments       payment.PaymentProvider
	currency       string
	refundOnCancel bool
	audit          AuditService
	events         *eventBus
	logger         *logger.Logger
	now            func() time.Time
}

type BookingConfig struct {
	Currency       string
	RefundOnCancel bool
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	userRepo interfaces.UserRepository,
	mechanicRepo interfaces.MechanicRepository,
	payments payment.PaymentProvider,
	config BookingConfig,
	audit AuditService,
	publisher EventPublisher,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		userRepo:       userRepo,
		mechanicRepo:   mechanicRepo,
		payments:       payments,
		currency:       config.Currency,
		refundOnCancel: config.RefundOnCancel,
		audit:          audit,
		events:         newEventBus(publisher, logger),
		logger:         logger,
		now:            time.Now,
	}
}

func (s *bookingService) List(ctx context.Context, filter models.BookingFilter, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	bookings, total, err := s.bookingRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	if err := populateBookings(ctx, s.userRepo, s.mechanicRepo, bookings...); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (s *bookingService) Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "booking")
	}
	if err := populateBookings(ctx, s.userRepo, s.mechanicRepo, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.BookingStatus, note string) (*models.Booking, error) {
	if !status.IsValid() {
		return nil, fieldError("status", "unknown booking status")
	}

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "booking")
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w", current.Status, status, ErrConflict)
	}

	now := s.now().UTC()
	change := models.StatusChange{
		Status:    status,
		ChangedBy: actor.AdminID.Hex(),
		Note:      note,
		ChangedAt: now,
	}
	updates := map[string]interface{}{}
	switch status {
	case models.BookingStatusCompleted:
		updates["completed_at"] = now
	case models.BookingStatusCancelled:
		updates["cancelled_at"] = now
		if note != "" {
			updates["cancel_reason"] = note
		}
	}

	updated, err := s.bookingRepo.Transition(ctx, id, current.Status, change, updates)
	if err != nil {
		if errors.Is(err, interfaces.ErrStateChanged) {
			return nil, fmt.Errorf("booking status changed concurrently: %w", ErrConflict)
		}
		return nil, translate(err, "booking")
	}

	if status == models.BookingStatusCancelled && updated.NeedsRefund() {
		s.refund(ctx, actor, updated)
	}

	if err := populateBookings(ctx, s.userRepo, s.mechanicRepo, updated); err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"from": string(current.Status),
		"to":   string(status),
	}
	s.audit.Record(ctx, actor, models.AuditActionStatus, "booking", id.Hex(), details)
	s.events.emit(ctx, actor, websocket.TopicBookings, "booking.status", id.Hex(), details)
	return updated, nil
}

// refund is best effort. A failed refund is recorded on the booking so an
// operator can retry it from the gateway dashboard.
func (s *bookingService) refund(ctx context.Context, actor Actor, booking *models.Booking) {
	if s.payments == nil || !s.refundOnCancel {
		return
	}

	record := &models.Refund{
		Amount:    booking.Pricing.TotalAmount,
		Provider:  s.payments.Name(),
		CreatedAt: s.now().UTC(),
	}
	paymentStatus := booking.PaymentStatus

	resp, err := s.payments.RefundPayment(ctx, &payment.RefundRequest{
		TransactionID: booking.TransactionID,
		Amount:        booking.Pricing.TotalAmount,
		Currency:      s.currency,
		Reason:        "booking cancelled by admin",
		Metadata:      map[string]string{"booking_id": booking.ID.Hex(), "booking_number": booking.BookingNumber},
	})
	if err != nil {
		record.Status = "failed"
		s.logger.WithError(err).WithField("booking_id", booking.ID.Hex()).Error("Refund failed")
	} else {
		record.RefundID = resp.RefundID
		record.Status = resp.Status
		paymentStatus = models.PaymentStatusRefunded
	}

	if err := s.bookingRepo.SetRefund(ctx, booking.ID, record, paymentStatus); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID.Hex()).Error("Failed to record refund")
		return
	}
	booking.Refund = record
	booking.PaymentStatus = paymentStatus

	s.audit.Record(ctx, actor, models.AuditActionRefund, "booking", booking.ID.Hex(), map[string]interface{}{
		"amount":    record.Amount,
		"status":    record.Status,
		"refund_id": record.RefundID,
	})
}

// populateBookings attaches user and mechanic summaries.
func populateBookings(ctx context.Context, users interfaces.UserRepository, mechanics interfaces.MechanicRepository, bookings ...*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(bookings))
	mechanicIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID)
		if b.MechanicID != nil {
			mechanicIDs = append(mechanicIDs, *b.MechanicID)
		}
	}

	userSummaries, err := users.GetSummaries(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to load booking users: %w", err)
	}
	mechanicSummaries, err := mechanics.GetSummaries(ctx, mechanicIDs)
	if err != nil {
		return fmt.Errorf("failed to load booking mechanics: %w", err)
	}

	for _, b := range bookings {
		b.User = userSummaries[b.UserID]
		if b.MechanicID != nil {
			b.Mechanic = mechanicSummaries[*b.MechanicID]
		}
	}
	return nil
}
