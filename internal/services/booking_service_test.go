package services

import (
	"context"
	"errors"
	"testing"

	"mecfinder/internal/models"
	"mecfinder/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBookingFixture(payments payment.PaymentProvider, bookings ...*models.Booking) (BookingService, *fakeBookingRepo, *fakeAuditRepo, *fakeUserRepo) {
	repo := newFakeBookingRepo(bookings...)
	users := newFakeUserRepo()
	audit := &fakeAuditRepo{}

	svc := NewBookingService(
		repo,
		users,
		newFakeMechanicRepo(),
		payments,
		BookingConfig{Currency: "INR", RefundOnCancel: true},
		NewAuditService(audit, testLogger),
		&fakePublisher{},
		testLogger,
	)
	return svc, repo, audit, users
}

func paidBooking(status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID:            primitive.NewObjectID(),
		BookingNumber: "MF-1001",
		UserID:        primitive.NewObjectID(),
		Status:        status,
		PaymentMethod: models.PaymentMethodOnline,
		PaymentStatus: models.PaymentStatusPaid,
		TransactionID: "pi_123",
		Pricing:       models.BookingPricing{TotalAmount: 803},
	}
}

func TestBookingService_UpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.BookingStatus
		to      models.BookingStatus
		wantErr error
	}{
		{name: "pending to searching", from: models.BookingStatusPending, to: models.BookingStatusSearching},
		{name: "assigned back to searching", from: models.BookingStatusAssigned, to: models.BookingStatusSearching},
		{name: "in progress to completed", from: models.BookingStatusInProgress, to: models.BookingStatusCompleted},
		{name: "cancel en route", from: models.BookingStatusEnRoute, to: models.BookingStatusCancelled},
		{name: "skip ahead", from: models.BookingStatusPending, to: models.BookingStatusArrived, wantErr: ErrConflict},
		{name: "reopen completed", from: models.BookingStatusCompleted, to: models.BookingStatusSearching, wantErr: ErrConflict},
		{name: "cancel cancelled", from: models.BookingStatusCancelled, to: models.BookingStatusCancelled, wantErr: ErrConflict},
		{name: "unknown status", from: models.BookingStatusPending, to: "LOST", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &models.Booking{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID(), Status: tt.from, PaymentMethod: models.PaymentMethodCash}
			svc, repo, audit, _ := newBookingFixture(nil, booking)

			updated, err := svc.UpdateStatus(context.Background(), testActor(), booking.ID, tt.to, "ops note")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.bookings[booking.ID].Status)
				assert.Empty(t, audit.actions())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			require.Len(t, updated.StatusHistory, 1)
			assert.Equal(t, "ops note", updated.StatusHistory[0].Note)
			assert.Equal(t, []models.AuditAction{models.AuditActionStatus}, audit.actions())

			switch tt.to {
			case models.BookingStatusCompleted:
				assert.NotNil(t, updated.CompletedAt)
			case models.BookingStatusCancelled:
				assert.NotNil(t, updated.CancelledAt)
				assert.Equal(t, "ops note", updated.CancelReason)
			}
		})
	}
}

func TestBookingService_CancelRefundsOnlinePayment(t *testing.T) {
	booking := paidBooking(models.BookingStatusAccepted)
	payments := &fakePayments{}
	svc, repo, audit, _ := newBookingFixture(payments, booking)

	updated, err := svc.UpdateStatus(context.Background(), testActor(), booking.ID, models.BookingStatusCancelled, "customer request")
	require.NoError(t, err)

	require.Len(t, payments.requests, 1)
	assert.Equal(t, "pi_123", payments.requests[0].TransactionID)
	assert.Equal(t, 803.0, payments.requests[0].Amount)
	assert.Equal(t, "INR", payments.requests[0].Currency)

	assert.Equal(t, models.PaymentStatusRefunded, updated.PaymentStatus)
	require.NotNil(t, updated.Refund)
	assert.Equal(t, "rf_1", updated.Refund.RefundID)
	assert.Equal(t, models.PaymentStatusRefunded, repo.bookings[booking.ID].PaymentStatus)
	assert.Equal(t, []models.AuditAction{models.AuditActionRefund, models.AuditActionStatus}, audit.actions())
}

func TestBookingService_FailedRefundIsRecorded(t *testing.T) {
	booking := paidBooking(models.BookingStatusSearching)
	payments := &fakePayments{err: errors.New("gateway timeout")}
	svc, repo, _, _ := newBookingFixture(payments, booking)

	updated, err := svc.UpdateStatus(context.Background(), testActor(), booking.ID, models.BookingStatusCancelled, "")
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusCancelled, updated.Status)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, repo.bookings[booking.ID].Refund)
	assert.Equal(t, "failed", repo.bookings[booking.ID].Refund.Status)
}

func TestBookingService_CashCancelSkipsRefund(t *testing.T) {
	booking := paidBooking(models.BookingStatusAssigned)
	booking.PaymentMethod = models.PaymentMethodCash
	payments := &fakePayments{}
	svc, _, _, _ := newBookingFixture(payments, booking)

	_, err := svc.UpdateStatus(context.Background(), testActor(), booking.ID, models.BookingStatusCancelled, "")
	require.NoError(t, err)
	assert.Empty(t, payments.requests)
}

func TestBookingService_GetPopulatesParties(t *testing.T) {
	booking := paidBooking(models.BookingStatusPending)
	svc, _, _, users := newBookingFixture(nil, booking)
	users.items[booking.UserID] = &models.User{ID: booking.UserID, Name: "Asha", Phone: "9876543210"}

	got, err := svc.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "Asha", got.User.Name)
	assert.Nil(t, got.Mechanic)

	_, err = svc.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}
