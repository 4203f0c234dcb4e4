package services

import (
	"context"
	"testing"

	"mecfinder/internal/models"
	"mecfinder/pkg/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDashboardService_Get(t *testing.T) {
	users := newFakeUserRepo(
		activeUser(),
		activeUser(),
		bannedUser(moderation.BanTypePermanent, nil),
	)
	mechanics := newFakeMechanicRepo(
		&models.Mechanic{ID: primitive.NewObjectID(), Status: models.MechanicStatusPending},
		&models.Mechanic{ID: primitive.NewObjectID(), Status: models.MechanicStatusApproved, IsOnline: true},
	)

	completed := &models.Booking{ID: primitive.NewObjectID(), Status: models.BookingStatusCompleted, Pricing: models.BookingPricing{TotalAmount: 803, CompanyEarning: 125}}
	bookings := newFakeBookingRepo(
		completed,
		&models.Booking{ID: primitive.NewObjectID(), Status: models.BookingStatusEnRoute},
		&models.Booking{ID: primitive.NewObjectID(), Status: models.BookingStatusCancelled},
	)
	support := newFakeSupportRepo(
		&models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusOpen},
		&models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusInProgress},
		&models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusClosed},
	)
	regions := newFakeRegionRepo(
		&models.Region{ID: primitive.NewObjectID(), Status: models.RegionStatusActive},
		&models.Region{ID: primitive.NewObjectID(), Status: models.RegionStatusInactive},
	)
	c := newFakeCache()
	svc := NewDashboardService(users, mechanics, bookings, support, regions, c, testLogger)
	ctx := context.Background()

	dashboard, err := svc.Get(ctx, false)
	require.NoError(t, err)

	stats := dashboard.Stats
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.BannedUsers)
	assert.Equal(t, int64(2), stats.TotalMechanics)
	assert.Equal(t, int64(1), stats.OnlineMechanics)
	assert.Equal(t, int64(1), stats.PendingMechanics)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ActiveBookings)
	assert.Equal(t, int64(1), stats.CompletedBookings)
	assert.Equal(t, int64(1), stats.CancelledBookings)
	assert.Equal(t, 803.0, stats.TotalRevenue)
	assert.Equal(t, 125.0, stats.CompanyEarnings)
	assert.Equal(t, int64(2), stats.OpenQueries)
	assert.Equal(t, int64(1), stats.ActiveRegions)
	assert.Len(t, dashboard.RecentBookings, 3)

	// cached until a refresh is requested
	bookings.bookings[primitive.NewObjectID()] = &models.Booking{Status: models.BookingStatusPending}
	cached, err := svc.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.Stats.TotalBookings)

	fresh, err := svc.Get(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fresh.Stats.TotalBookings)
}
