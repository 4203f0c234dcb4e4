package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/cache"
	"mecfinder/pkg/logger"
)

type DashboardService interface {
	// Get returns the cached dashboard unless refresh is set.
	Get(ctx context.Context, refresh bool) (*models.Dashboard, error)
}

const (
	dashboardTTL         = time.Minute
	dashboardRecentLimit = 5
)

var activeBookingStatuses = []models.BookingStatus{
	models.BookingStatusPending,
	models.BookingStatusSearching,
	models.BookingStatusAssigned,
	models.BookingStatusAccepted,
	models.BookingStatusEnRoute,
	models.BookingStatusArrived,
	models.BookingStatusInProgress,
}

type dashboardService struct {
	userRepo     interfaces.UserRepository
	mechanicRepo interfaces.MechanicRepository
	bookingRepo  interfaces.BookingRepository
	supportRepo  interfaces.SupportRepository
	regionRepo   interfaces.RegionRepository
	cache        Cache
	logger       *logger.Logger
}

func NewDashboardService(
	userRepo interfaces.UserRepository,
	mechanicRepo interfaces.MechanicRepository,
	bookingRepo interfaces.BookingRepository,
	supportRepo interfaces.SupportRepository,
	regionRepo interfaces.RegionRepository,
	cache Cache,
	logger *logger.Logger,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		mechanicRepo: mechanicRepo,
		bookingRepo:  bookingRepo,
		supportRepo:  supportRepo,
		regionRepo:   regionRepo,
		cache:        cache,
		logger:       logger,
	}
}

func (s *dashboardService) Get(ctx context.Context, refresh bool) (*models.Dashboard, error) {
	if !refresh && s.cache != nil {
		var cached models.Dashboard
		err := s.cache.Get(ctx, utils.CacheKeyDashboard, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Failed to read dashboard cache")
		}
	}

	dashboard, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, utils.CacheKeyDashboard, dashboard, dashboardTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache dashboard")
		}
	}
	return dashboard, nil
}

func (s *dashboardService) build(ctx context.Context) (*models.Dashboard, error) {
	var stats models.DashboardStats
	var err error

	online := true
	counters := []struct {
		dest *int64
		fn   func() (int64, error)
	}{
		{&stats.TotalUsers, func() (int64, error) { return s.userRepo.Count(ctx, models.UserFilter{}) }},
		{&stats.BannedUsers, func() (int64, error) {
			return s.userRepo.Count(ctx, models.UserFilter{Status: models.UserStatusBanned})
		}},
		{&stats.TotalMechanics, func() (int64, error) { return s.mechanicRepo.Count(ctx, models.MechanicFilter{}) }},
		{&stats.OnlineMechanics, func() (int64, error) {
			return s.mechanicRepo.Count(ctx, models.MechanicFilter{IsOnline: &online})
		}},
		{&stats.PendingMechanics, func() (int64, error) {
			return s.mechanicRepo.Count(ctx, models.MechanicFilter{Status: models.MechanicStatusPending})
		}},
		{&stats.BannedMechanics, func() (int64, error) {
			return s.mechanicRepo.Count(ctx, models.MechanicFilter{Status: models.MechanicStatusBanned})
		}},
		{&stats.TotalBookings, func() (int64, error) { return s.bookingRepo.CountByStatus(ctx) }},
		{&stats.ActiveBookings, func() (int64, error) { return s.bookingRepo.CountByStatus(ctx, activeBookingStatuses...) }},
		{&stats.CompletedBookings, func() (int64, error) {
			return s.bookingRepo.CountByStatus(ctx, models.BookingStatusCompleted)
		}},
		{&stats.CancelledBookings, func() (int64, error) {
			return s.bookingRepo.CountByStatus(ctx, models.BookingStatusCancelled)
		}},
		{&stats.ActiveRegions, func() (int64, error) { return s.regionRepo.Count(ctx, models.RegionStatusActive) }},
	}
	for _, c := range counters {
		if *c.dest, err = c.fn(); err != nil {
			return nil, fmt.Errorf("failed to build dashboard: %w", err)
		}
	}

	totals, err := s.bookingRepo.CompletedTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	stats.TotalRevenue = totals.Revenue
	stats.CompanyEarnings = totals.CompanyEarnings

	support, err := s.supportRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	stats.OpenQueries = support.Open + support.InProgress

	recent, err := s.bookingRepo.Recent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	if err := populateBookings(ctx, s.userRepo, s.mechanicRepo, recent...); err != nil {
		return nil, err
	}

	return &models.Dashboard{Stats: stats, RecentBookings: recent}, nil
}
