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
	"mecfinder/pkg/moderation"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ModerationService manages users and mechanics, including the ban lifecycle.
type ModerationService interface {
	ListUsers(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, *models.AccountStats, error)
	UpdateUserStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.UserStatus) (*models.User, error)
	BanUser(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.BanRequest) (*models.User, error)
	UnbanUser(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.UnbanRequest) (*models.User, error)

	ListMechanics(ctx context.Context, filter models.MechanicFilter, params *utils.PaginationParams) ([]*models.Mechanic, int64, error)
	GetMechanic(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, *models.AccountStats, error)
	UpdateMechanicStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.MechanicStatus, reason string) (*models.Mechanic, error)
	BanMechanic(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.BanRequest) (*models.Mechanic, error)
	UnbanMechanic(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.UnbanRequest) (*models.Mechanic, error)

	// ExpireBan lifts one temporary ban if it has passed its expiry. It is
	// the handler for the task scheduled at ban time.
	ExpireBan(ctx context.Context, kind models.SubjectKind, id primitive.ObjectID) error

	// ExpireBans lifts every overdue temporary ban and returns how many it lifted.
	ExpireBans(ctx context.Context) (int, error)
}

// BanScheduler schedules the automatic lift of a temporary ban.
type BanScheduler interface {
	ScheduleBanExpiry(ctx context.Context, kind models.SubjectKind, id primitive.ObjectID, at time.Time) error
}

const expiryBatchSize = 100

type subjectStore[T models.Bannable] struct {
	kind         models.SubjectKind
	repo         interfaces.AccountRepository[T]
	activeStatus string
	bannedStatus string
}

type moderationService struct {
	users     subjectStore[*models.User]
	mechanics subjectStore[*models.Mechanic]
	userRepo  interfaces.UserRepository
	mechRepo  interfaces.MechanicRepository
	bookings  interfaces.BookingRepository
	scheduler BanScheduler
	notifier  NotificationService
	audit     AuditService
	events    *eventBus
	logger    *logger.Logger
	now       func() time.Time
}

func NewModerationService(
	userRepo interfaces.UserRepository,
	mechanicRepo interfaces.MechanicRepository,
	bookingRepo interfaces.BookingRepository,
	scheduler BanScheduler,
	notifier NotificationService,
	audit AuditService,
	publisher EventPublisher,
	logger *logger.Logger,
) ModerationService {
	return &moderationService{
		users: subjectStore[*models.User]{
			kind:         models.SubjectUser,
			repo:         userRepo,
			activeStatus: string(models.UserStatusActive),
			bannedStatus: string(models.UserStatusBanned),
		},
		mechanics: subjectStore[*models.Mechanic]{
			kind:         models.SubjectMechanic,
			repo:         mechanicRepo,
			activeStatus: string(models.MechanicStatusActive),
			bannedStatus: string(models.MechanicStatusBanned),
		},
		userRepo:  userRepo,
		mechRepo:  mechanicRepo,
		bookings:  bookingRepo,
		scheduler: scheduler,
		notifier:  notifier,
		audit:     audit,
		events:    newEventBus(publisher, logger),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *moderationService) ListUsers(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *moderationService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, *models.AccountStats, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, translate(err, "user")
	}
	stats, err := s.bookings.StatsForUser(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return user, stats, nil
}

func (s *moderationService) UpdateUserStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.UserStatus) (*models.User, error) {
	if status == models.UserStatusBanned {
		return nil, fieldError("status", "use the ban endpoint to ban a user")
	}
	return updateStatus(ctx, s, s.users, actor, id, string(status), "")
}

func (s *moderationService) BanUser(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.BanRequest) (*models.User, error) {
	return applyBan(ctx, s, s.users, actor, id, req)
}

func (s *moderationService) UnbanUser(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.UnbanRequest) (*models.User, error) {
	return liftBan(ctx, s, s.users, actor, id, req.Reason, models.AuditActionUnban)
}

func (s *moderationService) ListMechanics(ctx context.Context, filter models.MechanicFilter, params *utils.PaginationParams) ([]*models.Mechanic, int64, error) {
	mechanics, total, err := s.mechRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list mechanics: %w", err)
	}
	return mechanics, total, nil
}

func (s *moderationService) GetMechanic(ctx context.Context, id primitive.ObjectID) (*models.Mechanic, *models.AccountStats, error) {
	mechanic, err := s.mechRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, translate(err, "mechanic")
	}
	stats, err := s.bookings.StatsForMechanic(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get mechanic stats: %w", err)
	}
	return mechanic, stats, nil
}

func (s *moderationService) UpdateMechanicStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.MechanicStatus, reason string) (*models.Mechanic, error) {
	if status == models.MechanicStatusBanned {
		return nil, fieldError("status", "use the ban endpoint to ban a mechanic")
	}
	return updateStatus(ctx, s, s.mechanics, actor, id, string(status), reason)
}

func (s *moderationService) BanMechanic(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.BanRequest) (*models.Mechanic, error) {
	return applyBan(ctx, s, s.mechanics, actor, id, req)
}

func (s *moderationService) UnbanMechanic(ctx context.Context, actor Actor, id primitive.ObjectID, req moderation.UnbanRequest) (*models.Mechanic, error) {
	return liftBan(ctx, s, s.mechanics, actor, id, req.Reason, models.AuditActionUnban)
}

func (s *moderationService) ExpireBan(ctx context.Context, kind models.SubjectKind, id primitive.ObjectID) error {
	var err error
	switch kind {
	case models.SubjectUser:
		err = expireOne(ctx, s, s.users, id)
	case models.SubjectMechanic:
		err = expireOne(ctx, s, s.mechanics, id)
	default:
		return fmt.Errorf("unknown subject kind %q: %w", kind, ErrValidation)
	}
	return err
}

func (s *moderationService) ExpireBans(ctx context.Context) (int, error) {
	users, err := sweep(ctx, s, s.users)
	if err != nil {
		return users, err
	}
	mechanics, err := sweep(ctx, s, s.mechanics)
	return users + mechanics, err
}

func updateStatus[T models.Bannable](ctx context.Context, s *moderationService, store subjectStore[T], actor Actor, id primitive.ObjectID, status, reason string) (T, error) {
	var zero T
	updated, err := store.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, interfaces.ErrStateChanged) {
			return zero, fmt.Errorf("%s is banned, unban before changing status: %w", store.kind, ErrConflict)
		}
		return zero, translate(err, string(store.kind))
	}

	details := map[string]interface{}{"status": status}
	if reason != "" {
		details["reason"] = reason
	}
	s.audit.Record(ctx, actor, models.AuditActionStatus, string(store.kind), id.Hex(), details)
	s.events.emit(ctx, actor, websocket.TopicModeration, string(store.kind)+".status", id.Hex(), details)
	return updated, nil
}

// applyBan moves an ACTIVE subject into a banned state. Banning a subject
// that is already banned is a conflict; the operator must unban first.
func applyBan[T models.Bannable](ctx context.Context, s *moderationService, store subjectStore[T], actor Actor, id primitive.ObjectID, req moderation.BanRequest) (T, error) {
	var zero T
	current, err := store.repo.GetByID(ctx, id)
	if err != nil {
		return zero, translate(err, string(store.kind))
	}

	next, err := moderation.Ban(current.GetBanInfo(), req, actor.AdminID.Hex(), s.now())
	if err != nil {
		return zero, translate(err, string(store.kind))
	}

	updated, err := store.repo.ApplyBan(ctx, id, false, next, store.bannedStatus)
	if err != nil {
		if errors.Is(err, interfaces.ErrStateChanged) {
			return zero, fmt.Errorf("%s is already banned: %w", store.kind, ErrConflict)
		}
		return zero, translate(err, string(store.kind))
	}

	details := map[string]interface{}{
		"ban_type": string(next.BanType),
		"reason":   next.BanReason,
	}
	if next.BanExpiresAt != nil {
		details["ban_expires_at"] = next.BanExpiresAt.Format(time.RFC3339)
		details["duration_days"] = req.Duration
	}

	s.logger.LogModerationEvent(string(store.kind), id, "banned", details)
	s.audit.Record(ctx, actor, models.AuditActionBan, string(store.kind), id.Hex(), details)
	s.events.emit(ctx, actor, websocket.TopicModeration, string(store.kind)+".banned", id.Hex(), details)

	if next.BanExpiresAt != nil && s.scheduler != nil {
		if err := s.scheduler.ScheduleBanExpiry(ctx, store.kind, id, *next.BanExpiresAt); err != nil {
			// the periodic sweep still lifts the ban
			s.logger.WithError(err).WithField("subject_id", id.Hex()).Warn("Failed to schedule ban expiry")
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyBanned(ctx, updated, store.kind)
	}

	return updated, nil
}

// liftBan returns a banned subject to ACTIVE. Lifting the ban of a subject
// that is not banned returns it unchanged.
func liftBan[T models.Bannable](ctx context.Context, s *moderationService, store subjectStore[T], actor Actor, id primitive.ObjectID, reason string, action models.AuditAction) (T, error) {
	var zero T
	current, err := store.repo.GetByID(ctx, id)
	if err != nil {
		return zero, translate(err, string(store.kind))
	}

	previous := current.GetBanInfo()
	if !previous.IsBanned {
		return current, nil
	}

	updated, err := store.repo.ApplyBan(ctx, id, true, moderation.Unban(previous), store.activeStatus)
	if err != nil {
		if errors.Is(err, interfaces.ErrStateChanged) {
			// lifted concurrently; report the current record
			latest, getErr := store.repo.GetByID(ctx, id)
			if getErr != nil {
				return zero, translate(getErr, string(store.kind))
			}
			return latest, nil
		}
		return zero, translate(err, string(store.kind))
	}

	details := map[string]interface{}{"previous_ban_type": string(previous.BanType)}
	if reason != "" {
		details["reason"] = reason
	}

	event := "unbanned"
	if action == models.AuditActionExpire {
		event = "ban_expired"
	}

	s.logger.LogModerationEvent(string(store.kind), id, event, details)
	s.audit.Record(ctx, actor, action, string(store.kind), id.Hex(), details)
	s.events.emit(ctx, actor, websocket.TopicModeration, string(store.kind)+"."+event, id.Hex(), details)
	if s.notifier != nil {
		s.notifier.NotifyUnbanned(ctx, updated, store.kind)
	}

	return updated, nil
}

func expireOne[T models.Bannable](ctx context.Context, s *moderationService, store subjectStore[T], id primitive.ObjectID) error {
	current, err := store.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil
		}
		return err
	}

	// the ban may have been lifted or replaced since the task was queued
	if !current.GetBanInfo().Expired(s.now()) {
		return nil
	}

	_, err = liftBan(ctx, s, store, Actor{}, id, "ban expired", models.AuditActionExpire)
	return err
}

func sweep[T models.Bannable](ctx context.Context, s *moderationService, store subjectStore[T]) (int, error) {
	lifted := 0
	for {
		expired, err := store.repo.FindExpiredBans(ctx, s.now(), expiryBatchSize)
		if err != nil {
			return lifted, fmt.Errorf("failed to find expired %s bans: %w", store.kind, err)
		}

		for _, subject := range expired {
			if _, err := liftBan(ctx, s, store, Actor{}, subject.GetID(), "ban expired", models.AuditActionExpire); err != nil {
				return lifted, err
			}
			lifted++
		}

		if len(expired) < expiryBatchSize {
			return lifted, nil
		}
	}
}
