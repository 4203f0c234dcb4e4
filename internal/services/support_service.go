package services

import (
	"context"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SupportService interface {
	List(ctx context.Context, filter models.SupportFilter, params *utils.PaginationParams) ([]*models.SupportQuery, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.SupportQuery, error)
	Create(ctx context.Context, actor Actor, req *validators.CreateSupportQueryRequest) (*models.SupportQuery, error)
	UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.SupportStatus, resolution string) (*models.SupportQuery, error)
	Assign(ctx context.Context, actor Actor, id, adminID primitive.ObjectID) (*models.SupportQuery, error)
	Stats(ctx context.Context) (*models.SupportStats, error)
}

type supportService struct {
	supportRepo interfaces.SupportRepository
	userRepo    interfaces.UserRepository
	adminRepo   interfaces.AdminRepository
	audit       AuditService
	events      *eventBus
	logger      *logger.Logger
	now         func() time.Time
}

func NewSupportService(
	supportRepo interfaces.SupportRepository,
	userRepo interfaces.UserRepository,
	adminRepo interfaces.AdminRepository,
	audit AuditService,
	publisher EventPublisher,
	logger *logger.Logger,
) SupportService {
	return &supportService{
		supportRepo: supportRepo,
		userRepo:    userRepo,
		adminRepo:   adminRepo,
		audit:       audit,
		events:      newEventBus(publisher, logger),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *supportService) List(ctx context.Context, filter models.SupportFilter, params *utils.PaginationParams) ([]*models.SupportQuery, int64, error) {
	queries, total, err := s.supportRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list support queries: %w", err)
	}
	if err := s.populate(ctx, queries...); err != nil {
		return nil, 0, err
	}
	return queries, total, nil
}

func (s *supportService) Get(ctx context.Context, id primitive.ObjectID) (*models.SupportQuery, error) {
	query, err := s.supportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "support query")
	}
	if err := s.populate(ctx, query); err != nil {
		return nil, err
	}
	return query, nil
}

func (s *supportService) Create(ctx context.Context, actor Actor, req *validators.CreateSupportQueryRequest) (*models.SupportQuery, error) {
	userID, err := parseObjectID("userId", req.UserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, translate(err, "user")
	}

	query := &models.SupportQuery{
		UserID:    userID,
		BookingID: objectIDPtr(req.BookingID),
		Subject:   req.Subject,
		Message:   req.Message,
		Category:  req.Category,
		Priority:  models.SupportPriority(req.Priority),
		Status:    models.SupportStatusOpen,
	}
	if err := s.supportRepo.Create(ctx, query); err != nil {
		return nil, translate(err, "support query")
	}
	if err := s.populate(ctx, query); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, "support", query.ID.Hex(), map[string]interface{}{
		"priority": string(query.Priority),
	})
	s.events.emit(ctx, actor, websocket.TopicSupport, "support.created", query.ID.Hex(), map[string]interface{}{
		"priority": string(query.Priority),
		"subject":  query.Subject,
	})
	return query, nil
}

func (s *supportService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, status models.SupportStatus, resolution string) (*models.SupportQuery, error) {
	if !status.IsValid() {
		return nil, fieldError("status", "unknown ticket status")
	}

	updates := map[string]interface{}{"status": status}
	if resolution != "" {
		updates["resolution"] = resolution
	}
	if status == models.SupportStatusResolved || status == models.SupportStatusClosed {
		updates["resolved_at"] = s.now().UTC()
		if !actor.AdminID.IsZero() {
			updates["resolved_by"] = actor.AdminID
		}
	}

	query, err := s.supportRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, translate(err, "support query")
	}
	if err := s.populate(ctx, query); err != nil {
		return nil, err
	}

	details := map[string]interface{}{"status": string(status)}
	s.audit.Record(ctx, actor, models.AuditActionStatus, "support", id.Hex(), details)
	s.events.emit(ctx, actor, websocket.TopicSupport, "support.status", id.Hex(), details)
	return query, nil
}

// Assign hands the ticket to an admin and moves an OPEN ticket to IN_PROGRESS.
func (s *supportService) Assign(ctx context.Context, actor Actor, id, adminID primitive.ObjectID) (*models.SupportQuery, error) {
	if _, err := s.adminRepo.GetByID(ctx, adminID); err != nil {
		return nil, translate(err, "admin")
	}

	current, err := s.supportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "support query")
	}

	updates := map[string]interface{}{"assigned_to": adminID}
	if current.Status == models.SupportStatusOpen {
		updates["status"] = models.SupportStatusInProgress
	}

	query, err := s.supportRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, translate(err, "support query")
	}
	if err := s.populate(ctx, query); err != nil {
		return nil, err
	}

	details := map[string]interface{}{"assigned_to": adminID.Hex()}
	s.audit.Record(ctx, actor, models.AuditActionUpdate, "support", id.Hex(), details)
	s.events.emit(ctx, actor, websocket.TopicSupport, "support.assigned", id.Hex(), details)
	return query, nil
}

func (s *supportService) Stats(ctx context.Context) (*models.SupportStats, error) {
	stats, err := s.supportRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get support stats: %w", err)
	}
	return stats, nil
}

func (s *supportService) populate(ctx context.Context, queries ...*models.SupportQuery) error {
	if len(queries) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(queries))
	for _, q := range queries {
		ids = append(ids, q.UserID)
	}
	summaries, err := s.userRepo.GetSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load ticket users: %w", err)
	}
	for _, q := range queries {
		q.User = summaries[q.UserID]
	}
	return nil
}
