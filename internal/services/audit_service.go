package services

import (
	"context"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/logger"
)

type AuditService interface {
	Record(ctx context.Context, actor Actor, action models.AuditAction, resource, resourceID string, details map[string]interface{})
	History(ctx context.Context, resource, resourceID string, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
}

type auditService struct {
	auditLogRepo interfaces.AuditLogRepository
	logger       *logger.Logger
}

func NewAuditService(auditLogRepo interfaces.AuditLogRepository, logger *logger.Logger) AuditService {
	return &auditService{
		auditLogRepo: auditLogRepo,
		logger:       logger,
	}
}

// Record writes the audit entry and the structured log line. A failed write
// is logged and never fails the caller's mutation.
func (s *auditService) Record(ctx context.Context, actor Actor, action models.AuditAction, resource, resourceID string, details map[string]interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		RequestID:  actor.RequestID,
		CreatedAt:  time.Now().UTC(),
	}
	if !actor.AdminID.IsZero() {
		adminID := actor.AdminID
		entry.AdminID = &adminID
	}

	s.logger.WithContext(ctx).LogAdminAction(actor.AdminID, string(action), resource, resourceID, details)

	if err := s.auditLogRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("resource", resource).Error("Failed to write audit log")
	}
}

func (s *auditService) History(ctx context.Context, resource, resourceID string, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	logs, total, err := s.auditLogRepo.GetResourceHistory(ctx, resource, resourceID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get audit history: %w", err)
	}
	return logs, total, nil
}
