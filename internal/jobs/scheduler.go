package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/pkg/logger"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enqueuer is the part of asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler queues the lift of a temporary ban for its expiry time.
type Scheduler struct {
	client Enqueuer
	queue  string
	logger *logger.Logger
}

func NewScheduler(client Enqueuer, queue string, logger *logger.Logger) *Scheduler {
	return &Scheduler{client: client, queue: queue, logger: logger}
}

func (s *Scheduler) ScheduleBanExpiry(ctx context.Context, kind models.SubjectKind, id primitive.ObjectID, at time.Time) error {
	task, opts, err := NewBanExpiryTask(kind, id, at, s.queue)
	if err != nil {
		return fmt.Errorf("failed to build ban expiry task: %w", err)
	}

	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("failed to enqueue ban expiry: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id":    info.ID,
		"subject":    string(kind),
		"subject_id": id.Hex(),
		"process_at": at.UTC().Format(time.RFC3339),
	}).Debug("Ban expiry scheduled")
	return nil
}
