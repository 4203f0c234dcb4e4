// Package jobs runs the background work of the admin API on asynq: the
// one-shot lift of each temporary ban and a periodic sweep that catches any
// expiry the one-shot task missed.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"mecfinder/internal/models"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeBanExpiry = "moderation:ban_expiry"
	TypeBanSweep  = "moderation:ban_sweep"

	defaultQueue    = "moderation"
	banExpiryRetry  = 5
	banSweepTimeout = 5 * time.Minute
)

type BanExpiryPayload struct {
	Kind      models.SubjectKind `json:"kind"`
	SubjectID string             `json:"subjectId"`
}

func (p BanExpiryPayload) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(p.SubjectID)
}

// banExpiryTaskID is stable for one ban so a retried schedule call does not
// queue the lift twice. A later ban of the same subject gets a new ID.
func banExpiryTaskID(kind models.SubjectKind, id primitive.ObjectID, at time.Time) string {
	return fmt.Sprintf("ban-expiry:%s:%s:%d", kind, id.Hex(), at.Unix())
}

func NewBanExpiryTask(kind models.SubjectKind, id primitive.ObjectID, at time.Time, queue string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(BanExpiryPayload{Kind: kind, SubjectID: id.Hex()})
	if err != nil {
		return nil, nil, err
	}
	if queue == "" {
		queue = defaultQueue
	}

	task := asynq.NewTask(TypeBanExpiry, b)
	opts := []asynq.Option{
		asynq.ProcessAt(at),
		asynq.TaskID(banExpiryTaskID(kind, id, at)),
		asynq.Queue(queue),
		asynq.MaxRetry(banExpiryRetry),
	}
	return task, opts, nil
}

func NewBanSweepTask(queue string) (*asynq.Task, []asynq.Option) {
	if queue == "" {
		queue = defaultQueue
	}
	return asynq.NewTask(TypeBanSweep, nil), []asynq.Option{
		asynq.Queue(queue),
		asynq.MaxRetry(0),
		asynq.Timeout(banSweepTimeout),
	}
}

func parseBanExpiry(task *asynq.Task) (BanExpiryPayload, primitive.ObjectID, error) {
	var p BanExpiryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, primitive.NilObjectID, fmt.Errorf("invalid ban expiry payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := p.ObjectID()
	if err != nil {
		return p, primitive.NilObjectID, fmt.Errorf("invalid subject id %q: %w", p.SubjectID, asynq.SkipRetry)
	}
	if p.Kind != models.SubjectUser && p.Kind != models.SubjectMechanic {
		return p, primitive.NilObjectID, fmt.Errorf("unknown subject kind %q: %w", p.Kind, asynq.SkipRetry)
	}
	return p, id, nil
}
