package services

import (
	"context"
	"time"

	"mecfinder/internal/utils"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor identifies the admin performing a request.
type Actor struct {
	AdminID   primitive.ObjectID
	Role      string
	IPAddress string
	UserAgent string
	RequestID string
}

// Cache is the part of the Redis cache the services use.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// EventPublisher fans admin events out to every API instance.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

type eventBus struct {
	publisher EventPublisher
	logger    *logger.Logger
}

func newEventBus(publisher EventPublisher, log *logger.Logger) *eventBus {
	return &eventBus{publisher: publisher, logger: log}
}

// emit publishes best effort. A lost event only delays a dashboard refresh.
func (b *eventBus) emit(ctx context.Context, actor Actor, topic, eventType, resourceID string, data map[string]interface{}) {
	if b == nil || b.publisher == nil {
		return
	}

	event := websocket.NewEvent(topic, eventType, resourceID, data)
	if !actor.AdminID.IsZero() {
		event.AdminID = actor.AdminID.Hex()
	}

	if err := b.publisher.Publish(ctx, utils.ChannelAdminEvents, event); err != nil {
		b.logger.WithError(err).WithField("event", eventType).Warn("Failed to publish admin event")
	}
}

func objectIDPtr(hex string) *primitive.ObjectID {
	if hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func parseObjectID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fieldError(field, "must be a valid ID")
	}
	return id, nil
}
