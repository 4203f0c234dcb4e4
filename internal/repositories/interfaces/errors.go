package interfaces

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrStateChanged means the record exists but no longer matches the
	// precondition of a conditional update.
	ErrStateChanged = errors.New("record state changed")
)

// CacheService is the subset of the Redis cache the repositories use.
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}
