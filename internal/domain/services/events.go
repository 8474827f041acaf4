package services

import (
	"context"
	"time"
)

// CacheInvalidator drops cached entries after a committed mutation
type CacheInvalidator interface {
	// Invalidate removes exact keys
	Invalidate(ctx context.Context, keys ...string) error

	// InvalidatePattern removes every key matching a glob such as "folders:u1:*"
	InvalidatePattern(ctx context.Context, pattern string) error
}

// Cache is a read-through JSON cache that can also be invalidated
type Cache interface {
	CacheInvalidator

	// Get decodes the entry at key into dst. Returns false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key for ttl (0 = no expiry)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// NotificationSink delivers an event to one user
type NotificationSink interface {
	Emit(ctx context.Context, userID, event string, payload any) error
}
