package hierarchy

import (
	"context"
	"log/slog"
	"time"

	"linkhive/internal/domain/services"
)

// maxAggregateTTL caps lists and trees. A load racing a commit can store a
// pre-commit result after the invalidation ran; the cap bounds how long such
// an entry survives.
const maxAggregateTTL = 30 * time.Second

// aggregateTTL is the TTL for keys derived from many rows
func aggregateTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > maxAggregateTTL {
		return maxAggregateTTL
	}
	return ttl
}

// cached returns the entry at key, or calls load and stores its result.
// Cache failures degrade to a plain load.
func cached[T any](ctx context.Context, cache services.Cache, ttl time.Duration, logger *slog.Logger, key string, load func() (T, error)) (T, error) {
	if cache != nil {
		var hit T
		ok, err := cache.Get(ctx, key, &hit)
		if err != nil {
			logger.Warn("cache read failed", "key", key, "error", err)
		} else if ok {
			return hit, nil
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if cache != nil {
		if err := cache.Set(ctx, key, value, ttl); err != nil {
			logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return value, nil
}
