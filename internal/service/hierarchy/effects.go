package hierarchy

import (
	"context"
	"log/slog"

	"linkhive/internal/domain/services"
)

// Cache keys. Everything derived from one owner's folders lives under
// "folders:<owner>:" so a single pattern drops lists and the tree together.
func folderKey(id string) string               { return "folder:" + id }
func bookmarkKey(id string) string             { return "bookmark:" + id }
func collectionKey(id string) string           { return "collection:" + id }
func ownerFoldersPattern(userID string) string { return "folders:" + userID + ":*" }
func folderTreeKey(userID string) string       { return "folders:" + userID + ":tree" }
func ownerCollectionsPattern(userID string) string {
	return "collections:" + userID + ":*"
}

type notification struct {
	userID  string
	event   string
	payload any
}

// effects accumulates cache invalidations and notifications while a
// mutation runs. They are applied only once the transaction has committed.
type effects struct {
	keys          []string
	patterns      []string
	notifications []notification
}

func (e *effects) invalidate(keys ...string) {
	e.keys = append(e.keys, keys...)
}

func (e *effects) invalidatePattern(pattern string) {
	e.patterns = append(e.patterns, pattern)
}

// notify queues one event per distinct, non-empty recipient
func (e *effects) notify(event string, payload any, userIDs ...string) {
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		e.notifications = append(e.notifications, notification{userID: id, event: event, payload: payload})
	}
}

// sideEffects applies committed effects. Failures are logged and never
// surface to the caller: the mutation already happened.
type sideEffects struct {
	cache  services.CacheInvalidator
	sink   services.NotificationSink
	logger *slog.Logger
}

func (s *sideEffects) apply(ctx context.Context, e *effects) {
	// The write is durable even if the client went away
	ctx = context.WithoutCancel(ctx)

	if s.cache != nil {
		if len(e.keys) > 0 {
			if err := s.cache.Invalidate(ctx, e.keys...); err != nil {
				s.logger.Warn("cache invalidation failed", "keys", e.keys, "error", err)
			}
		}
		for _, pattern := range e.patterns {
			if err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
				s.logger.Warn("cache pattern invalidation failed", "pattern", pattern, "error", err)
			}
		}
	}

	if s.sink != nil {
		for _, n := range e.notifications {
			if err := s.sink.Emit(ctx, n.userID, n.event, n.payload); err != nil {
				s.logger.Warn("notification failed", "event", n.event, "user_id", n.userID, "error", err)
			}
		}
	}
}
