package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"linkhive/internal/domain"
)

// observe is deferred by every exported operation. Domain errors pass
// through untouched; anything else is logged with its operation context
// and wrapped, which the transport layer turns into a generic 500.
func observe(logger *slog.Logger, errp *error, op, resourceID, userID string) {
	err := *errp
	if err == nil || domain.IsKnown(err) {
		return
	}
	if errors.Is(err, context.Canceled) {
		logger.Debug("operation canceled", "operation", op, "resource_id", resourceID, "user_id", userID)
		return
	}
	logger.Error("operation failed",
		"operation", op,
		"resource_id", resourceID,
		"user_id", userID,
		"error", err,
	)
	*errp = fmt.Errorf("%s: %w", op, err)
}

func notFound(format string, args ...any) error {
	return &domain.NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &domain.ValidationError{Message: fmt.Sprintf(format, args...)}
}
