package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"linkhive/internal/domain/services"
)

// Envelope is one notification addressed to one user. The same envelope,
// with the same ID, goes to every publisher so consumers can deduplicate.
type Envelope struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	UserID     string    `json:"user_id"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers envelopes to one transport
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Dispatcher implements services.NotificationSink by stamping an envelope
// and handing it to every publisher
type Dispatcher struct {
	publishers []Publisher
	logger     *slog.Logger
	now        func() time.Time
}

var _ services.NotificationSink = (*Dispatcher)(nil)

func NewDispatcher(logger *slog.Logger, publishers ...Publisher) *Dispatcher {
	return &Dispatcher{
		publishers: publishers,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Emit publishes to all transports. One failing transport does not stop
// the others; their errors are joined.
func (d *Dispatcher) Emit(ctx context.Context, userID, event string, payload any) error {
	env := Envelope{
		ID:         uuid.NewString(),
		Event:      event,
		UserID:     userID,
		Payload:    payload,
		OccurredAt: d.now(),
	}

	var errs []error
	for _, p := range d.publishers {
		if err := p.Publish(ctx, env); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", p, err))
		}
	}

	d.logger.Debug("notification dispatched", "event", event, "user_id", userID, "id", env.ID, "failed", len(errs))
	return errors.Join(errs...)
}
