package handler

import (
	"log/slog"
	"net/http"

	"linkhive/internal/handler/sse"
	"linkhive/internal/httputil"
	"linkhive/internal/notify"
)

// Subscriber hands out per-user event channels
type Subscriber interface {
	Subscribe(userID string) (clientID string, events <-chan notify.Envelope, cancel func())
}

// EventsHandler streams the caller's notifications over SSE
type EventsHandler struct {
	hub    Subscriber
	config *sse.Config
	logger *slog.Logger
}

func NewEventsHandler(hub Subscriber, config *sse.Config, logger *slog.Logger) *EventsHandler {
	if config == nil {
		config = sse.DefaultConfig()
	}
	return &EventsHandler{hub: hub, config: config, logger: logger}
}

// Stream
// GET /api/events
// Events published while the client is disconnected are not replayed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	clientID, events, cancel := h.hub.Subscribe(userID)
	defer cancel()

	logger := h.logger.With("user_id", userID, "client_id", clientID)
	logger.Info("event stream opened")
	defer logger.Info("event stream closed")

	if err := writer.WriteRetry(h.config.RetryMillis); err != nil {
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.config.KeepAliveInterval)
	keepAliveStopped := keepAlive.Start(writer, logger)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAliveStopped:
			return
		case env, open := <-events:
			if !open {
				return
			}
			if err := writer.WriteEvent(env.ID, env.Event, env); err != nil {
				logger.Debug("event write failed", "event", env.Event, "error", err)
				return
			}
		}
	}
}
