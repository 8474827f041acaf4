package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is how many envelopes a slow client may lag behind
// before new ones are dropped for it
const subscriberBuffer = 32

// Hub keeps the live event-stream connections of each user and pushes
// envelopes to them. Delivery never blocks the publishing request.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]chan Envelope // userID -> clientID -> channel
	logger  *slog.Logger
}

var _ Publisher = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[string]chan Envelope),
		logger:  logger,
	}
}

// Subscribe registers a client for userID. The returned cancel func must be
// called when the connection ends; it closes the channel.
func (h *Hub) Subscribe(userID string) (clientID string, events <-chan Envelope, cancel func()) {
	clientID = uuid.NewString()
	ch := make(chan Envelope, subscriberBuffer)

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[string]chan Envelope)
	}
	h.clients[userID][clientID] = ch
	h.mu.Unlock()

	h.logger.Debug("event stream subscribed", "user_id", userID, "client_id", clientID)

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients[userID], clientID)
			if len(h.clients[userID]) == 0 {
				delete(h.clients, userID)
			}
			close(ch)
			h.mu.Unlock()
			h.logger.Debug("event stream unsubscribed", "user_id", userID, "client_id", clientID)
		})
	}
	return clientID, ch, cancel
}

// Publish pushes env to every open connection of env.UserID
func (h *Hub) Publish(_ context.Context, env Envelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for clientID, ch := range h.clients[env.UserID] {
		select {
		case ch <- env:
		default:
			h.logger.Warn("event stream client lagging, dropping event",
				"user_id", env.UserID,
				"client_id", clientID,
				"event", env.Event,
			)
		}
	}
	return nil
}

// Connections returns the number of open connections for a user
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
