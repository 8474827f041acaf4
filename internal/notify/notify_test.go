package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capturePublisher struct {
	got []Envelope
	err error
}

func (c *capturePublisher) Publish(_ context.Context, env Envelope) error {
	c.got = append(c.got, env)
	return c.err
}

func TestDispatcher_SameEnvelopeToEveryPublisher(t *testing.T) {
	a, b := &capturePublisher{}, &capturePublisher{}
	d := NewDispatcher(discard(), a, b)

	require.NoError(t, d.Emit(context.Background(), "alice", "folder:created", map[string]string{"id": "f1"}))

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, a.got[0].ID, b.got[0].ID)
	assert.Equal(t, "alice", a.got[0].UserID)
	assert.Equal(t, "folder:created", a.got[0].Event)
	assert.NotEmpty(t, a.got[0].ID)
}

func TestDispatcher_JoinsFailures(t *testing.T) {
	boom := errors.New("broker unavailable")
	failing := &capturePublisher{err: boom}
	ok := &capturePublisher{}
	d := NewDispatcher(discard(), failing, ok)

	err := d.Emit(context.Background(), "alice", "folder:deleted", nil)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.got, 1, "later publishers still run")
}

func TestHub_DeliversOnlyToAddressee(t *testing.T) {
	h := NewHub(discard())
	ctx := context.Background()

	_, aliceEvents, cancelAlice := h.Subscribe("alice")
	defer cancelAlice()
	_, bobEvents, cancelBob := h.Subscribe("bob")
	defer cancelBob()

	require.NoError(t, h.Publish(ctx, Envelope{ID: "1", UserID: "alice", Event: "folder:created"}))

	select {
	case env := <-aliceEvents:
		assert.Equal(t, "1", env.ID)
	default:
		t.Fatal("alice did not receive the event")
	}
	assert.Empty(t, bobEvents)
}

func TestHub_MultipleConnectionsAndCancel(t *testing.T) {
	h := NewHub(discard())

	_, first, cancelFirst := h.Subscribe("alice")
	_, second, cancelSecond := h.Subscribe("alice")
	assert.Equal(t, 2, h.Connections("alice"))

	require.NoError(t, h.Publish(context.Background(), Envelope{ID: "x", UserID: "alice"}))
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)

	cancelFirst()
	cancelFirst()
	assert.Equal(t, 1, h.Connections("alice"))

	<-first
	_, open := <-first
	assert.False(t, open, "channel is closed on cancel")

	cancelSecond()
	assert.Equal(t, 0, h.Connections("alice"))
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub(discard())
	_, events, cancel := h.Subscribe("alice")
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, h.Publish(context.Background(), Envelope{UserID: "alice"}))
	}
	assert.Len(t, events, subscriberBuffer)
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "linkhive.events", discard())

	env := Envelope{ID: "e1", Event: "collaborator:added", UserID: "bob", Payload: map[string]string{"resource_id": "f1"}}
	require.NoError(t, p.Publish(context.Background(), env))
	require.NoError(t, p.Close(), "close drains the queue")

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "bob", string(msg.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "e1", decoded["id"])
	assert.Equal(t, "collaborator:added", decoded["event"])
	assert.Equal(t, "f1", decoded["payload"].(map[string]any)["resource_id"])

	assert.Error(t, p.Publish(context.Background(), env), "publishing after close fails")
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_WriteFailureIsLoggedOnly(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newKafkaPublisher(w, "linkhive.events", discard())

	assert.NoError(t, p.Publish(context.Background(), Envelope{ID: "e1", UserID: "bob"}))
	require.NoError(t, p.Close())
	assert.Len(t, w.msgs, 1, "the write was attempted")
}

// blockingWriter never completes a write until released
type blockingWriter struct {
	release chan struct{}
	calls   atomic.Int32
}

func (w *blockingWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	w.calls.Add(1)
	select {
	case <-w.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *blockingWriter) Close() error { return nil }

func TestKafkaPublisher_UnreachableBrokerDoesNotBlockEmit(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	p := newKafkaPublisher(w, "linkhive.events", discard())
	d := NewDispatcher(discard(), p)

	start := time.Now()
	for i := 0; i < kafkaQueueSize+50; i++ {
		require.NoError(t, d.Emit(context.Background(), "alice", "folder:deleted", nil))
	}
	assert.Less(t, time.Since(start), time.Second, "emit only enqueues")

	close(w.release)
	require.NoError(t, p.Close())
	assert.LessOrEqual(t, int(w.calls.Load()), kafkaQueueSize+1, "overflow is dropped, not queued")
}
