package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	// kafkaQueueSize is how many envelopes may wait for the broker before
	// new ones are dropped
	kafkaQueueSize = 256

	// kafkaWriteTimeout bounds one delivery, retries included
	kafkaWriteTimeout = 5 * time.Second
)

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards envelopes to a topic, keyed by user ID so one
// user's events stay ordered within a partition. Publish only enqueues; a
// single background worker talks to the broker, so an unreachable broker
// never holds up the request that emitted the event.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

var _ Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		WriteTimeout:           kafkaWriteTimeout,
		AllowAutoTopicCreation: true,
	}
	logger.Info("kafka publisher configured", "brokers", brokers, "topic", topic)
	return newKafkaPublisher(writer, topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
		queue:  make(chan kafka.Message, kafkaQueueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish encodes env and queues it. Only encoding errors are returned;
// delivery failures and a full queue are logged.
func (p *KafkaPublisher) Publish(_ context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", env.Event, err)
	}
	msg := kafka.Message{
		Key:   []byte(env.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(env.Event)},
			{Key: "event_id", Value: []byte(env.ID)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("kafka publisher for %s is closed", p.topic)
	}

	select {
	case p.queue <- msg:
	default:
		p.logger.Warn("kafka queue full, dropping event", "topic", p.topic, "event", env.Event, "event_id", env.ID)
	}
	return nil
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			p.logger.Warn("kafka write failed", "topic", p.topic, "key", string(msg.Key), "error", err)
		}
	}
}

// Close stops accepting events, drains the queue and closes the writer
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}
