// Package broker provides an in-process publish/subscribe fan-out used for
// achievement unlock notifications. The interface leaves room for a real
// queue behind it; the in-memory implementation is enough for a single
// process.
package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrBrokerClosed = errors.New("broker is closed")

// Message is a single published payload.
type Message struct {
	ID          string            `json:"id"`
	Topic       string            `json:"topic"`
	Payload     []byte            `json:"payload"`
	PublishedAt time.Time         `json:"published_at"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// MessageHandler processes a delivered message.
type MessageHandler func(context.Context, *Message) error

// MessageBroker is the publish side plus subscription management.
type MessageBroker interface {
	Publish(ctx context.Context, topic string, payload []byte, attributes map[string]string) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (Subscription, error)
	Close() error
}

// Subscription is a handle on an active topic subscription.
type Subscription interface {
	ID() string
	Topic() string
	Unsubscribe() error
}

// InMemoryBroker fans messages out to subscribers in-process. Handlers run
// on their own goroutines; a failing handler is logged and skipped, it
// never blocks other subscribers.
type InMemoryBroker struct {
	mu        sync.RWMutex
	handlers  map[string]map[string]MessageHandler
	backlog   map[string][]*Message
	queueSize int
	logger    *logrus.Logger
	closed    bool
}

type subscription struct {
	id     string
	topic  string
	broker *InMemoryBroker
}

// NewInMemoryBroker creates a broker retaining at most the queueSize most
// recent messages per topic.
func NewInMemoryBroker(logger *logrus.Logger, queueSize int) *InMemoryBroker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &InMemoryBroker{
		handlers:  make(map[string]map[string]MessageHandler),
		backlog:   make(map[string][]*Message),
		queueSize: queueSize,
		logger:    logger,
	}
}

// Publish delivers the payload to every current subscriber of the topic and
// appends it to the topic backlog. When the backlog is at capacity the
// oldest retained messages are evicted; delivery itself is never refused.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, payload []byte, attributes map[string]string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	if excess := len(b.backlog[topic]) - b.queueSize + 1; excess > 0 {
		b.backlog[topic] = b.backlog[topic][excess:]
	}

	msg := &Message{
		ID:          uuid.New().String(),
		Topic:       topic,
		Payload:     payload,
		PublishedAt: time.Now(),
		Attributes:  attributes,
	}
	b.backlog[topic] = append(b.backlog[topic], msg)

	handlers := make([]MessageHandler, 0, len(b.handlers[topic]))
	for _, h := range b.handlers[topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		go b.deliver(handler, msg)
	}
	return nil
}

// deliver runs a handler on a detached context so a cancelled publisher
// does not abort in-flight notification processing.
func (b *InMemoryBroker) deliver(handler MessageHandler, msg *Message) {
	if err := handler(context.Background(), msg); err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"message_id": msg.ID,
			"topic":      msg.Topic,
		}).Error("message handler failed")
	}
}

// Subscribe registers a handler for the topic.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, handler MessageHandler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}
	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[string]MessageHandler)
	}
	id := uuid.New().String()
	b.handlers[topic][id] = handler
	return &subscription{id: id, topic: topic, broker: b}, nil
}

// Backlog returns the retained messages for a topic.
func (b *InMemoryBroker) Backlog(topic string) []*Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Message, len(b.backlog[topic]))
	copy(out, b.backlog[topic])
	return out
}

// Close shuts the broker down. Further publishes fail with ErrBrokerClosed.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[string]map[string]MessageHandler)
	b.backlog = make(map[string][]*Message)
	return nil
}

func (s *subscription) ID() string    { return s.id }
func (s *subscription) Topic() string { return s.topic }

// Unsubscribe removes the handler; safe to call twice.
func (s *subscription) Unsubscribe() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	if handlers, ok := s.broker.handlers[s.topic]; ok {
		delete(handlers, s.id)
	}
	return nil
}
