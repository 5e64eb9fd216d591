// Package broker implements the in-process pub/sub fan-out for catalog events.
package broker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/openshelf/openshelf-server/internal/id"
)

// Topic identifies an event stream.
type Topic string

const (
	// TopicBookAdded carries events for newly created books.
	TopicBookAdded Topic = "BOOK_ADDED"
	// TopicAuthorAdded carries events for newly created authors.
	TopicAuthorAdded Topic = "AUTHOR_ADDED"
)

// Event is a single published message on a topic.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
	Topic     Topic     `json:"topic"`
}

// Subscription represents one subscriber's registration on a topic.
// The caller must call Broker.Unsubscribe when done to prevent leaks.
type Subscription struct {
	ID        string
	Topic     Topic
	Events    chan Event
	Done      chan struct{}
	CreatedAt time.Time
}

// Broker fans published events out to topic subscribers. Brokers are
// injected into whatever needs one; there is no package-level instance,
// so independent servers never share subscriber state.
type Broker struct {
	subscribers map[Topic][]*Subscription
	logger      *slog.Logger
	mu          sync.RWMutex

	closedMu sync.RWMutex
	closed   bool
}

// New creates a new Broker.
func New(logger *slog.Logger) *Broker {
	return &Broker{
		subscribers: make(map[Topic][]*Subscription),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber on the given topic.
// A subscriber only ever receives events published after it subscribed.
// Each subscription buffers up to 100 undelivered events; a consumer that
// falls further behind loses events rather than blocking publishers.
func (b *Broker) Subscribe(topic Topic) (*Subscription, error) {
	subID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		ID:        subID,
		Topic:     topic,
		Events:    make(chan Event, 100), // Buffer 100 events per subscriber
		Done:      make(chan struct{}),
		CreatedAt: time.Now(),
	}

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	total := len(b.subscribers[topic])
	b.mu.Unlock()

	b.logger.Debug("subscriber registered",
		slog.String("subscription_id", subID),
		slog.String("topic", string(topic)),
		slog.Int("topic_subscribers", total))

	return sub, nil
}

// Unsubscribe removes a subscription and closes its channels.
// Unsubscribing twice is a no-op.
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	subs := b.subscribers[sub.Topic]
	found := false
	for i, s := range subs {
		if s.ID == sub.ID {
			b.subscribers[sub.Topic] = append(subs[:i], subs[i+1:]...)
			found = true
			break
		}
	}
	b.mu.Unlock()

	if !found {
		return
	}

	close(sub.Done)
	close(sub.Events)

	b.logger.Debug("subscriber removed",
		slog.String("subscription_id", sub.ID),
		slog.String("topic", string(sub.Topic)),
		slog.Duration("duration", time.Since(sub.CreatedAt)))
}

// Publish delivers the payload to every current subscriber of the topic.
// Publishes are serialized so each subscriber sees events in publish order.
// Slow subscribers with a full buffer have the event dropped rather than
// blocking the publisher.
func (b *Broker) Publish(topic Topic, payload any) {
	b.closedMu.RLock()
	defer b.closedMu.RUnlock()

	if b.closed {
		// Expected during shutdown.
		return
	}

	event := Event{
		Topic:     topic,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	var delivered, dropped int

	// Write lock rather than read lock: concurrent publishes must not
	// interleave mid-fan-out or per-subscriber ordering breaks.
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subscribers[topic] {
		select {
		case sub.Events <- event:
			delivered++
		default:
			dropped++
			b.logger.Warn("dropped event for slow subscriber",
				slog.String("subscription_id", sub.ID),
				slog.String("topic", string(topic)))
		}
	}

	b.logger.Debug("event published",
		slog.String("topic", string(topic)),
		slog.Int("delivered", delivered),
		slog.Int("dropped", dropped))
}

// Shutdown stops accepting publishes and closes all subscriptions.
func (b *Broker) Shutdown() {
	b.closedMu.Lock()
	b.closed = true
	b.closedMu.Unlock()

	b.mu.Lock()
	remaining := b.subscribers
	b.subscribers = make(map[Topic][]*Subscription)
	b.mu.Unlock()

	for _, subs := range remaining {
		for _, sub := range subs {
			close(sub.Done)
			close(sub.Events)
		}
	}

	b.logger.Info("broker shutdown complete")
}

// SubscriberCount returns the number of active subscribers on a topic.
func (b *Broker) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}
