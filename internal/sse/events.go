// Package sse implements Server-Sent Events dispatch for catalog subscriptions.
package sse

import (
	"time"

	"github.com/openshelf/openshelf-server/internal/broker"
)

// EventType represents the type of SSE event as seen on the wire.
type EventType string

const (
	// EventBookAdded announces a newly created book.
	EventBookAdded EventType = "book.added"
	// EventAuthorAdded announces a newly created author.
	EventAuthorAdded EventType = "author.added"
	// EventConnected is the hello frame sent when a stream opens.
	EventConnected EventType = "connected"
	// EventHeartbeat is a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// eventTypeForTopic maps broker topics to their wire event names.
// Unknown topics fall back to the raw topic string.
func eventTypeForTopic(topic broker.Topic) EventType {
	switch topic {
	case broker.TopicBookAdded:
		return EventBookAdded
	case broker.TopicAuthorAdded:
		return EventAuthorAdded
	default:
		return EventType(topic)
	}
}

// Frame is the JSON body of an SSE data line.
type Frame struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Type      EventType `json:"type"`
}

// NewFrame builds a frame for a broker event.
func NewFrame(event broker.Event) Frame {
	return Frame{
		Type:      eventTypeForTopic(event.Topic),
		Data:      event.Payload,
		Timestamp: event.Timestamp,
	}
}

// NewHeartbeatFrame builds a keepalive frame.
func NewHeartbeatFrame() Frame {
	return Frame{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
	}
}

// ConnectedData is the payload of the hello frame.
type ConnectedData struct {
	SubscriptionID string `json:"subscription_id"`
	Topic          string `json:"topic"`
}

// NewConnectedFrame builds the hello frame for a new subscription.
func NewConnectedFrame(sub *broker.Subscription) Frame {
	return Frame{
		Type: EventConnected,
		Data: ConnectedData{
			SubscriptionID: sub.ID,
			Topic:          string(sub.Topic),
		},
		Timestamp: time.Now(),
	}
}
