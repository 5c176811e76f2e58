// Package messaging defines broker-neutral publish/subscribe interfaces used
// by the threat stream and its consumers.
package messaging

import (
	"context"
	"time"
)

// Message is a message received from or sent to a broker.
type Message struct {
	Subject string
	Data    []byte

	// Metadata is carried as message headers.
	Metadata map[string]string

	// Timestamp is when the message was received locally.
	Timestamp time.Time
}

// MessageHandler processes a received message.
type MessageHandler func(ctx context.Context, msg *Message) error

// Subscription is an active subscription to a subject.
type Subscription interface {
	Unsubscribe() error
	Subject() string
	IsValid() bool
}

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends data to subject, fire-and-forget.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishMsg sends a Message including its metadata headers.
	PublishMsg(ctx context.Context, msg *Message) error

	// IsConnected reports whether the broker connection is up.
	IsConnected() bool

	Close() error
}

// Subscriber subscribes to subjects. Subjects may use broker wildcards.
type Subscriber interface {
	Subscribe(subject string, handler MessageHandler) (Subscription, error)
	Close() error
}

// Client combines Publisher and Subscriber.
type Client interface {
	Publisher
	Subscriber
}

// HealthStatus is the broker connection state reported by readiness checks.
type HealthStatus struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// CheckHealth reports the connection state of p. A nil publisher counts as
// not configured.
func CheckHealth(p Publisher) HealthStatus {
	if p == nil {
		return HealthStatus{Error: "publisher not configured"}
	}
	if !p.IsConnected() {
		return HealthStatus{Error: "not connected to message broker"}
	}
	return HealthStatus{Connected: true}
}
