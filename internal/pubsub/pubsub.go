package pubsub

import (
	"context"
)

// Message is the envelope passed between components on the in-process bus.
// It deliberately carries raw bytes so the bus stays agnostic of payload
// shape.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "status.connected").
	Topic string
	// SessionID identifies the editing session the message originated from.
	SessionID string
	// Payload contains the raw message data (usually JSON).
	Payload []byte
	// Metadata can carry arbitrary key-value pairs for context (e.g., timestamps).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages
	// with the handler. Delivery stops when the context is canceled.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
