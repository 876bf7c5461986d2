// Package bus provides the message bus abstraction used by the outbox relay
// and the saga event listener.
package bus

import "context"

// MessageBus sends opaque payloads to a named destination. The outbox relay is
// the only producer; the saga listener consumes the wallet event destinations.
type MessageBus interface {
	Send(ctx context.Context, destination string, payload []byte) error
}

// InboundMessage is a message delivered to a subscriber.
type InboundMessage struct {
	// ID is the bus-assigned message identifier, used for acknowledgement.
	ID string
	// Destination is the stream the message was read from.
	Destination string
	// Payload is the serialized event body.
	Payload []byte
}

// Handler processes one inbound message. Returning an error leaves the message
// unacknowledged so the bus redelivers it (at-least-once).
type Handler func(ctx context.Context, msg InboundMessage) error

// Subscriber consumes messages from a set of destinations and dispatches them
// to a handler until the context is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, destinations []string, handler Handler) error
}
