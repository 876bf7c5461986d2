package usecase

import (
	"context"
	"log/slog"

	"github.com/blocodev/wallethub/internal/bus"
	apperrors "github.com/blocodev/wallethub/internal/errors"
	outboxdomain "github.com/blocodev/wallethub/internal/outbox/domain"
)

// Listener subscribes to the wallet event destinations and dispatches each
// inbound message to the consumer registered for its event type.
type Listener struct {
	subscriber bus.Subscriber
	consumers  map[string]*Consumer
	logger     *slog.Logger
}

// NewListener creates a Listener dispatching to the given consumers.
func NewListener(subscriber bus.Subscriber, logger *slog.Logger, consumers ...*Consumer) *Listener {
	byDestination := make(map[string]*Consumer, len(consumers))
	for _, consumer := range consumers {
		byDestination[outboxdomain.DestinationFor(consumer.EventType())] = consumer
	}

	return &Listener{
		subscriber: subscriber,
		consumers:  byDestination,
		logger:     logger,
	}
}

// Start consumes messages until the context is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	destinations := make([]string, 0, len(l.consumers))
	for destination := range l.consumers {
		destinations = append(destinations, destination)
	}

	if l.logger != nil {
		l.logger.Info("starting saga event listener", slog.Any("destinations", destinations))
	}

	return l.subscriber.Subscribe(ctx, destinations, l.handle)
}

// handle routes one inbound message to its consumer.
func (l *Listener) handle(ctx context.Context, msg bus.InboundMessage) error {
	consumer, ok := l.consumers[msg.Destination]
	if !ok {
		return apperrors.New("no consumer registered for destination " + msg.Destination)
	}

	return consumer.Handle(ctx, msg.Payload)
}
