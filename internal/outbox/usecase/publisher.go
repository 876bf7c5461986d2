// Package usecase implements the outbox business logic: transactional event
// publishing and the relay that forwards staged events to the message bus.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	apperrors "github.com/blocodev/wallethub/internal/errors"
	"github.com/blocodev/wallethub/internal/outbox/domain"
)

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// DomainEventPublisher stages domain events for asynchronous delivery. Use
// cases call Publish inside their own transaction so the domain mutation and
// the outbox record commit or roll back together.
type DomainEventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}

// OutboxPublisher implements DomainEventPublisher backed by the outbox table.
type OutboxPublisher struct {
	outboxRepo OutboxEventRepository
}

// NewOutboxPublisher creates a new OutboxPublisher.
func NewOutboxPublisher(outboxRepo OutboxEventRepository) *OutboxPublisher {
	return &OutboxPublisher{outboxRepo: outboxRepo}
}

// Publish serializes the event and persists it as a pending outbox record.
// A serialization failure is returned as a hard error so the enclosing
// transaction aborts without a partial write. There is deliberately no
// synchronous call to the message bus here; delivery is deferred to the relay
// to decouple domain-transaction latency from bus availability.
func (p *OutboxPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize event")
	}

	var correlationID *string
	if corr := event.Correlation(); corr != "" {
		correlationID = &corr
	}

	outboxEvent := &domain.OutboxEvent{
		ID:            uuid.Must(uuid.NewV7()),
		EventType:     event.Kind(),
		Payload:       string(payload),
		CorrelationID: correlationID,
		Status:        domain.OutboxEventStatusPending,
		Attempts:      0,
	}

	if err := p.outboxRepo.Create(ctx, outboxEvent); err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}

	return nil
}
