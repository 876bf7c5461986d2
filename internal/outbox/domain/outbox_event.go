// Package domain defines the core outbox domain entities and types.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	// OutboxEventStatusPending marks an event awaiting delivery to the message bus.
	OutboxEventStatusPending OutboxEventStatus = "pending"
	// OutboxEventStatusSent marks an event confirmed delivered to the message bus.
	OutboxEventStatusSent OutboxEventStatus = "sent"
	// OutboxEventStatusFailed marks an event parked after exhausting delivery attempts.
	OutboxEventStatusFailed OutboxEventStatus = "failed"
)

// OutboxEvent represents an event in the transactional outbox pattern.
// It is created in the same transaction as the domain mutation that produced
// it and is immutable except for the delivery bookkeeping fields.
type OutboxEvent struct {
	ID            uuid.UUID
	EventType     string
	Payload       string
	CorrelationID *string
	Status        OutboxEventStatus
	Attempts      int
	LastError     *string
	SentAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DomainEvent is the contract a domain event must satisfy to be published
// through the outbox. Kind is the event-type tag persisted with the record
// and Correlation is the saga correlation id, empty when the event is not
// part of a workflow.
type DomainEvent interface {
	Kind() string
	Correlation() string
}

// DestinationFor derives the message bus destination from an event-type tag.
// The mapping is 1:1, e.g. "wallet.created" becomes "wallet-created-topic".
func DestinationFor(eventType string) string {
	return strings.ReplaceAll(eventType, ".", "-") + "-topic"
}
