package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/blocodev/wallethub/internal/bus"
	"github.com/blocodev/wallethub/internal/database"
	"github.com/blocodev/wallethub/internal/metrics"
	"github.com/blocodev/wallethub/internal/outbox/domain"
)

// Config holds outbox relay configuration
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// Relay periodically forwards pending outbox events to the message bus.
// Ticks are single-flight: the next poll starts only after the previous one
// finished. Records are handled independently; no ordering guarantee is made
// across records, since consumers key causal reasoning off the correlation id.
type Relay struct {
	config          Config
	txManager       database.TxManager
	outboxRepo      OutboxEventRepository
	messageBus      bus.MessageBus
	businessMetrics metrics.BusinessMetrics
	logger          *slog.Logger
}

// NewRelay creates a new Relay.
func NewRelay(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	messageBus bus.MessageBus,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Relay {
	return &Relay{
		config:          config,
		txManager:       txManager,
		outboxRepo:      outboxRepo,
		messageBus:      messageBus,
		businessMetrics: businessMetrics,
		logger:          logger,
	}
}

// Start runs the relay loop until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	if r.logger != nil {
		r.logger.Info("starting outbox relay",
			slog.Duration("interval", r.config.Interval),
			slog.Int("batch_size", r.config.BatchSize),
			slog.Int("max_attempts", r.config.MaxAttempts),
		)
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.logger != nil {
				r.logger.Info("stopping outbox relay")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := r.Tick(ctx); err != nil {
				if r.logger != nil {
					r.logger.Error("failed to process outbox", slog.Any("error", err))
				}
			}
		}
	}
}

// Tick fetches a batch of pending events and attempts delivery for each. An
// event is marked sent only after the bus confirms delivery; a failed send
// leaves it pending so the next tick retries it, until MaxAttempts parks it
// as failed. The batch runs in one transaction so the row locks taken by
// GetPendingEvents exclude concurrent relays from double-sending.
func (r *Relay) Tick(ctx context.Context) error {
	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := r.outboxRepo.GetPendingEvents(ctx, r.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if r.logger != nil {
			r.logger.Info("relaying outbox events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			destination := domain.DestinationFor(event.EventType)

			if err := r.messageBus.Send(ctx, destination, []byte(event.Payload)); err != nil {
				if r.logger != nil {
					r.logger.Error("failed to deliver outbox event",
						slog.String("event_id", event.ID.String()),
						slog.String("event_type", event.EventType),
						slog.String("destination", destination),
						slog.Any("error", err),
					)
				}

				event.Attempts++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Attempts >= r.config.MaxAttempts {
					event.Status = domain.OutboxEventStatusFailed
					if r.logger != nil {
						r.logger.Error("parking outbox event after max attempts",
							slog.String("event_id", event.ID.String()),
							slog.Int("attempts", event.Attempts),
						)
					}
				}

				if err := r.outboxRepo.Update(ctx, event); err != nil {
					return err
				}

				r.recordDelivery(ctx, event.EventType, "error")
				continue
			}

			now := time.Now()
			event.Attempts++
			event.Status = domain.OutboxEventStatusSent
			event.SentAt = &now

			if err := r.outboxRepo.Update(ctx, event); err != nil {
				return err
			}

			r.recordDelivery(ctx, event.EventType, "success")
		}

		return nil
	})
}

// recordDelivery records a delivery attempt outcome.
func (r *Relay) recordDelivery(ctx context.Context, eventType, status string) {
	if r.businessMetrics != nil {
		r.businessMetrics.RecordOperation(ctx, "outbox", eventType, status)
	}
}
