package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/blocodev/wallethub/internal/errors"
	"github.com/blocodev/wallethub/internal/saga/domain"
)

// decodeFunc extracts the correlation id and the subject wallet id from a raw
// event payload.
type decodeFunc func(payload []byte) (correlationID, subjectID string, err error)

// Consumer handles one domain event type from the message bus and drives the
// saga machine with the corresponding trigger event. A payload without a
// correlation id cannot key saga state, so the consumer abandons the workflow
// by submitting SAGA_FAILED against a subject-derived key instead.
type Consumer struct {
	machine   *Machine
	trigger   domain.Event
	eventType string
	decode    decodeFunc
	completes bool
	logger    *slog.Logger
}

// walletCreatedPayload mirrors the wallet.created event body.
type walletCreatedPayload struct {
	WalletID      string `json:"wallet_id"`
	UserID        string `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// fundsMovedPayload mirrors the funds.added and funds.withdrawn event bodies.
type fundsMovedPayload struct {
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// fundsTransferredPayload mirrors the funds.transferred event body.
type fundsTransferredPayload struct {
	FromWalletID  string `json:"from_wallet_id"`
	ToWalletID    string `json:"to_wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// NewWalletCreatedConsumer creates the consumer for wallet.created events.
func NewWalletCreatedConsumer(machine *Machine, logger *slog.Logger) *Consumer {
	return &Consumer{
		machine:   machine,
		trigger:   domain.EventWalletCreated,
		eventType: "wallet.created",
		decode: func(payload []byte) (string, string, error) {
			var body walletCreatedPayload
			if err := json.Unmarshal(payload, &body); err != nil {
				return "", "", err
			}
			return body.CorrelationID, body.WalletID, nil
		},
		logger: logger,
	}
}

// NewFundsAddedConsumer creates the consumer for funds.added events.
func NewFundsAddedConsumer(machine *Machine, logger *slog.Logger) *Consumer {
	return &Consumer{
		machine:   machine,
		trigger:   domain.EventFundsAdded,
		eventType: "funds.added",
		decode:    decodeFundsMoved,
		logger:    logger,
	}
}

// NewFundsWithdrawnConsumer creates the consumer for funds.withdrawn events.
func NewFundsWithdrawnConsumer(machine *Machine, logger *slog.Logger) *Consumer {
	return &Consumer{
		machine:   machine,
		trigger:   domain.EventFundsWithdrawn,
		eventType: "funds.withdrawn",
		decode:    decodeFundsMoved,
		logger:    logger,
	}
}

// NewFundsTransferredConsumer creates the consumer for funds.transferred
// events. A successful FUNDS_TRANSFERRED transition is the last workflow step,
// so this consumer also submits SAGA_COMPLETED to finish the saga.
func NewFundsTransferredConsumer(machine *Machine, logger *slog.Logger) *Consumer {
	return &Consumer{
		machine:   machine,
		trigger:   domain.EventFundsTransferred,
		eventType: "funds.transferred",
		decode: func(payload []byte) (string, string, error) {
			var body fundsTransferredPayload
			if err := json.Unmarshal(payload, &body); err != nil {
				return "", "", err
			}
			return body.CorrelationID, body.FromWalletID, nil
		},
		completes: true,
		logger:    logger,
	}
}

func decodeFundsMoved(payload []byte) (string, string, error) {
	var body fundsMovedPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", "", err
	}
	return body.CorrelationID, body.WalletID, nil
}

// EventType returns the domain event type this consumer handles.
func (c *Consumer) EventType() string {
	return c.eventType
}

// Handle processes one inbound event payload. Infrastructure failures are
// returned so the messaging runtime redelivers; a missing correlation id is a
// domain condition handled here by failing the saga.
func (c *Consumer) Handle(ctx context.Context, payload []byte) error {
	correlationID, subjectID, err := c.decode(payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to decode event payload")
	}

	if correlationID == "" {
		if c.logger != nil {
			c.logger.Warn("event without correlation id, failing saga",
				slog.String("event_type", c.eventType),
				slog.String("wallet_id", subjectID),
			)
		}

		_, err := c.machine.Accept(ctx, domain.FailoverKey(subjectID), domain.EventSagaFailed)
		return err
	}

	state, err := c.machine.Accept(ctx, correlationID, c.trigger)
	if err != nil {
		return err
	}

	if c.logger != nil {
		c.logger.Info("saga event consumed",
			slog.String("event_type", c.eventType),
			slog.String("correlation_id", correlationID),
			slog.String("state", string(state)),
		)
	}

	if c.completes && state == domain.StateFundsTransferred {
		if _, err := c.machine.Accept(ctx, correlationID, domain.EventSagaCompleted); err != nil {
			return err
		}
	}

	return nil
}
