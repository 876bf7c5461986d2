// Package usecase implements the saga business logic: the persisted state
// machine and the event consumers that drive it.
package usecase

import (
	"context"
	"log/slog"

	"github.com/blocodev/wallethub/internal/database"
	apperrors "github.com/blocodev/wallethub/internal/errors"
	"github.com/blocodev/wallethub/internal/metrics"
	"github.com/blocodev/wallethub/internal/saga/domain"
)

// SagaRepository defines saga instance repository operations
type SagaRepository interface {
	LoadOrCreate(ctx context.Context, correlationID string) (*domain.Instance, error)
	UpdateState(ctx context.Context, correlationID string, state domain.State) error
	GetByCorrelationID(ctx context.Context, correlationID string) (*domain.Instance, error)
}

// Machine applies trigger events to persisted saga instances. One instance
// exists per correlation id; the transition table in the domain package decides
// which events advance it.
type Machine struct {
	txManager       database.TxManager
	sagaRepo        SagaRepository
	businessMetrics metrics.BusinessMetrics
	logger          *slog.Logger
}

// NewMachine creates a new Machine.
func NewMachine(
	txManager database.TxManager,
	sagaRepo SagaRepository,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Machine {
	return &Machine{
		txManager:       txManager,
		sagaRepo:        sagaRepo,
		businessMetrics: businessMetrics,
		logger:          logger,
	}
}

// Accept applies event to the saga addressed by correlationID and returns the
// resulting state. The instance is created at INITIAL on first contact. An
// undefined (state, event) pair leaves the state unchanged and returns it
// without error, so duplicate or out-of-order deliveries are absorbed instead
// of raised. A non-nil error means the submission itself failed and the caller
// should retry; the state value is meaningless in that case.
func (m *Machine) Accept(ctx context.Context, correlationID string, event domain.Event) (domain.State, error) {
	var result domain.State

	err := m.txManager.WithTx(ctx, func(ctx context.Context) error {
		instance, err := m.sagaRepo.LoadOrCreate(ctx, correlationID)
		if err != nil {
			return apperrors.Wrap(err, "failed to load saga instance")
		}

		next, ok := domain.Next(instance.State, event)
		if !ok {
			result = instance.State

			if m.logger != nil {
				m.logger.Debug("ignoring saga event with no defined transition",
					slog.String("correlation_id", correlationID),
					slog.String("state", string(instance.State)),
					slog.String("event", string(event)),
				)
			}
			m.recordTransition(ctx, event, "ignored")

			return nil
		}

		if err := m.sagaRepo.UpdateState(ctx, correlationID, next); err != nil {
			return apperrors.Wrap(err, "failed to persist saga state")
		}

		result = next

		if m.logger != nil {
			m.logger.Info("saga transition applied",
				slog.String("correlation_id", correlationID),
				slog.String("from", string(instance.State)),
				slog.String("to", string(next)),
				slog.String("event", string(event)),
			)
		}
		m.recordTransition(ctx, event, "success")

		return nil
	})
	if err != nil {
		return "", err
	}

	return result, nil
}

// GetSaga retrieves the saga instance for a correlation id.
func (m *Machine) GetSaga(ctx context.Context, correlationID string) (*domain.Instance, error) {
	instance, err := m.sagaRepo.GetByCorrelationID(ctx, correlationID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get saga instance")
	}

	return instance, nil
}

// recordTransition records a saga transition outcome.
func (m *Machine) recordTransition(ctx context.Context, event domain.Event, status string) {
	if m.businessMetrics != nil {
		m.businessMetrics.RecordOperation(ctx, "saga", string(event), status)
	}
}
