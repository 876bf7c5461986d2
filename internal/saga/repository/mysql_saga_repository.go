// Package repository provides data persistence implementations for saga instances.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blocodev/wallethub/internal/database"
	apperrors "github.com/blocodev/wallethub/internal/errors"
	"github.com/blocodev/wallethub/internal/saga/domain"
)

// MySQLSagaRepository handles saga instance persistence for MySQL
type MySQLSagaRepository struct {
	db *sql.DB
}

// NewMySQLSagaRepository creates a new MySQLSagaRepository
func NewMySQLSagaRepository(db *sql.DB) *MySQLSagaRepository {
	return &MySQLSagaRepository{
		db: db,
	}
}

// LoadOrCreate fetches the saga for the correlation id, creating it in the
// initial state when absent. The returned row is locked for the duration of
// the enclosing transaction so concurrent events on the same correlation id
// serialize.
func (r *MySQLSagaRepository) LoadOrCreate(ctx context.Context, correlationID string) (*domain.Instance, error) {
	querier := database.GetTx(ctx, r.db)

	insertQuery := `INSERT IGNORE INTO sagas (correlation_id, state, created_at, updated_at)
					VALUES (?, ?, NOW(), NOW())`

	if _, err := querier.ExecContext(ctx, insertQuery, correlationID, domain.StateInitial); err != nil {
		return nil, err
	}

	selectQuery := `SELECT correlation_id, state, created_at, updated_at
					FROM sagas
					WHERE correlation_id = ?
					FOR UPDATE`

	var instance domain.Instance
	err := querier.QueryRowContext(ctx, selectQuery, correlationID).Scan(
		&instance.CorrelationID, &instance.State, &instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &instance, nil
}

// UpdateState persists a new state for the saga
func (r *MySQLSagaRepository) UpdateState(ctx context.Context, correlationID string, state domain.State) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE sagas SET state = ?, updated_at = NOW() WHERE correlation_id = ?`

	_, err := querier.ExecContext(ctx, query, state, correlationID)

	return err
}

// GetByCorrelationID retrieves a saga instance by correlation id
func (r *MySQLSagaRepository) GetByCorrelationID(
	ctx context.Context,
	correlationID string,
) (*domain.Instance, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT correlation_id, state, created_at, updated_at
			  FROM sagas
			  WHERE correlation_id = ?`

	var instance domain.Instance
	err := querier.QueryRowContext(ctx, query, correlationID).Scan(
		&instance.CorrelationID, &instance.State, &instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return &instance, nil
}
