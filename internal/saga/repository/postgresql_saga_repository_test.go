package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/blocodev/wallethub/internal/errors"
	"github.com/blocodev/wallethub/internal/saga/domain"
)

func sagaRows(correlationID string, state domain.State) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"correlation_id", "state", "created_at", "updated_at"}).
		AddRow(correlationID, string(state), now, now)
}

func TestPostgreSQLSagaRepository_LoadOrCreate(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLSagaRepository(db)
	ctx := context.Background()

	dbMock.ExpectExec("INSERT INTO sagas").
		WithArgs("corr-1", "INITIAL").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectQuery("SELECT correlation_id, state, created_at, updated_at FROM sagas WHERE correlation_id = (.+) FOR UPDATE").
		WithArgs("corr-1").
		WillReturnRows(sagaRows("corr-1", domain.StateInitial))

	instance, err := repo.LoadOrCreate(ctx, "corr-1")
	assert.NoError(t, err)
	assert.Equal(t, "corr-1", instance.CorrelationID)
	assert.Equal(t, domain.StateInitial, instance.State)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLSagaRepository_LoadOrCreate_ExistingInstance(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLSagaRepository(db)
	ctx := context.Background()

	// The insert conflicts and affects no rows; the select returns the
	// existing instance.
	dbMock.ExpectExec("INSERT INTO sagas").
		WithArgs("corr-1", "INITIAL").
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectQuery("SELECT correlation_id, state, created_at, updated_at FROM sagas").
		WithArgs("corr-1").
		WillReturnRows(sagaRows("corr-1", domain.StateFundsAdded))

	instance, err := repo.LoadOrCreate(ctx, "corr-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StateFundsAdded, instance.State)
}

func TestPostgreSQLSagaRepository_LoadOrCreate_InsertError(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLSagaRepository(db)
	ctx := context.Background()

	dbMock.ExpectExec("INSERT INTO sagas").
		WithArgs("corr-1", "INITIAL").
		WillReturnError(errors.New("database error"))

	instance, err := repo.LoadOrCreate(ctx, "corr-1")
	assert.Error(t, err)
	assert.Nil(t, instance)
}

func TestPostgreSQLSagaRepository_UpdateState(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLSagaRepository(db)
	ctx := context.Background()

	dbMock.ExpectExec("UPDATE sagas SET state").
		WithArgs("WALLET_CREATED", "corr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateState(ctx, "corr-1", domain.StateWalletCreated)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLSagaRepository_GetByCorrelationID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLSagaRepository(db)
	ctx := context.Background()

	dbMock.ExpectQuery("SELECT correlation_id, state, created_at, updated_at FROM sagas").
		WithArgs("corr-1").
		WillReturnRows(sagaRows("corr-1", domain.StateCompleted))

	instance, err := repo.GetByCorrelationID(ctx, "corr-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, instance.State)
}

func TestPostgreSQLSagaRepository_GetByCorrelationID_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLSagaRepository(db)
	ctx := context.Background()

	dbMock.ExpectQuery("SELECT correlation_id, state, created_at, updated_at FROM sagas").
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	instance, err := repo.GetByCorrelationID(ctx, "unknown")
	assert.Nil(t, instance)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
