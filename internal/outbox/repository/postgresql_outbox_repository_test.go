package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocodev/wallethub/internal/outbox/domain"
)

func TestPostgreSQLOutboxEventRepository_Create(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event := &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: "wallet.created",
		Payload:   `{"wallet_id":"wallet-1"}`,
		Status:    domain.OutboxEventStatusPending,
	}

	dbMock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, "wallet.created", event.Payload, nil, "pending", 0, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(ctx, event)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLOutboxEventRepository_Create_WithCorrelationID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	correlationID := "corr-1"
	event := &domain.OutboxEvent{
		ID:            uuid.Must(uuid.NewV7()),
		EventType:     "funds.added",
		Payload:       `{"wallet_id":"wallet-1","amount":"10"}`,
		CorrelationID: &correlationID,
		Status:        domain.OutboxEventStatusPending,
	}

	dbMock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, "funds.added", event.Payload, &correlationID, "pending", 0, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(ctx, event)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	id1 := uuid.Must(uuid.NewV7())
	id2 := uuid.Must(uuid.NewV7())
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "payload", "correlation_id", "status",
		"attempts", "last_error", "sent_at", "created_at", "updated_at",
	}).
		AddRow(id1.String(), "wallet.created", `{"wallet_id":"w1"}`, "corr-1", "pending", 0, nil, nil, now, now).
		AddRow(id2.String(), "funds.added", `{"wallet_id":"w1"}`, nil, "pending", 2, "bus unavailable", nil, now, now)

	dbMock.ExpectQuery("SELECT (.+) FROM outbox_events WHERE status = (.+) ORDER BY created_at ASC LIMIT (.+) FOR UPDATE SKIP LOCKED").
		WithArgs("pending", 10).
		WillReturnRows(rows)

	events, err := repo.GetPendingEvents(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, id1, events[0].ID)
	assert.Equal(t, "corr-1", *events[0].CorrelationID)
	assert.Nil(t, events[1].CorrelationID)
	assert.Equal(t, 2, events[1].Attempts)
	assert.Equal(t, "bus unavailable", *events[1].LastError)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents_Empty(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "event_type", "payload", "correlation_id", "status",
		"attempts", "last_error", "sent_at", "created_at", "updated_at",
	})

	dbMock.ExpectQuery("SELECT (.+) FROM outbox_events").
		WithArgs("pending", 10).
		WillReturnRows(rows)

	events, err := repo.GetPendingEvents(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, events, 0)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents_QueryError(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	dbMock.ExpectQuery("SELECT (.+) FROM outbox_events").
		WithArgs("pending", 10).
		WillReturnError(errors.New("database error"))

	events, err := repo.GetPendingEvents(ctx, 10)
	assert.Error(t, err)
	assert.Nil(t, events)
}

func TestPostgreSQLOutboxEventRepository_Update(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	now := time.Now()
	event := &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: "wallet.created",
		Payload:   `{"wallet_id":"wallet-1"}`,
		Status:    domain.OutboxEventStatusSent,
		Attempts:  1,
		SentAt:    &now,
	}

	dbMock.ExpectExec("UPDATE outbox_events").
		WithArgs("wallet.created", event.Payload, nil, "sent", 1, nil, &now, event.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(ctx, event)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
