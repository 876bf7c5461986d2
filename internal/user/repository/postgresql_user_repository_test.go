package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocodev/wallethub/internal/user/domain"
)

func userRows(user *domain.User) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at", "updated_at"}).
		AddRow(user.ID.String(), user.Name, user.Email, user.Password, now, now)
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "hashed-password",
	}

	dbMock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.Password).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(ctx, user)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "hashed-password",
	}

	dbMock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.Password).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "idx_users_email"`))

	err = repo.Create(ctx, user)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestPostgreSQLUserRepository_GetByID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "hashed-password",
	}

	dbMock.ExpectQuery("SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = (.+)").
		WithArgs(user.ID).
		WillReturnRows(userRows(user))

	result, err := repo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.ID)
	assert.Equal(t, user.Email, result.Email)
}

func TestPostgreSQLUserRepository_GetByID_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	userID := uuid.Must(uuid.NewV7())

	dbMock.ExpectQuery("SELECT id, name, email, password, created_at, updated_at FROM users").
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	result, err := repo.GetByID(ctx, userID)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPostgreSQLUserRepository_GetByEmail(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "hashed-password",
	}

	dbMock.ExpectQuery("SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = (.+)").
		WithArgs(user.Email).
		WillReturnRows(userRows(user))

	result, err := repo.GetByEmail(ctx, user.Email)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.ID)
}

func TestPostgreSQLUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	dbMock.ExpectQuery("SELECT id, name, email, password, created_at, updated_at FROM users").
		WithArgs("unknown@example.com").
		WillReturnError(sql.ErrNoRows)

	result, err := repo.GetByEmail(ctx, "unknown@example.com")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIsPostgreSQLUniqueViolation(t *testing.T) {
	assert.True(t, isPostgreSQLUniqueViolation(errors.New("pq: duplicate key value")))
	assert.True(t, isPostgreSQLUniqueViolation(errors.New(`violates unique constraint "idx_users_email"`)))
	assert.False(t, isPostgreSQLUniqueViolation(errors.New("connection refused")))
	assert.False(t, isPostgreSQLUniqueViolation(nil))
}
