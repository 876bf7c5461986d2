// Package repository provides data persistence implementations for wallet entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/blocodev/wallethub/internal/database"
	"github.com/blocodev/wallethub/internal/wallet/domain"

	apperrors "github.com/blocodev/wallethub/internal/errors"
)

// PostgreSQLWalletRepository handles wallet persistence for PostgreSQL
type PostgreSQLWalletRepository struct {
	db *sql.DB
}

// NewPostgreSQLWalletRepository creates a new PostgreSQLWalletRepository
func NewPostgreSQLWalletRepository(db *sql.DB) *PostgreSQLWalletRepository {
	return &PostgreSQLWalletRepository{
		db: db,
	}
}

// Create inserts a new wallet
func (r *PostgreSQLWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, wallet.ID, wallet.UserID, wallet.Balance)
	if err != nil {
		return apperrors.Wrap(err, "failed to create wallet")
	}
	return nil
}

// GetByID retrieves a wallet by ID
func (r *PostgreSQLWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance, created_at, updated_at
			  FROM wallets WHERE id = $1`

	return r.getWallet(ctx, query, id)
}

// GetByIDForUpdate retrieves a wallet by ID with a row lock for the enclosing transaction
func (r *PostgreSQLWalletRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance, created_at, updated_at
			  FROM wallets WHERE id = $1
			  FOR UPDATE`

	return r.getWallet(ctx, query, id)
}

func (r *PostgreSQLWalletRepository) getWallet(
	ctx context.Context,
	query string,
	id uuid.UUID,
) (*domain.Wallet, error) {
	var wallet domain.Wallet
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get wallet by id")
	}

	return &wallet, nil
}

// UpdateBalance persists a wallet balance
func (r *PostgreSQLWalletRepository) UpdateBalance(ctx context.Context, wallet *domain.Wallet) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, wallet.Balance, wallet.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update wallet balance")
	}
	return nil
}

// ListByUserID retrieves all wallets owned by a user
func (r *PostgreSQLWalletRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, balance, created_at, updated_at
			  FROM wallets
			  WHERE user_id = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list wallets")
	}
	defer rows.Close() //nolint:errcheck

	var wallets []*domain.Wallet
	for rows.Next() {
		var wallet domain.Wallet

		err := rows.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan wallet")
		}

		wallets = append(wallets, &wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list wallets")
	}

	return wallets, nil
}
