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

// MySQLWalletRepository handles wallet persistence for MySQL
type MySQLWalletRepository struct {
	db *sql.DB
}

// NewMySQLWalletRepository creates a new MySQLWalletRepository
func NewMySQLWalletRepository(db *sql.DB) *MySQLWalletRepository {
	return &MySQLWalletRepository{
		db: db,
	}
}

// Create inserts a new wallet
func (r *MySQLWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
			  VALUES (?, ?, ?, NOW(), NOW())`

	idBytes, err := wallet.ID.MarshalBinary()
	if err != nil {
		return err
	}
	userIDBytes, err := wallet.UserID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, userIDBytes, wallet.Balance)
	if err != nil {
		return apperrors.Wrap(err, "failed to create wallet")
	}
	return nil
}

// GetByID retrieves a wallet by ID
func (r *MySQLWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance, created_at, updated_at
			  FROM wallets WHERE id = ?`

	return r.getWallet(ctx, query, id)
}

// GetByIDForUpdate retrieves a wallet by ID with a row lock for the enclosing transaction
func (r *MySQLWalletRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, user_id, balance, created_at, updated_at
			  FROM wallets WHERE id = ?
			  FOR UPDATE`

	return r.getWallet(ctx, query, id)
}

func (r *MySQLWalletRepository) getWallet(ctx context.Context, query string, id uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var idBytes, userIDBytes []byte
	querier := database.GetTx(ctx, r.db)

	queryID, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}

	err = querier.QueryRowContext(ctx, query, queryID).Scan(
		&idBytes, &userIDBytes, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get wallet by id")
	}

	if err := wallet.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := wallet.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, err
	}

	return &wallet, nil
}

// UpdateBalance persists a wallet balance
func (r *MySQLWalletRepository) UpdateBalance(ctx context.Context, wallet *domain.Wallet) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE wallets SET balance = ?, updated_at = NOW() WHERE id = ?`

	idBytes, err := wallet.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, wallet.Balance, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update wallet balance")
	}
	return nil
}

// ListByUserID retrieves all wallets owned by a user
func (r *MySQLWalletRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, balance, created_at, updated_at
			  FROM wallets
			  WHERE user_id = ?
			  ORDER BY created_at ASC`

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx, query, userIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list wallets")
	}
	defer rows.Close() //nolint:errcheck

	var wallets []*domain.Wallet
	for rows.Next() {
		var wallet domain.Wallet
		var idBytes, ownerIDBytes []byte

		err := rows.Scan(&idBytes, &ownerIDBytes, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan wallet")
		}

		if err := wallet.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, err
		}
		if err := wallet.UserID.UnmarshalBinary(ownerIDBytes); err != nil {
			return nil, err
		}

		wallets = append(wallets, &wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list wallets")
	}

	return wallets, nil
}
