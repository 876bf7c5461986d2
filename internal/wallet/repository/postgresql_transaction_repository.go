package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/blocodev/wallethub/internal/database"
	"github.com/blocodev/wallethub/internal/wallet/domain"

	apperrors "github.com/blocodev/wallethub/internal/errors"
)

// PostgreSQLTransactionRepository handles transaction persistence for PostgreSQL
type PostgreSQLTransactionRepository struct {
	db *sql.DB
}

// NewPostgreSQLTransactionRepository creates a new PostgreSQLTransactionRepository
func NewPostgreSQLTransactionRepository(db *sql.DB) *PostgreSQLTransactionRepository {
	return &PostgreSQLTransactionRepository{
		db: db,
	}
}

// Create inserts a new transaction
func (r *PostgreSQLTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO transactions (id, wallet_id, type, amount, related_wallet_id, correlation_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	var correlationID *string
	if transaction.CorrelationID != "" {
		correlationID = &transaction.CorrelationID
	}

	_, err := querier.ExecContext(ctx, query, transaction.ID, transaction.WalletID, transaction.Type,
		transaction.Amount, transaction.RelatedWalletID, correlationID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create transaction")
	}
	return nil
}

// ListByWalletID retrieves the ledger entries for a wallet, newest first
func (r *PostgreSQLTransactionRepository) ListByWalletID(
	ctx context.Context,
	walletID uuid.UUID,
) ([]*domain.Transaction, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, wallet_id, type, amount, related_wallet_id, correlation_id, created_at
			  FROM transactions
			  WHERE wallet_id = $1
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transactions")
	}
	defer rows.Close() //nolint:errcheck

	var transactions []*domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		var correlationID sql.NullString

		err := rows.Scan(&transaction.ID, &transaction.WalletID, &transaction.Type, &transaction.Amount,
			&transaction.RelatedWalletID, &correlationID, &transaction.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan transaction")
		}

		transaction.CorrelationID = correlationID.String

		transactions = append(transactions, &transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list transactions")
	}

	return transactions, nil
}
