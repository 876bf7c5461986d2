package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/blocodev/wallethub/internal/database"
	"github.com/blocodev/wallethub/internal/wallet/domain"

	apperrors "github.com/blocodev/wallethub/internal/errors"
)

// MySQLTransactionRepository handles transaction persistence for MySQL
type MySQLTransactionRepository struct {
	db *sql.DB
}

// NewMySQLTransactionRepository creates a new MySQLTransactionRepository
func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{
		db: db,
	}
}

// Create inserts a new transaction
func (r *MySQLTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO transactions (id, wallet_id, type, amount, related_wallet_id, correlation_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW())`

	idBytes, err := transaction.ID.MarshalBinary()
	if err != nil {
		return err
	}
	walletIDBytes, err := transaction.WalletID.MarshalBinary()
	if err != nil {
		return err
	}

	var relatedIDBytes []byte
	if transaction.RelatedWalletID != nil {
		relatedIDBytes, err = transaction.RelatedWalletID.MarshalBinary()
		if err != nil {
			return err
		}
	}

	var correlationID *string
	if transaction.CorrelationID != "" {
		correlationID = &transaction.CorrelationID
	}

	_, err = querier.ExecContext(ctx, query, idBytes, walletIDBytes, transaction.Type,
		transaction.Amount, relatedIDBytes, correlationID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create transaction")
	}
	return nil
}

// ListByWalletID retrieves the ledger entries for a wallet, newest first
func (r *MySQLTransactionRepository) ListByWalletID(
	ctx context.Context,
	walletID uuid.UUID,
) ([]*domain.Transaction, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, wallet_id, type, amount, related_wallet_id, correlation_id, created_at
			  FROM transactions
			  WHERE wallet_id = ?
			  ORDER BY created_at DESC`

	walletIDBytes, err := walletID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx, query, walletIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transactions")
	}
	defer rows.Close() //nolint:errcheck

	var transactions []*domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		var idBytes, ownerIDBytes, relatedIDBytes []byte
		var correlationID sql.NullString

		err := rows.Scan(&idBytes, &ownerIDBytes, &transaction.Type, &transaction.Amount,
			&relatedIDBytes, &correlationID, &transaction.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan transaction")
		}

		if err := transaction.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, err
		}
		if err := transaction.WalletID.UnmarshalBinary(ownerIDBytes); err != nil {
			return nil, err
		}
		if len(relatedIDBytes) > 0 {
			var relatedID uuid.UUID
			if err := relatedID.UnmarshalBinary(relatedIDBytes); err != nil {
				return nil, err
			}
			transaction.RelatedWalletID = &relatedID
		}
		transaction.CorrelationID = correlationID.String

		transactions = append(transactions, &transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list transactions")
	}

	return transactions, nil
}
