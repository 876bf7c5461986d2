package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of ledger entry
type TransactionType string

// Transaction types
const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// Transaction is an immutable ledger entry recording one balance movement.
// Transfers record the counterparty wallet in RelatedWalletID.
type Transaction struct {
	ID              uuid.UUID
	WalletID        uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	RelatedWalletID *uuid.UUID
	CorrelationID   string
	CreatedAt       time.Time
}
