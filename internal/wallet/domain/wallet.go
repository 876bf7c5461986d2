// Package domain defines the core wallet domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blocodev/wallethub/internal/errors"
)

// Wallet represents a user wallet holding a balance
type Wallet struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for wallet operations.
var (
	// ErrWalletNotFound indicates the requested wallet does not exist.
	ErrWalletNotFound = errors.Wrap(errors.ErrNotFound, "wallet not found")

	// ErrInvalidAmount indicates the amount is not a positive decimal.
	ErrInvalidAmount = errors.Wrap(errors.ErrInvalidInput, "amount must be a positive decimal")

	// ErrInsufficientFunds indicates the wallet balance cannot cover the operation.
	ErrInsufficientFunds = errors.Wrap(errors.ErrUnprocessable, "insufficient funds")

	// ErrSameWalletTransfer indicates a transfer where source and destination are the same wallet.
	ErrSameWalletTransfer = errors.Wrap(errors.ErrInvalidInput, "cannot transfer to the same wallet")
)

// AddFunds credits the wallet balance.
func (w *Wallet) AddFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	w.Balance = w.Balance.Add(amount)

	return nil
}

// WithdrawFunds debits the wallet balance. The balance never goes negative.
func (w *Wallet) WithdrawFunds(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	w.Balance = w.Balance.Sub(amount)

	return nil
}
