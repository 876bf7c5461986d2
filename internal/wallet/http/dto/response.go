// Package dto provides data transfer objects for the wallet HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// WalletResponse represents the API response for a wallet.
// The balance is a decimal string to avoid float rounding on the wire.
type WalletResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionResponse represents the API response for a ledger entry
type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	WalletID        uuid.UUID  `json:"wallet_id"`
	Type            string     `json:"type"`
	Amount          string     `json:"amount"`
	RelatedWalletID *uuid.UUID `json:"related_wallet_id,omitempty"`
	CorrelationID   string     `json:"correlation_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
