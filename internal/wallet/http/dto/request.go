// Package dto provides data transfer objects for the wallet HTTP layer.
package dto

// CreateWalletRequest represents the API request for wallet creation
type CreateWalletRequest struct {
	UserID        string `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// MoveFundsRequest represents the API request for deposits and withdrawals.
// The wallet id comes from the URL path.
type MoveFundsRequest struct {
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// TransferFundsRequest represents the API request for transfers between wallets
type TransferFundsRequest struct {
	FromWalletID  string `json:"from_wallet_id"`
	ToWalletID    string `json:"to_wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}
