// Package dto provides data transfer objects for the wallet HTTP layer.
package dto

import (
	"github.com/blocodev/wallethub/internal/wallet/domain"
	"github.com/blocodev/wallethub/internal/wallet/usecase"
)

// ToCreateWalletInput converts a CreateWalletRequest DTO to a use case input
func ToCreateWalletInput(req CreateWalletRequest) usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		UserID:        req.UserID,
		CorrelationID: req.CorrelationID,
	}
}

// ToMoveFundsInput converts a MoveFundsRequest DTO and path wallet id to a use case input
func ToMoveFundsInput(walletID string, req MoveFundsRequest) usecase.MoveFundsInput {
	return usecase.MoveFundsInput{
		WalletID:      walletID,
		Amount:        req.Amount,
		CorrelationID: req.CorrelationID,
	}
}

// ToTransferFundsInput converts a TransferFundsRequest DTO to a use case input
func ToTransferFundsInput(req TransferFundsRequest) usecase.TransferFundsInput {
	return usecase.TransferFundsInput{
		FromWalletID:  req.FromWalletID,
		ToWalletID:    req.ToWalletID,
		Amount:        req.Amount,
		CorrelationID: req.CorrelationID,
	}
}

// ToWalletResponse converts a domain Wallet model to a WalletResponse DTO
func ToWalletResponse(wallet *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:        wallet.ID,
		UserID:    wallet.UserID,
		Balance:   wallet.Balance.String(),
		CreatedAt: wallet.CreatedAt,
		UpdatedAt: wallet.UpdatedAt,
	}
}

// ToWalletListResponse converts a slice of domain Wallet models to response DTOs
func ToWalletListResponse(wallets []*domain.Wallet) []WalletResponse {
	responses := make([]WalletResponse, 0, len(wallets))
	for _, wallet := range wallets {
		responses = append(responses, ToWalletResponse(wallet))
	}
	return responses
}

// ToTransactionResponse converts a domain Transaction model to a TransactionResponse DTO
func ToTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              transaction.ID,
		WalletID:        transaction.WalletID,
		Type:            string(transaction.Type),
		Amount:          transaction.Amount.String(),
		RelatedWalletID: transaction.RelatedWalletID,
		CorrelationID:   transaction.CorrelationID,
		CreatedAt:       transaction.CreatedAt,
	}
}

// ToTransactionListResponse converts a slice of domain Transaction models to response DTOs
func ToTransactionListResponse(transactions []*domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, ToTransactionResponse(transaction))
	}
	return responses
}
