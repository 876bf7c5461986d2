// Package usecase implements the wallet business logic and orchestrates wallet domain operations.
package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blocodev/wallethub/internal/database"
	apperrors "github.com/blocodev/wallethub/internal/errors"
	outboxUsecase "github.com/blocodev/wallethub/internal/outbox/usecase"
	appValidation "github.com/blocodev/wallethub/internal/validation"
	"github.com/blocodev/wallethub/internal/wallet/domain"
)

// CreateWalletInput contains the input data for wallet creation
type CreateWalletInput struct {
	UserID        string `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// MoveFundsInput contains the input data for deposits and withdrawals
type MoveFundsInput struct {
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// TransferFundsInput contains the input data for transfers between wallets
type TransferFundsInput struct {
	FromWalletID  string `json:"from_wallet_id"`
	ToWalletID    string `json:"to_wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// UseCase defines the interface for wallet business logic operations
type UseCase interface {
	CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error)
	AddFunds(ctx context.Context, input MoveFundsInput) (*domain.Wallet, error)
	WithdrawFunds(ctx context.Context, input MoveFundsInput) (*domain.Wallet, error)
	TransferFunds(ctx context.Context, input TransferFundsInput) (*domain.Wallet, error)
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID) ([]*domain.Transaction, error)
}

// WalletRepository interface defines wallet repository operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, wallet *domain.Wallet) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error)
}

// TransactionRepository interface defines transaction repository operations
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	ListByWalletID(ctx context.Context, walletID uuid.UUID) ([]*domain.Transaction, error)
}

// WalletUseCase handles wallet-related business logic. Every mutation and its
// outbox record commit in a single transaction.
type WalletUseCase struct {
	txManager       database.TxManager
	walletRepo      WalletRepository
	transactionRepo TransactionRepository
	publisher       outboxUsecase.DomainEventPublisher
}

// NewWalletUseCase creates a new WalletUseCase
func NewWalletUseCase(
	txManager database.TxManager,
	walletRepo WalletRepository,
	transactionRepo TransactionRepository,
	publisher outboxUsecase.DomainEventPublisher,
) UseCase {
	return &WalletUseCase{
		txManager:       txManager,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// validateCreateWalletInput validates the wallet creation input
func (uc *WalletUseCase) validateCreateWalletInput(input CreateWalletInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.UserID,
			validation.Required.Error("user_id is required"),
			appValidation.UUID,
		),
	)
	return appValidation.WrapValidationError(err)
}

// validateMoveFundsInput validates deposit and withdrawal input
func (uc *WalletUseCase) validateMoveFundsInput(input MoveFundsInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.WalletID,
			validation.Required.Error("wallet_id is required"),
			appValidation.UUID,
		),
		validation.Field(&input.Amount,
			validation.Required.Error("amount is required"),
			appValidation.PositiveAmount,
		),
	)
	return appValidation.WrapValidationError(err)
}

// validateTransferFundsInput validates transfer input
func (uc *WalletUseCase) validateTransferFundsInput(input TransferFundsInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.FromWalletID,
			validation.Required.Error("from_wallet_id is required"),
			appValidation.UUID,
		),
		validation.Field(&input.ToWalletID,
			validation.Required.Error("to_wallet_id is required"),
			appValidation.UUID,
		),
		validation.Field(&input.Amount,
			validation.Required.Error("amount is required"),
			appValidation.PositiveAmount,
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateWallet creates a new wallet and publishes a wallet.created event
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	if err := uc.validateCreateWalletInput(input); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid user_id")
	}

	wallet := &domain.Wallet{
		ID:      uuid.Must(uuid.NewV7()),
		UserID:  userID,
		Balance: decimal.Zero,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.walletRepo.Create(ctx, wallet); err != nil {
			return err
		}

		event := domain.NewWalletCreatedEvent(wallet.ID.String(), wallet.UserID.String(), input.CorrelationID)

		return uc.publisher.Publish(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// AddFunds deposits funds into a wallet and publishes a funds.added event
func (uc *WalletUseCase) AddFunds(ctx context.Context, input MoveFundsInput) (*domain.Wallet, error) {
	if err := uc.validateMoveFundsInput(input); err != nil {
		return nil, err
	}

	walletID, err := uuid.Parse(input.WalletID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid wallet_id")
	}
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	var wallet *domain.Wallet

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		wallet, err = uc.walletRepo.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return err
		}

		if err := wallet.AddFunds(amount); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, wallet); err != nil {
			return err
		}

		transaction := &domain.Transaction{
			ID:            uuid.Must(uuid.NewV7()),
			WalletID:      wallet.ID,
			Type:          domain.TransactionTypeDeposit,
			Amount:        amount,
			CorrelationID: input.CorrelationID,
		}
		if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
			return err
		}

		event := domain.NewFundsAddedEvent(wallet.ID.String(), amount.String(), input.CorrelationID)

		return uc.publisher.Publish(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// WithdrawFunds withdraws funds from a wallet and publishes a funds.withdrawn event
func (uc *WalletUseCase) WithdrawFunds(ctx context.Context, input MoveFundsInput) (*domain.Wallet, error) {
	if err := uc.validateMoveFundsInput(input); err != nil {
		return nil, err
	}

	walletID, err := uuid.Parse(input.WalletID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid wallet_id")
	}
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	var wallet *domain.Wallet

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		wallet, err = uc.walletRepo.GetByIDForUpdate(ctx, walletID)
		if err != nil {
			return err
		}

		if err := wallet.WithdrawFunds(amount); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, wallet); err != nil {
			return err
		}

		transaction := &domain.Transaction{
			ID:            uuid.Must(uuid.NewV7()),
			WalletID:      wallet.ID,
			Type:          domain.TransactionTypeWithdrawal,
			Amount:        amount,
			CorrelationID: input.CorrelationID,
		}
		if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
			return err
		}

		event := domain.NewFundsWithdrawnEvent(wallet.ID.String(), amount.String(), input.CorrelationID)

		return uc.publisher.Publish(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// TransferFunds moves funds between two wallets and publishes a funds.transferred event.
// Wallet rows are locked in id order so two opposing transfers cannot deadlock.
func (uc *WalletUseCase) TransferFunds(ctx context.Context, input TransferFundsInput) (*domain.Wallet, error) {
	if err := uc.validateTransferFundsInput(input); err != nil {
		return nil, err
	}

	fromID, err := uuid.Parse(input.FromWalletID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid from_wallet_id")
	}
	toID, err := uuid.Parse(input.ToWalletID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid to_wallet_id")
	}
	if fromID == toID {
		return nil, domain.ErrSameWalletTransfer
	}
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}

	var fromWallet *domain.Wallet

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		wallets, err := uc.lockWalletPair(ctx, fromID, toID)
		if err != nil {
			return err
		}
		fromWallet = wallets[fromID]
		toWallet := wallets[toID]

		if err := fromWallet.WithdrawFunds(amount); err != nil {
			return err
		}
		if err := toWallet.AddFunds(amount); err != nil {
			return err
		}

		if err := uc.walletRepo.UpdateBalance(ctx, fromWallet); err != nil {
			return err
		}
		if err := uc.walletRepo.UpdateBalance(ctx, toWallet); err != nil {
			return err
		}

		debit := &domain.Transaction{
			ID:              uuid.Must(uuid.NewV7()),
			WalletID:        fromWallet.ID,
			Type:            domain.TransactionTypeTransfer,
			Amount:          amount.Neg(),
			RelatedWalletID: &toWallet.ID,
			CorrelationID:   input.CorrelationID,
		}
		if err := uc.transactionRepo.Create(ctx, debit); err != nil {
			return err
		}

		credit := &domain.Transaction{
			ID:              uuid.Must(uuid.NewV7()),
			WalletID:        toWallet.ID,
			Type:            domain.TransactionTypeTransfer,
			Amount:          amount,
			RelatedWalletID: &fromWallet.ID,
			CorrelationID:   input.CorrelationID,
		}
		if err := uc.transactionRepo.Create(ctx, credit); err != nil {
			return err
		}

		event := domain.NewFundsTransferredEvent(
			fromWallet.ID.String(), toWallet.ID.String(), amount.String(), input.CorrelationID)

		return uc.publisher.Publish(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return fromWallet, nil
}

// lockWalletPair locks both wallets for update, ordered by id.
func (uc *WalletUseCase) lockWalletPair(
	ctx context.Context,
	firstID, secondID uuid.UUID,
) (map[uuid.UUID]*domain.Wallet, error) {
	first, second := firstID, secondID
	if second.String() < first.String() {
		first, second = second, first
	}

	firstWallet, err := uc.walletRepo.GetByIDForUpdate(ctx, first)
	if err != nil {
		return nil, err
	}
	secondWallet, err := uc.walletRepo.GetByIDForUpdate(ctx, second)
	if err != nil {
		return nil, err
	}

	return map[uuid.UUID]*domain.Wallet{
		firstWallet.ID:  firstWallet,
		secondWallet.ID: secondWallet,
	}, nil
}

// GetWallet retrieves a wallet by ID
func (uc *WalletUseCase) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return uc.walletRepo.GetByID(ctx, id)
}

// ListWalletsByUser retrieves all wallets owned by a user
func (uc *WalletUseCase) ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	return uc.walletRepo.ListByUserID(ctx, userID)
}

// ListTransactions retrieves the ledger entries for a wallet
func (uc *WalletUseCase) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]*domain.Transaction, error) {
	return uc.transactionRepo.ListByWalletID(ctx, walletID)
}
