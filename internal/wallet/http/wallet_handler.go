// Package http provides HTTP handlers for wallet-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/blocodev/wallethub/internal/errors"
	"github.com/blocodev/wallethub/internal/httputil"
	"github.com/blocodev/wallethub/internal/wallet/http/dto"
	"github.com/blocodev/wallethub/internal/wallet/usecase"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletUseCase usecase.UseCase
	logger        *slog.Logger
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletUseCase usecase.UseCase, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// CreateWallet handles wallet creation
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	wallet, err := h.walletUseCase.CreateWallet(c.Request.Context(), dto.ToCreateWalletInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWalletResponse(wallet))
}

// Deposit handles adding funds to a wallet
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.MoveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	wallet, err := h.walletUseCase.AddFunds(c.Request.Context(), dto.ToMoveFundsInput(c.Param("id"), req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// Withdraw handles withdrawing funds from a wallet
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req dto.MoveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	wallet, err := h.walletUseCase.WithdrawFunds(c.Request.Context(), dto.ToMoveFundsInput(c.Param("id"), req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// Transfer handles moving funds between two wallets
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	wallet, err := h.walletUseCase.TransferFunds(c.Request.Context(), dto.ToTransferFundsInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// GetWallet handles retrieving a wallet by id
func (h *WalletHandler) GetWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	wallet, err := h.walletUseCase.GetWallet(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// ListWallets handles listing wallets for a user
func (h *WalletHandler) ListWallets(c *gin.Context) {
	userIDStr := c.Query("user_id")
	if userIDStr == "" {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "user_id is required"), h.logger)
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	wallets, err := h.walletUseCase.ListWalletsByUser(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": dto.ToWalletListResponse(wallets)})
}

// ListTransactions handles listing the ledger entries for a wallet
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	transactions, err := h.walletUseCase.ListTransactions(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": dto.ToTransactionListResponse(transactions)})
}
