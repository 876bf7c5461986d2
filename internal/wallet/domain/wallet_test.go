package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/blocodev/wallethub/internal/errors"
)

func TestWallet_AddFunds(t *testing.T) {
	wallet := &Wallet{Balance: decimal.NewFromInt(100)}

	err := wallet.AddFunds(decimal.NewFromInt(50))
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(150)))
}

func TestWallet_AddFunds_InvalidAmount(t *testing.T) {
	wallet := &Wallet{Balance: decimal.NewFromInt(100)}

	err := wallet.AddFunds(decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	err = wallet.AddFunds(decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(100)))
}

func TestWallet_WithdrawFunds(t *testing.T) {
	wallet := &Wallet{Balance: decimal.NewFromInt(100)}

	err := wallet.WithdrawFunds(decimal.NewFromInt(40))
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(60)))
}

func TestWallet_WithdrawFunds_ExactBalance(t *testing.T) {
	wallet := &Wallet{Balance: decimal.NewFromInt(100)}

	err := wallet.WithdrawFunds(decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero())
}

func TestWallet_WithdrawFunds_InsufficientFunds(t *testing.T) {
	wallet := &Wallet{Balance: decimal.NewFromInt(10)}

	err := wallet.WithdrawFunds(decimal.NewFromInt(20))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.ErrorIs(t, err, apperrors.ErrUnprocessable)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(10)))
}

func TestWallet_WithdrawFunds_InvalidAmount(t *testing.T) {
	wallet := &Wallet{Balance: decimal.NewFromInt(10)}

	err := wallet.WithdrawFunds(decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
