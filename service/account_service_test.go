package service

import (
	"context"
	"errors"
	"testing"

	"raffle/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_GetAccount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		m := newServiceMocks(ctx)
		svc := NewAccountService(m.factory)
		m.accounts.On("GetByID", ctx, userID).Return(&models.Account{ID: userID, Balance: money(t, "12.34")}, nil)

		account, err := svc.GetAccount(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, "12.34", account.Balance.StringFixed(2))
		m.assertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		m := newServiceMocks(ctx)
		svc := NewAccountService(m.factory)
		m.accounts.On("GetByID", ctx, userID).Return(nil, nil)

		account, err := svc.GetAccount(ctx, userID)

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, account)
	})

	t.Run("repository error", func(t *testing.T) {
		m := newServiceMocks(ctx)
		svc := NewAccountService(m.factory)
		m.accounts.On("GetByID", ctx, userID).Return(nil, errors.New("boom"))

		_, err := svc.GetAccount(ctx, userID)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAccountService_GetBalanceHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	m := newServiceMocks(ctx)
	svc := NewAccountService(m.factory)
	m.history.On("GetByUser", ctx, userID, defaultHistoryLimit).Return([]*models.BalanceHistory{}, nil).Once()
	m.history.On("GetByUser", ctx, userID, 3).Return([]*models.BalanceHistory{{ID: 7}}, nil).Once()

	history, err := svc.GetBalanceHistory(ctx, userID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = svc.GetBalanceHistory(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(7), history[0].ID)

	m.assertExpectations(t)
}
