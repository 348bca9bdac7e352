package repository

import (
	"context"
	"sync"
	"testing"

	"raffle/models"
	"raffle/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		account, err := repo.Create(ctx, testutil.Money(t, "25.50"))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "25.50", got.Balance.StringFixed(2))
	})

	t.Run("missing account returns nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("create rejects negative balance", func(t *testing.T) {
		_, err := repo.Create(ctx, testutil.Money(t, "-1"))
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("debit within balance", func(t *testing.T) {
		id := testutil.SeedAccount(t, testDB.DB, "30.00")

		balance, err := repo.Debit(ctx, id, testutil.Money(t, "30.00"))
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("debit beyond balance leaves it untouched", func(t *testing.T) {
		id := testutil.SeedAccount(t, testDB.DB, "29.99")

		_, err := repo.Debit(ctx, id, testutil.Money(t, "30.00"))
		assert.ErrorIs(t, err, models.ErrInsufficientBalance)
		assert.Equal(t, "29.99", testutil.BalanceOf(t, testDB.DB, id).StringFixed(2))
	})

	t.Run("debit unknown account", func(t *testing.T) {
		_, err := repo.Debit(ctx, uuid.New(), testutil.Money(t, "1.00"))
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("non positive amounts rejected", func(t *testing.T) {
		id := testutil.SeedAccount(t, testDB.DB, "10.00")

		_, err := repo.Debit(ctx, id, decimal.Zero)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
		_, err = repo.Credit(ctx, id, testutil.Money(t, "-5"))
		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("credit", func(t *testing.T) {
		id := testutil.SeedAccount(t, testDB.DB, "10.00")

		balance, err := repo.Credit(ctx, id, testutil.Money(t, "24.00"))
		require.NoError(t, err)
		assert.Equal(t, "34.00", balance.StringFixed(2))
	})

	t.Run("credit unknown account", func(t *testing.T) {
		_, err := repo.Credit(ctx, uuid.New(), testutil.Money(t, "1.00"))
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		id := testutil.SeedAccount(t, testDB.DB, "50.00")

		const attempts = 20
		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Debit(ctx, id, testutil.Money(t, "10.00"))
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, models.ErrInsufficientBalance)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, succeeded)
		assert.True(t, testutil.BalanceOf(t, testDB.DB, id).IsZero())
	})
}
