package service_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_ApplyDelta(t *testing.T) {
	ctx := context.Background()

	t.Run("credit and debit keep the totals", func(t *testing.T) {
		s := newStore(t)
		s.credit(t, "user-1", 100)

		result, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{
			UserID: "user-1", Delta: -30, Type: model.TxTypePurchase, Description: "spend",
		})

		require.NoError(t, err)
		assert.False(t, result.Replayed)
		assert.Equal(t, model.TxStatusCompleted, result.Transaction.Status)
		assert.Equal(t, int64(-30), result.Transaction.GemsDelta)

		account := s.requireConsistent(t, "user-1")
		assert.Equal(t, int64(70), account.Balance)
		assert.Equal(t, int64(100), account.TotalEarned)
		assert.Equal(t, int64(30), account.TotalSpent)
	})

	t.Run("insufficient balance writes nothing", func(t *testing.T) {
		s := newStore(t)
		s.credit(t, "user-1", 10)

		_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{
			UserID: "user-1", Delta: -50, Type: model.TxTypePartnerOffer,
		})

		assert.ErrorIs(t, err, service.ErrInsufficientBalance)
		assert.Equal(t, constants.ErrCodeInsufficientBalance, service.CodeOf(err))

		account := s.requireConsistent(t, "user-1")
		assert.Equal(t, int64(10), account.Balance)

		history, err := s.ledger.History(ctx, service.HistoryQuery{UserID: "user-1"})
		require.NoError(t, err)
		assert.Len(t, history.Transactions, 1)
	})

	t.Run("idempotency key replays the first transaction", func(t *testing.T) {
		s := newStore(t)
		cmd := service.ApplyDeltaCommand{
			UserID: "user-1", Delta: 5, Type: model.TxTypeReward, IdempotencyKey: "reward-1",
		}

		first, err := s.ledger.ApplyDelta(ctx, cmd)
		require.NoError(t, err)

		second, err := s.ledger.ApplyDelta(ctx, cmd)
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

		account := s.requireConsistent(t, "user-1")
		assert.Equal(t, int64(5), account.Balance)
	})

	t.Run("failure inside the transaction rolls back and leaves an audit record", func(t *testing.T) {
		s := newStore(t)
		s.credit(t, "user-1", 100)

		_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{
			UserID: "user-1", Delta: -40, Type: model.TxTypePurchase,
			Within: func(ctx context.Context, tx model.Transaction) error {
				return errors.New("selection store down")
			},
		})

		assert.Error(t, err)
		assert.Equal(t, constants.ErrCodeOperationFailed, service.CodeOf(err))

		account := s.requireConsistent(t, "user-1")
		assert.Equal(t, int64(100), account.Balance)

		counts, err := s.transactions.CountByStatus(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[model.TxStatusCompleted])
		assert.Equal(t, int64(1), counts[model.TxStatusFailed])
	})

	t.Run("service error from the hook is returned as is", func(t *testing.T) {
		s := newStore(t)
		hookErr := service.NewServiceError(constants.ErrCodeUnknownItem, service.ErrUnknownItem)

		_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{
			UserID: "user-1", Delta: 0, Type: model.TxTypePurchase,
			Within: func(ctx context.Context, tx model.Transaction) error { return hookErr },
		})

		assert.Equal(t, hookErr, err)
	})

	t.Run("cancelled context is recorded as cancelled", func(t *testing.T) {
		s := newStore(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.ledger.ApplyDelta(cancelled, service.ApplyDeltaCommand{
			UserID: "user-1", Delta: 10, Type: model.TxTypeBonus,
		})

		assert.Error(t, err)

		counts, err := s.transactions.CountByStatus(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[model.TxStatusCancelled])

		account := s.requireConsistent(t, "user-1")
		assert.Equal(t, int64(0), account.Balance)
	})

	t.Run("empty user", func(t *testing.T) {
		s := newStore(t)

		_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{Delta: 1, Type: model.TxTypeBonus})

		assert.ErrorIs(t, err, service.ErrInvalidUser)
		assert.Equal(t, constants.ErrCodeValidationFailed, service.CodeOf(err))
	})
}

func TestLedger_BalanceInvariant(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		delta := rng.Int63n(101) - 60
		txType := model.TxTypeBonus
		if delta < 0 {
			txType = model.TxTypePurchase
		}

		_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{UserID: "user-1", Delta: delta, Type: txType})
		if err != nil {
			require.ErrorIs(t, err, service.ErrInsufficientBalance)
		}

		s.requireConsistent(t, "user-1")
	}
}

func TestLedger_ConcurrentDebits(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	s.credit(t, "user-1", 100)
	s.credit(t, "user-2", 100)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()

			_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{
				UserID: userID, Delta: -10, Type: model.TxTypePurchase,
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, service.ErrInsufficientBalance) {
				rejected++
			}
		}("user-1")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{UserID: "user-2", Delta: -25, Type: model.TxTypePurchase})
	}()

	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 20, rejected)

	account := s.requireConsistent(t, "user-1")
	assert.Equal(t, int64(0), account.Balance)

	other := s.requireConsistent(t, "user-2")
	assert.Equal(t, int64(75), other.Balance)
}

func TestLedger_GetAccount(t *testing.T) {
	s := newStore(t)

	account, err := s.ledger.GetAccount(context.Background(), "never-seen")

	require.NoError(t, err)
	assert.Equal(t, "never-seen", account.UserID)
	assert.Zero(t, account.Balance)
	assert.Zero(t, account.TotalEarned)
	assert.Zero(t, account.TotalSpent)
}

func TestLedger_History(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		s.credit(t, "user-1", int64(i))
	}
	s.credit(t, "user-2", 50)

	t.Run("newest first with cursor", func(t *testing.T) {
		page, err := s.ledger.History(ctx, service.HistoryQuery{UserID: "user-1", Limit: 2})
		require.NoError(t, err)
		require.Len(t, page.Transactions, 2)
		assert.Equal(t, int64(5), page.Transactions[0].GemsDelta)
		assert.Equal(t, int64(4), page.Transactions[1].GemsDelta)
		require.NotZero(t, page.NextCursor)

		page, err = s.ledger.History(ctx, service.HistoryQuery{UserID: "user-1", Limit: 2, Cursor: page.NextCursor})
		require.NoError(t, err)
		require.Len(t, page.Transactions, 2)
		assert.Equal(t, int64(3), page.Transactions[0].GemsDelta)

		page, err = s.ledger.History(ctx, service.HistoryQuery{UserID: "user-1", Limit: 2, Cursor: page.NextCursor})
		require.NoError(t, err)
		require.Len(t, page.Transactions, 1)
		assert.Equal(t, int64(1), page.Transactions[0].GemsDelta)
		assert.Zero(t, page.NextCursor)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		page, err := s.ledger.History(ctx, service.HistoryQuery{UserID: "user-1", Limit: 1000})

		require.NoError(t, err)
		assert.Len(t, page.Transactions, 5)
		assert.Zero(t, page.NextCursor)
	})
}

func TestLedger_Audit(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	s.credit(t, "user-1", 100)

	_, err := s.ledger.ApplyDelta(ctx, service.ApplyDeltaCommand{UserID: "user-1", Delta: -500, Type: model.TxTypePurchase})
	require.Error(t, err)

	report, err := s.ledger.Audit(ctx, "user-1")

	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, int64(100), report.Balance)
	assert.Equal(t, int64(100), report.CompletedEarned)
	assert.Equal(t, int64(1), report.StatusCounts["completed"])

	require.NoError(t, s.db.Exec("UPDATE gem_accounts SET balance = 90, total_spent = 10 WHERE user_id = ?", "user-1").Error)

	report, err = s.ledger.Audit(ctx, "user-1")

	require.NoError(t, err)
	assert.False(t, report.Consistent)
}
