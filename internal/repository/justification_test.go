package repository_test

import (
	"context"
	"testing"

	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingJustification(txID int64) *model.Justification {
	return &model.Justification{
		TransactionID: txID,
		UserID:        "user-1",
		PartnerID:     "cinema",
		OfferType:     "premium",
		Type:          "qr",
		Status:        model.JustificationStatusPending,
	}
}

func TestJustificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewJustificationRepository(testutil.NewSQLiteDB(t))

	require.NoError(t, repo.CreateIfMissing(ctx, newPendingJustification(1)))
	require.NoError(t, repo.CreateIfMissing(ctx, newPendingJustification(2)))
	require.NoError(t, repo.CreateIfMissing(ctx, newPendingJustification(1)))

	t.Run("pending rows are picked up by the outbox", func(t *testing.T) {
		pending, err := repo.FindUnpublishedPending(ctx, 10)

		require.NoError(t, err)
		assert.Len(t, pending, 2)

		count, err := repo.CountPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("published rows are skipped", func(t *testing.T) {
		require.NoError(t, repo.MarkPublished(ctx, 2, 0))

		pending, err := repo.FindUnpublishedPending(ctx, 10)

		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, int64(1), pending[0].TransactionID)
	})

	t.Run("failure republishes", func(t *testing.T) {
		require.NoError(t, repo.RecordFailure(ctx, 2, "ISSUER_UNAVAILABLE", true))

		j, err := repo.GetByTransactionID(ctx, 2)
		require.NoError(t, err)
		assert.False(t, j.Published)
		assert.Equal(t, 1, j.Attempts)
		require.NotNil(t, j.LastError)
		assert.Equal(t, "ISSUER_UNAVAILABLE", *j.LastError)
	})

	t.Run("permanent failure leaves the outbox", func(t *testing.T) {
		require.NoError(t, repo.RecordFailure(ctx, 2, "ISSUE_REJECTED", false))

		j, err := repo.GetByTransactionID(ctx, 2)
		require.NoError(t, err)
		assert.True(t, j.Published)
		assert.Equal(t, 2, j.Attempts)
		assert.Equal(t, model.JustificationStatusPending, j.Status)

		pending, err := repo.FindUnpublishedPending(ctx, 10)
		require.NoError(t, err)
		for _, p := range pending {
			assert.NotEqual(t, int64(2), p.TransactionID)
		}

		require.NoError(t, repo.RecordFailure(ctx, 2, "ISSUER_UNAVAILABLE", true))
	})

	t.Run("attempt recorded mid-publish keeps the row in the outbox", func(t *testing.T) {
		read, err := repo.GetByTransactionID(ctx, 2)
		require.NoError(t, err)
		require.False(t, read.Published)

		require.NoError(t, repo.RecordFailure(ctx, 2, "ISSUER_UNAVAILABLE", true))

		err = repo.MarkPublished(ctx, 2, read.Attempts)
		assert.ErrorIs(t, err, repository.ErrJustificationChanged)

		pending, err := repo.FindUnpublishedPending(ctx, 10)
		require.NoError(t, err)
		var ids []int64
		for _, p := range pending {
			ids = append(ids, p.TransactionID)
		}
		assert.Contains(t, ids, int64(2))

		require.NoError(t, repo.MarkPublished(ctx, 2, read.Attempts+1))
	})

	t.Run("issued", func(t *testing.T) {
		require.NoError(t, repo.MarkIssued(ctx, 1, "ref-1", "https://proof/1"))

		j, err := repo.GetByTransactionID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, j.Issued())
		assert.Equal(t, "ref-1", *j.Reference)
		assert.Nil(t, j.LastError)

		err = repo.RecordFailure(ctx, 1, "late failure", true)
		assert.ErrorIs(t, err, repository.ErrJustificationNotFound)

		err = repo.MarkPublished(ctx, 1, j.Attempts)
		assert.ErrorIs(t, err, repository.ErrJustificationChanged)
	})

	t.Run("list by transaction ids", func(t *testing.T) {
		js, err := repo.ListByTransactionIDs(ctx, []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Len(t, js, 2)

		js, err = repo.ListByTransactionIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, js)
	})

	t.Run("missing justification", func(t *testing.T) {
		_, err := repo.GetByTransactionID(ctx, 99)

		assert.ErrorIs(t, err, repository.ErrJustificationNotFound)
	})
}
