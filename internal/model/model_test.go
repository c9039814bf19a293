package model_test

import (
	"testing"

	"github.com/Behyna/gem-services/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemAccount_Apply(t *testing.T) {
	account := model.GemAccount{UserID: "user-1"}

	account.Apply(10)
	account.Apply(-4)
	account.Apply(0)

	assert.Equal(t, int64(6), account.Balance)
	assert.Equal(t, int64(10), account.TotalEarned)
	assert.Equal(t, int64(4), account.TotalSpent)
	assert.True(t, account.Consistent())

	account.Apply(-7)
	assert.False(t, account.Consistent())
}

func TestCanTransition(t *testing.T) {
	statuses := []model.TxStatus{
		model.TxStatusPending, model.TxStatusCompleted, model.TxStatusFailed, model.TxStatusCancelled,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			expected := from == model.TxStatusPending && to != model.TxStatusPending
			assert.Equal(t, expected, model.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransaction_Metadata(t *testing.T) {
	var tx model.Transaction

	require.NoError(t, tx.SetMetadata(model.PartnerOfferMetadata{PartnerID: "cinema", OfferType: "free", PromoCode: "CINE10"}))

	var decoded model.PartnerOfferMetadata
	require.NoError(t, tx.DecodeMetadata(&decoded))
	assert.Equal(t, "CINE10", decoded.PromoCode)
	assert.JSONEq(t, `{"partnerId":"cinema","offerType":"free","promoCode":"CINE10"}`, string(tx.Metadata))

	var empty model.Transaction
	assert.NoError(t, empty.DecodeMetadata(&decoded))
}
