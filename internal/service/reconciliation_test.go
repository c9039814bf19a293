package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/mocks"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	offerA = service.OfferKey{PartnerID: "cinema", OfferType: "free"}
	offerB = service.OfferKey{PartnerID: "bookstore", OfferType: "free"}
	offerC = service.OfferKey{PartnerID: "gym", OfferType: "premium"}
)

func TestReconcile(t *testing.T) {
	t.Run("server adds what the cache misses", func(t *testing.T) {
		union := service.Reconcile([]service.OfferKey{offerA}, []service.OfferKey{offerA, offerB})

		assert.Equal(t, []service.OfferKey{offerB, offerA}, union)
	})

	t.Run("cache entries are kept", func(t *testing.T) {
		union := service.Reconcile([]service.OfferKey{offerA, offerB}, []service.OfferKey{offerA})

		assert.ElementsMatch(t, []service.OfferKey{offerA, offerB}, union)
	})

	t.Run("idempotent and order independent", func(t *testing.T) {
		local := []service.OfferKey{offerC, offerA, offerA}
		server := []service.OfferKey{offerB}

		once := service.Reconcile(local, server)
		twice := service.Reconcile(once, server)

		assert.Equal(t, once, twice)
		assert.Equal(t, once, service.Reconcile(server, local))
		assert.Len(t, once, 3)
	})

	t.Run("blank keys are dropped", func(t *testing.T) {
		union := service.Reconcile([]service.OfferKey{{PartnerID: "cinema"}}, nil)

		assert.Empty(t, union)
	})
}

func TestReconciliation_ReconcileForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("reports unconfirmed cache entries", func(t *testing.T) {
		mockRedemption := &mocks.RedemptionService{}
		svc := service.NewReconciliationService(mockRedemption, zap.NewNop())

		mockRedemption.On("ActivatedOffers", ctx, "user-1").Return([]service.OfferKey{offerA}, nil)

		resp, err := svc.ReconcileForUser(ctx, "user-1", []service.OfferKey{offerA, offerB})

		require.NoError(t, err)
		assert.ElementsMatch(t, []service.OfferKey{offerA, offerB}, resp.Activated)
		assert.Equal(t, []service.OfferKey{offerA}, resp.ServerConfirmed)
		assert.Equal(t, []service.OfferKey{offerB}, resp.Unconfirmed)
		mockRedemption.AssertNotCalled(t, "ActivateOffer", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		mockRedemption := &mocks.RedemptionService{}
		svc := service.NewReconciliationService(mockRedemption, zap.NewNop())

		lookupErr := service.NewServiceError(constants.ErrCodeOperationFailed, errors.New("db down"))
		mockRedemption.On("ActivatedOffers", ctx, "user-1").Return(nil, lookupErr)

		_, err := svc.ReconcileForUser(ctx, "user-1", nil)

		assert.Equal(t, lookupErr, err)
	})

	t.Run("unconfirmed offer can still be activated exactly once", func(t *testing.T) {
		s := newStore(t)
		redemption := newRedemptionService(s, &mocks.ProofIssuer{})
		svc := service.NewReconciliationService(redemption, zap.NewNop())
		s.credit(t, "user-1", 100)

		_, err := redemption.ActivateOffer(ctx, service.ActivateOfferCommand{UserID: "user-1", PartnerID: "cinema", OfferType: "free"})
		require.NoError(t, err)

		resp, err := svc.ReconcileForUser(ctx, "user-1", []service.OfferKey{offerA, offerB})
		require.NoError(t, err)
		assert.Equal(t, []service.OfferKey{offerB}, resp.Unconfirmed)

		account := s.requireConsistent(t, "user-1")
		assert.Equal(t, int64(100), account.Balance)

		for i := 0; i < 2; i++ {
			_, err = redemption.ActivateOffer(ctx, service.ActivateOfferCommand{UserID: "user-1", PartnerID: "bookstore", OfferType: "free"})
			require.NoError(t, err)
		}

		offers, err := redemption.ActivatedOffers(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []service.OfferKey{offerB, offerA}, offers)

		counts, err := s.transactions.CountByStatus(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), counts["completed"])
	})
}
