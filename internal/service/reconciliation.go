package service

import (
	"context"

	"github.com/Behyna/gem-services/internal/constants"
	"go.uber.org/zap"
)

// ReconciliationService merges a client's cached activations with the
// transaction log. It only reads; a client cache can never cause a charge.
type ReconciliationService interface {
	ReconcileForUser(ctx context.Context, userID string, local []OfferKey) (ReconcileResponse, error)
}

type reconciliation struct {
	redemption RedemptionService
	logger     *zap.Logger
}

func NewReconciliationService(redemption RedemptionService, logger *zap.Logger) ReconciliationService {
	return &reconciliation{redemption: redemption, logger: logger}
}

// Reconcile returns the deduplicated union of local and server, ordered by
// partner then offer type. Keys with an empty field are dropped.
func Reconcile(local, server []OfferKey) []OfferKey {
	seen := make(map[OfferKey]struct{}, len(local)+len(server))
	union := make([]OfferKey, 0, len(local)+len(server))

	for _, keys := range [][]OfferKey{server, local} {
		for _, key := range keys {
			if key.PartnerID == "" || key.OfferType == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			union = append(union, key)
		}
	}

	sortOfferKeys(union)
	return union
}

func (r *reconciliation) ReconcileForUser(ctx context.Context, userID string, local []OfferKey) (
	ReconcileResponse, error) {

	if userID == "" {
		return ReconcileResponse{}, NewServiceError(constants.ErrCodeUnauthenticated, ErrInvalidUser)
	}

	server, err := r.redemption.ActivatedOffers(ctx, userID)
	if err != nil {
		return ReconcileResponse{}, err
	}

	confirmed := make(map[OfferKey]struct{}, len(server))
	for _, key := range server {
		confirmed[key] = struct{}{}
	}

	unconfirmed := make([]OfferKey, 0)
	for _, key := range Reconcile(local, nil) {
		if _, ok := confirmed[key]; !ok {
			unconfirmed = append(unconfirmed, key)
		}
	}

	if len(unconfirmed) > 0 {
		r.logger.Debug("Client cache holds offers the log does not confirm",
			zap.String("userID", userID),
			zap.Int("unconfirmed", len(unconfirmed)))
	}

	return ReconcileResponse{
		Activated:       Reconcile(local, server),
		ServerConfirmed: server,
		Unconfirmed:     unconfirmed,
	}, nil
}
