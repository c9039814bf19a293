package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/pkg/mq"
	"github.com/Behyna/gem-services/pkg/proofissuer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxJustificationAttempts = 10

type RedemptionService interface {
	ActivateOffer(ctx context.Context, cmd ActivateOfferCommand) (ActivateOfferResponse, error)
	RegenerateJustification(ctx context.Context, cmd RegenerateJustificationCommand) (JustificationView, error)
	IssuePendingJustification(ctx context.Context, cmd IssueJustificationCommand) error
	ActivatedOffers(ctx context.Context, userID string) ([]OfferKey, error)
}

type redemption struct {
	ledger         LedgerService
	transactions   repository.TransactionRepository
	justifications repository.JustificationRepository
	catalog        *catalog.Catalog
	issuer         proofissuer.Issuer
	maxRetry       int
	issueTimeout   time.Duration
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	logger         *zap.Logger
}

func NewRedemptionService(ledger LedgerService, transactions repository.TransactionRepository,
	justifications repository.JustificationRepository, catalog *catalog.Catalog, issuer proofissuer.Issuer,
	config *config.Config, metrics *metrics.Metrics, tracer trace.Tracer, logger *zap.Logger) RedemptionService {

	maxRetry := config.ProofIssuer.MaxRetries
	if maxRetry < 1 {
		maxRetry = 1
	}

	return &redemption{
		ledger:         ledger,
		transactions:   transactions,
		justifications: justifications,
		catalog:        catalog,
		issuer:         issuer,
		maxRetry:       maxRetry,
		issueTimeout:   config.Justification.IssueTimeout,
		metrics:        metrics,
		tracer:         tracer,
		logger:         logger,
	}
}

// OfferIdempotencyKey is the ledger key that latches one activation per user and offer.
func OfferIdempotencyKey(userID, partnerID, offerType string) string {
	return fmt.Sprintf("partner_offer:%s:%s:%s", userID, partnerID, offerType)
}

// ActivateOffer charges for a partner offer at most once per user. Repeated
// calls return the first activation. The charge is never rolled back because
// of a Proof Issuer failure; the justification then stays pending.
func (r *redemption) ActivateOffer(ctx context.Context, cmd ActivateOfferCommand) (ActivateOfferResponse, error) {
	if cmd.UserID == "" {
		return ActivateOfferResponse{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidUser)
	}

	existing, err := r.transactions.FindCompletedOffer(ctx, cmd.UserID, cmd.PartnerID, cmd.OfferType)
	if err == nil {
		r.logger.Debug("Offer already activated, replaying",
			zap.String("userID", cmd.UserID),
			zap.String("partnerID", cmd.PartnerID),
			zap.String("offerType", cmd.OfferType),
			zap.Int64("transactionID", existing.ID))

		r.metrics.RecordOfferActivation(cmd.OfferType, "replayed")
		return r.replay(ctx, *existing)
	}

	if !errors.Is(err, repository.ErrTransactionNotFound) {
		r.logger.Error("Failed to look up offer activation",
			zap.Error(err),
			zap.String("userID", cmd.UserID),
			zap.String("partnerID", cmd.PartnerID))

		return ActivateOfferResponse{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	// Replays above are served from the stored metadata, so an offer later
	// removed from the catalog still returns its promo code.
	offer, ok := r.catalog.Offer(cmd.PartnerID, catalog.OfferType(cmd.OfferType))
	if !ok {
		r.metrics.RecordOfferActivation(cmd.OfferType, "unknown_offer")
		return ActivateOfferResponse{}, NewServiceError(constants.ErrCodeUnknownOffer, ErrUnknownOffer)
	}

	metadata := model.PartnerOfferMetadata{
		PartnerID: offer.PartnerID,
		OfferType: string(offer.Type),
		PromoCode: offer.PromoCode,
	}
	if offer.JustificationRequired {
		metadata.JustificationType = string(offer.JustificationType)
	}

	result, err := r.ledger.ApplyDelta(ctx, ApplyDeltaCommand{
		UserID:         cmd.UserID,
		Delta:          -offer.GemsCost,
		Type:           model.TxTypePartnerOffer,
		Description:    fmt.Sprintf("Activated %s offer from %s", offer.Type, offer.PartnerName),
		Metadata:       metadata,
		PartnerID:      offer.PartnerID,
		OfferType:      string(offer.Type),
		IdempotencyKey: OfferIdempotencyKey(cmd.UserID, offer.PartnerID, string(offer.Type)),
		Within: func(ctx context.Context, tx model.Transaction) error {
			if !offer.JustificationRequired {
				return nil
			}
			return r.justifications.CreateIfMissing(ctx, newPendingJustification(tx, metadata.JustificationType))
		},
	})
	if err != nil {
		outcome := "failed"
		if errors.Is(err, ErrInsufficientBalance) {
			outcome = "insufficient_balance"
		}
		r.metrics.RecordOfferActivation(cmd.OfferType, outcome)
		return ActivateOfferResponse{}, err
	}

	if result.Replayed {
		r.metrics.RecordOfferActivation(cmd.OfferType, "replayed")
		return r.replay(ctx, result.Transaction)
	}

	r.metrics.RecordOfferActivation(cmd.OfferType, "activated")

	response := ActivateOfferResponse{
		Transaction: newTransactionView(result.Transaction),
		PromoCode:   offer.PromoCode,
	}

	if !offer.JustificationRequired {
		return response, nil
	}

	justification, err := r.issue(ctx, result.Transaction, metadata)
	if err != nil {
		r.logger.Warn("Offer activated but justification is pending",
			zap.Error(err),
			zap.String("userID", cmd.UserID),
			zap.String("partnerID", cmd.PartnerID),
			zap.Int64("transactionID", result.Transaction.ID))
	}
	response.Justification = justification

	return response, nil
}

func (r *redemption) replay(ctx context.Context, tx model.Transaction) (ActivateOfferResponse, error) {
	var metadata model.PartnerOfferMetadata
	if err := tx.DecodeMetadata(&metadata); err != nil {
		r.logger.Error("Corrupt partner offer metadata", zap.Error(err), zap.Int64("transactionID", tx.ID))
		return ActivateOfferResponse{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	response := ActivateOfferResponse{
		Transaction:      newTransactionView(tx),
		PromoCode:        metadata.PromoCode,
		AlreadyActivated: true,
	}

	if metadata.JustificationType == "" {
		return response, nil
	}

	j, err := r.justifications.GetByTransactionID(ctx, tx.ID)
	switch {
	case err == nil:
		response.Justification = newJustificationView(*j)
	case errors.Is(err, repository.ErrJustificationNotFound):
		response.Justification = &JustificationView{
			Status: string(model.JustificationStatusPending),
			Type:   metadata.JustificationType,
		}
	default:
		r.logger.Warn("Failed to load justification for replay", zap.Error(err), zap.Int64("transactionID", tx.ID))
	}

	return response, nil
}

// RegenerateJustification re-derives the proof artifact from the completed
// activation. It never touches the ledger.
func (r *redemption) RegenerateJustification(ctx context.Context, cmd RegenerateJustificationCommand) (
	JustificationView, error) {

	tx, err := r.transactions.FindCompletedOffer(ctx, cmd.UserID, cmd.PartnerID, cmd.OfferType)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return JustificationView{}, NewServiceError(constants.ErrCodeNotActivated, ErrNotActivated)
	}

	if err != nil {
		r.logger.Error("Failed to look up offer activation",
			zap.Error(err),
			zap.String("userID", cmd.UserID),
			zap.String("partnerID", cmd.PartnerID))

		return JustificationView{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	var metadata model.PartnerOfferMetadata
	if err := tx.DecodeMetadata(&metadata); err != nil {
		return JustificationView{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if metadata.JustificationType == "" {
		return JustificationView{}, NewServiceError(constants.ErrCodeJustificationUnavailable, ErrJustificationNotRequired)
	}

	if err := r.justifications.CreateIfMissing(ctx, newPendingJustification(*tx, metadata.JustificationType)); err != nil {
		r.logger.Error("Failed to ensure justification row", zap.Error(err), zap.Int64("transactionID", tx.ID))
		return JustificationView{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	view, err := r.issue(ctx, *tx, metadata)
	if err != nil {
		return JustificationView{}, NewServiceError(constants.ErrCodeJustificationUnavailable, err)
	}

	return *view, nil
}

// IssuePendingJustification serves the justification queue. Issuer failures
// are recorded on the row and acknowledged; only storage failures requeue.
func (r *redemption) IssuePendingJustification(ctx context.Context, cmd IssueJustificationCommand) error {
	j, err := r.justifications.GetByTransactionID(ctx, cmd.TransactionID)
	if errors.Is(err, repository.ErrJustificationNotFound) {
		r.logger.Debug("Justification not processable", zap.Int64("transactionID", cmd.TransactionID))
		return nil
	}

	if err != nil {
		return mq.Temporary(err)
	}

	if j.Issued() {
		r.logger.Debug("Justification already issued", zap.Int64("transactionID", cmd.TransactionID))
		return nil
	}

	if j.Attempts >= maxJustificationAttempts {
		r.logger.Error("Justification exceeded max attempts - manual intervention required",
			zap.Int64("transactionID", cmd.TransactionID),
			zap.String("userID", j.UserID),
			zap.Int("attempts", j.Attempts))

		if err := r.justifications.RecordFailure(ctx, cmd.TransactionID, "exceeded max attempts", false); err != nil &&
			!errors.Is(err, repository.ErrJustificationNotFound) {
			return mq.Temporary(err)
		}

		return nil
	}

	tx, err := r.transactions.GetByID(ctx, cmd.TransactionID)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		r.logger.Warn("Justification without transaction", zap.Int64("transactionID", cmd.TransactionID))
		return nil
	}

	if err != nil {
		return mq.Temporary(err)
	}

	if tx.Status != model.TxStatusCompleted || tx.Type != model.TxTypePartnerOffer {
		r.logger.Warn("Justification for a non-activated transaction",
			zap.Int64("transactionID", tx.ID),
			zap.String("status", string(tx.Status)))
		return nil
	}

	var metadata model.PartnerOfferMetadata
	if err := tx.DecodeMetadata(&metadata); err != nil {
		r.logger.Error("Corrupt partner offer metadata", zap.Error(err), zap.Int64("transactionID", tx.ID))
		return nil
	}
	if metadata.JustificationType == "" {
		metadata.JustificationType = j.Type
	}

	if _, err := r.issue(ctx, *tx, metadata); err != nil {
		if errors.Is(err, ErrDatabase) {
			return mq.Temporary(err)
		}

		r.logger.Debug("Justification still pending, left for the next publish",
			zap.Int64("transactionID", tx.ID),
			zap.Int("attempts", j.Attempts+1),
			zap.Error(err))
	}

	return nil
}

// issue calls the Proof Issuer and records the outcome on the justification
// row. On issuer failure the returned view is pending and the error wraps
// ErrJustificationUnavailable; storage failures wrap ErrDatabase.
func (r *redemption) issue(ctx context.Context, tx model.Transaction, metadata model.PartnerOfferMetadata) (
	*JustificationView, error) {

	ctx, span := r.tracer.Start(ctx, "redemption.IssueJustification", trace.WithAttributes(
		attribute.Int64("gems.transaction_id", tx.ID),
		attribute.String("gems.partner_id", metadata.PartnerID),
		attribute.String("gems.justification_type", metadata.JustificationType),
	))
	defer span.End()

	request := proofissuer.IssueRequest{
		TransactionID:     tx.ID,
		UserID:            tx.UserID,
		PartnerID:         metadata.PartnerID,
		OfferType:         metadata.OfferType,
		JustificationType: metadata.JustificationType,
		PromoCode:         metadata.PromoCode,
	}

	pending := &JustificationView{Status: string(model.JustificationStatusPending), Type: metadata.JustificationType}

	var lastErr error
	for attempt := 1; attempt <= r.maxRetry; attempt++ {
		resp, err := r.issueOnce(ctx, request)
		if err == nil {
			if err := r.justifications.MarkIssued(ctx, tx.ID, resp.Result.Reference, resp.Result.URL); err != nil {
				r.logger.Error("Justification issued but not stored",
					zap.Error(err),
					zap.Int64("transactionID", tx.ID),
					zap.String("reference", resp.Result.Reference))

				span.RecordError(err)
				return pending, errors.Join(ErrDatabase, err)
			}

			r.logger.Info("Justification issued",
				zap.Int64("transactionID", tx.ID),
				zap.String("userID", tx.UserID),
				zap.String("reference", resp.Result.Reference),
				zap.Int("attempt", attempt))

			r.metrics.RecordJustificationIssuance("issued")
			return &JustificationView{
				Status:    string(model.JustificationStatusIssued),
				Type:      metadata.JustificationType,
				Reference: resp.Result.Reference,
				URL:       resp.Result.URL,
			}, nil
		}

		lastErr = err
		if !proofissuer.IsRetryable(err) || ctx.Err() != nil {
			break
		}

		r.logger.Warn("Proof issuer attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int64("transactionID", tx.ID))
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	r.metrics.RecordJustificationIssuance("pending")

	republish := proofissuer.IsRetryable(lastErr)
	err := r.justifications.RecordFailure(context.WithoutCancel(ctx), tx.ID, lastErr.Error(), republish)
	if err != nil && !errors.Is(err, repository.ErrJustificationNotFound) {
		r.logger.Error("Failed to record justification failure", zap.Error(err), zap.Int64("transactionID", tx.ID))
		return pending, errors.Join(ErrDatabase, err)
	}

	return pending, fmt.Errorf("%w: %w", ErrJustificationUnavailable, lastErr)
}

func (r *redemption) issueOnce(ctx context.Context, request proofissuer.IssueRequest) (
	proofissuer.IssueResponse, error) {

	if r.issueTimeout <= 0 {
		return r.issuer.Issue(ctx, request)
	}

	ctx, cancel := context.WithTimeout(ctx, r.issueTimeout)
	defer cancel()

	return r.issuer.Issue(ctx, request)
}

// ActivatedOffers is the server truth for reconciliation.
func (r *redemption) ActivatedOffers(ctx context.Context, userID string) ([]OfferKey, error) {
	txs, err := r.transactions.ListCompletedOffers(ctx, userID)
	if err != nil {
		r.logger.Error("Failed to list activated offers", zap.Error(err), zap.String("userID", userID))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	keys := make([]OfferKey, 0, len(txs))
	for _, tx := range txs {
		keys = append(keys, OfferKey{PartnerID: tx.PartnerID, OfferType: tx.OfferType})
	}

	return Reconcile(keys, nil), nil
}

func newPendingJustification(tx model.Transaction, justificationType string) *model.Justification {
	return &model.Justification{
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		PartnerID:     tx.PartnerID,
		OfferType:     tx.OfferType,
		Type:          justificationType,
		Status:        model.JustificationStatusPending,
	}
}

func sortOfferKeys(keys []OfferKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PartnerID != keys[j].PartnerID {
			return keys[i].PartnerID < keys[j].PartnerID
		}
		return keys[i].OfferType < keys[j].OfferType
	})
}
