package service

import (
	"context"
	"errors"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/pkg/pointsledger"
	"go.uber.org/zap"
)

const (
	pointsOpBalance = "balance"
	pointsOpDebit   = "debit"
	pointsOpCredit  = "credit"
)

// PointsService wraps the external points ledger with retries and maps its
// failures to service errors.
type PointsService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Debit(ctx context.Context, cmd MovePointsCommand) (int64, error)
	Credit(ctx context.Context, cmd MovePointsCommand) (int64, error)
}

type Points struct {
	client   pointsledger.Client
	enabled  bool
	maxRetry int
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewPointsService(client pointsledger.Client, config *config.Config, metrics *metrics.Metrics,
	logger *zap.Logger) PointsService {

	maxRetry := config.PointsLedger.MaxRetries
	if maxRetry < 1 {
		maxRetry = 1
	}

	return &Points{
		client:   client,
		enabled:  config.PointsLedger.Enable,
		maxRetry: maxRetry,
		metrics:  metrics,
		logger:   logger,
	}
}

func (p *Points) Balance(ctx context.Context, userID string) (int64, error) {
	if !p.enabled {
		return 0, NewServiceError(constants.ErrCodePointsServiceError, ErrPointsDisabled)
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetry; attempt++ {
		resp, err := p.client.Balance(ctx, userID)
		if err == nil {
			return resp.Result.Points, nil
		}

		p.metrics.RecordPointsClientError(pointsOpBalance, pointsErrorType(err))

		if errors.Is(err, pointsledger.ErrUserNotFound) {
			p.logger.Warn("User unknown to points ledger",
				zap.Error(err),
				zap.String("userID", userID))

			return 0, nil
		}

		lastErr = err
		if !pointsledger.IsRetryable(err) || ctx.Err() != nil {
			break
		}

		p.logger.Warn("Points balance attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("userID", userID))
	}

	p.logger.Error("Points ledger unavailable for balance read",
		zap.Error(lastErr),
		zap.Int("maxRetries", p.maxRetry),
		zap.String("userID", userID))

	return 0, NewServiceError(constants.ErrCodePointsServiceError, lastErr)
}

func (p *Points) Debit(ctx context.Context, cmd MovePointsCommand) (int64, error) {
	return p.move(ctx, pointsOpDebit, p.client.Debit, cmd)
}

func (p *Points) Credit(ctx context.Context, cmd MovePointsCommand) (int64, error) {
	return p.move(ctx, pointsOpCredit, p.client.Credit, cmd)
}

type moveFunc func(ctx context.Context, request pointsledger.MovePointsRequest) (pointsledger.MoveResponse, error)

// move retries with the same idempotency key, so a repeated attempt can never
// move the points twice.
func (p *Points) move(ctx context.Context, operation string, call moveFunc, cmd MovePointsCommand) (int64, error) {
	if !p.enabled {
		return 0, NewServiceError(constants.ErrCodePointsServiceError, ErrPointsDisabled)
	}

	request := pointsledger.MovePointsRequest{
		UserID:         cmd.UserID,
		Points:         cmd.Points,
		IdempotencyKey: cmd.IdempotencyKey,
		Reason:         cmd.Reason,
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetry; attempt++ {
		resp, err := call(ctx, request)
		if err == nil {
			p.logger.Info("Points moved successfully",
				zap.String("operation", operation),
				zap.String("userID", cmd.UserID),
				zap.Int64("points", cmd.Points),
				zap.Int("attempt", attempt),
				zap.String("idempotencyKey", cmd.IdempotencyKey),
				zap.Int64("transactionID", resp.Result.TransactionID))

			return resp.Result.TransactionID, nil
		}

		p.metrics.RecordPointsClientError(operation, pointsErrorType(err))

		if errors.Is(err, pointsledger.ErrUserNotFound) || errors.Is(err, pointsledger.ErrInsufficientPoints) {
			p.logger.Warn("Non-retryable error encountered",
				zap.Error(err),
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.String("userID", cmd.UserID))

			return 0, NewServiceError(constants.ErrCodeInsufficientPoints, errors.Join(ErrInsufficientPoints, err))
		}

		lastErr = err
		if !pointsledger.IsRetryable(err) || ctx.Err() != nil {
			break
		}

		p.logger.Warn("Points move attempt failed",
			zap.Error(err),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.String("userID", cmd.UserID))
	}

	if errors.Is(lastErr, pointsledger.ErrTimeout) {
		p.logger.Error("Points move attempts timed out",
			zap.Error(lastErr),
			zap.String("operation", operation),
			zap.Int("maxRetries", p.maxRetry),
			zap.String("userID", cmd.UserID))

		return 0, NewServiceError(constants.ErrCodePointsServiceError, lastErr)
	}

	p.logger.Error("Points ledger unavailable after all retries",
		zap.Error(lastErr),
		zap.String("operation", operation),
		zap.Int("maxRetries", p.maxRetry),
		zap.String("userID", cmd.UserID))

	return 0, NewServiceError(constants.ErrCodePointsServiceError, lastErr)
}

func pointsErrorType(err error) string {
	for _, known := range []error{
		pointsledger.ErrUserNotFound,
		pointsledger.ErrInsufficientPoints,
		pointsledger.ErrValidationFailed,
		pointsledger.ErrTimeout,
		pointsledger.ErrServerError,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "transport"
}
