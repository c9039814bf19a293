package service

import (
	"context"
	"fmt"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPointsPerGem = 100

type ConversionService interface {
	Convert(ctx context.Context, cmd ConvertCommand) (ConvertResponse, error)
}

type conversion struct {
	ledger        LedgerService
	points        PointsService
	pointsPerGem  int64
	minimumPoints int64
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewConversionService(ledger LedgerService, points PointsService, config *config.Config,
	metrics *metrics.Metrics, logger *zap.Logger) ConversionService {

	pointsPerGem := config.Conversion.PointsPerGem
	if pointsPerGem <= 0 {
		pointsPerGem = defaultPointsPerGem
	}

	return &conversion{
		ledger:        ledger,
		points:        points,
		pointsPerGem:  pointsPerGem,
		minimumPoints: config.Conversion.MinimumPoints,
		metrics:       metrics,
		logger:        logger,
	}
}

// Convert turns whole blocks of points into gems. Only gemsEarned*pointsPerGem
// points leave the external ledger; the remainder stays there.
func (c *conversion) Convert(ctx context.Context, cmd ConvertCommand) (ConvertResponse, error) {
	if cmd.UserID == "" {
		return ConvertResponse{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidUser)
	}

	if cmd.Points < c.minimumPoints || cmd.Points < c.pointsPerGem {
		c.metrics.RecordConversion("invalid_amount")
		return ConvertResponse{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	requestKey := cmd.IdempotencyKey
	if requestKey == "" {
		requestKey = uuid.NewString()
	}
	idempotencyKey := fmt.Sprintf("convert-%s-%s", cmd.UserID, requestKey)

	if cmd.IdempotencyKey != "" {
		tx, found, err := c.ledger.Replay(ctx, idempotencyKey)
		if err != nil {
			return ConvertResponse{}, err
		}

		if found {
			c.logger.Debug("Conversion replayed",
				zap.String("userID", cmd.UserID),
				zap.String("idempotencyKey", idempotencyKey))

			c.metrics.RecordConversion("replayed")
			return newConvertResponse(tx, true), nil
		}
	}

	available, err := c.points.Balance(ctx, cmd.UserID)
	if err != nil {
		c.metrics.RecordConversion("points_error")
		return ConvertResponse{}, err
	}

	if cmd.Points > available {
		c.logger.Warn("Conversion rejected for insufficient points",
			zap.String("userID", cmd.UserID),
			zap.Int64("points", cmd.Points),
			zap.Int64("available", available))

		c.metrics.RecordConversion("insufficient_points")
		return ConvertResponse{}, NewServiceError(constants.ErrCodeInsufficientPoints, ErrInsufficientPoints)
	}

	gemsEarned := cmd.Points / c.pointsPerGem
	metadata := model.ConversionMetadata{
		PointsRequested: cmd.Points,
		PointsDebited:   gemsEarned * c.pointsPerGem,
		PointsRemainder: cmd.Points % c.pointsPerGem,
		IdempotencyKey:  idempotencyKey,
	}

	debit := MovePointsCommand{
		UserID:         cmd.UserID,
		Points:         metadata.PointsDebited,
		IdempotencyKey: idempotencyKey,
		Reason:         "gem conversion",
	}

	pointsTxID, err := c.points.Debit(ctx, debit)
	if err != nil {
		c.logger.Debug("Conversion aborted due to points debit failure",
			zap.String("userID", cmd.UserID),
			zap.Error(err))

		c.metrics.RecordConversion("points_error")
		return ConvertResponse{}, err
	}
	metadata.PointsTxID = pointsTxID

	result, err := c.ledger.ApplyDelta(ctx, ApplyDeltaCommand{
		UserID:         cmd.UserID,
		Delta:          gemsEarned,
		Type:           model.TxTypeConversion,
		Description:    fmt.Sprintf("Converted %d points into %d gems", metadata.PointsDebited, gemsEarned),
		Metadata:       metadata,
		IdempotencyKey: idempotencyKey,
	})
	if err == nil {
		c.metrics.RecordConversion("completed")
		return newConvertResponse(result.Transaction, result.Replayed), nil
	}

	c.logger.Error("Critical: points debited but gem credit failed, initiating refund",
		zap.Error(err),
		zap.String("userID", cmd.UserID),
		zap.String("idempotencyKey", idempotencyKey))

	refund := MovePointsCommand{
		UserID:         cmd.UserID,
		Points:         metadata.PointsDebited,
		IdempotencyKey: "refund-" + idempotencyKey,
		Reason:         "gem conversion refund",
	}

	if _, refundErr := c.points.Credit(context.WithoutCancel(ctx), refund); refundErr != nil {
		c.logger.Error("CRITICAL: points debited without gems credited - manual intervention required",
			zap.Error(refundErr),
			zap.String("userID", cmd.UserID),
			zap.Int64("points", metadata.PointsDebited),
			zap.String("idempotencyKey", idempotencyKey))
	} else {
		c.logger.Warn("Points refunded after ledger failure",
			zap.String("userID", cmd.UserID),
			zap.String("idempotencyKey", idempotencyKey))
	}

	c.metrics.RecordConversion("failed")
	return ConvertResponse{}, err
}

func newConvertResponse(tx model.Transaction, replayed bool) ConvertResponse {
	var metadata model.ConversionMetadata
	_ = tx.DecodeMetadata(&metadata)

	return ConvertResponse{
		GemsEarned:      tx.GemsDelta,
		PointsDebited:   metadata.PointsDebited,
		PointsRemainder: metadata.PointsRemainder,
		Transaction:     newTransactionView(tx),
		Replayed:        replayed,
	}
}
