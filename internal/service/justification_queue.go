package service

import (
	"context"
	"errors"

	"github.com/Behyna/gem-services/internal/repository"
	"go.uber.org/zap"
)

// JustificationQueueService feeds the outbox publisher with pending proof artifacts.
type JustificationQueueService interface {
	FindJustificationsToQueue(ctx context.Context, limit int) ([]IssueJustificationCommand, error)
	MarkJustificationAsQueued(ctx context.Context, transactionID int64, attempts int) error
}

type justificationQueue struct {
	justifications repository.JustificationRepository
	logger         *zap.Logger
}

func NewJustificationQueueService(justifications repository.JustificationRepository,
	logger *zap.Logger) JustificationQueueService {

	return &justificationQueue{justifications: justifications, logger: logger}
}

func (q *justificationQueue) FindJustificationsToQueue(ctx context.Context, limit int) (
	[]IssueJustificationCommand, error) {

	q.logger.Debug("Finding justifications to publish", zap.Int("batchSize", limit))

	pending, err := q.justifications.FindUnpublishedPending(ctx, limit)
	if err != nil {
		q.logger.Error("Failed to find unpublished justifications", zap.Error(err))
		return nil, err
	}

	if len(pending) == 0 {
		q.logger.Debug("No justifications found to publish")
		return nil, nil
	}

	commands := make([]IssueJustificationCommand, 0, len(pending))
	for _, j := range pending {
		commands = append(commands, IssueJustificationCommand{
			TransactionID: j.TransactionID,
			UserID:        j.UserID,
			PartnerID:     j.PartnerID,
			OfferType:     j.OfferType,
			Attempts:      j.Attempts,
		})
	}

	return commands, nil
}

func (q *justificationQueue) MarkJustificationAsQueued(ctx context.Context, transactionID int64, attempts int) error {
	err := q.justifications.MarkPublished(ctx, transactionID, attempts)
	if errors.Is(err, repository.ErrJustificationChanged) {
		q.logger.Debug("Justification changed while publishing, leaving it in the outbox",
			zap.Int64("transactionID", transactionID),
			zap.Int("attempts", attempts))
		return nil
	}

	if err != nil {
		q.logger.Error("Failed to mark justification as published",
			zap.Error(err),
			zap.Int64("transactionID", transactionID))
		return err
	}

	q.logger.Debug("Successfully marked justification as published", zap.Int64("transactionID", transactionID))

	return nil
}
