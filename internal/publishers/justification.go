package publishers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/pkg/mq"
	"go.uber.org/zap"
)

type JustificationPublisher interface {
	Publish(ctx context.Context) error
}

type justificationPublisher struct {
	service   service.JustificationQueueService
	publisher mq.Publisher
	queue     string
	batchSize int
	logger    *zap.Logger
}

func NewJustificationPublisher(service service.JustificationQueueService, publisher mq.Publisher, queue string,
	batchSize int, logger *zap.Logger) JustificationPublisher {

	if batchSize <= 0 {
		batchSize = 100
	}

	return &justificationPublisher{
		service:   service,
		publisher: publisher,
		queue:     queue,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Publish pushes one batch of pending justifications. A row is only marked
// published after the broker accepted it, so a failed publish is retried on
// the next tick.
func (j *justificationPublisher) Publish(ctx context.Context) error {
	commands, err := j.service.FindJustificationsToQueue(ctx, j.batchSize)
	if err != nil {
		return err
	}

	if len(commands) == 0 {
		return nil
	}

	j.logger.Info("Publishing justifications", zap.Int("count", len(commands)))

	successCount := 0
	for _, cmd := range commands {
		body, err := json.Marshal(cmd)
		if err != nil {
			j.logger.Error("Failed to encode justification", zap.Error(err), zap.Int64("transactionID", cmd.TransactionID))
			continue
		}

		messageID := strconv.FormatInt(cmd.TransactionID, 10)
		if err := j.publisher.Publish(ctx, "", j.queue, messageID, body); err != nil {
			j.logger.Error("Failed to publish justification",
				zap.Error(err),
				zap.Int64("transactionID", cmd.TransactionID))
			continue
		}

		if err := j.service.MarkJustificationAsQueued(ctx, cmd.TransactionID, cmd.Attempts); err != nil {
			continue
		}

		successCount++
	}

	if successCount > 0 {
		j.logger.Info("Successfully published justifications",
			zap.Int("published", successCount),
			zap.Int("total", len(commands)))
	}

	return nil
}
