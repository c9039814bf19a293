package consumers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/pkg/mq"
	"go.uber.org/zap"
)

type JustificationConsumer interface {
	Consume(ctx context.Context) error
}

type justificationConsumer struct {
	service  service.RedemptionService
	consumer mq.Consumer
	queue    string
	prefetch int
	logger   *zap.Logger
}

func NewJustificationConsumer(service service.RedemptionService, consumer mq.Consumer, queue string, prefetch int,
	logger *zap.Logger) JustificationConsumer {

	return &justificationConsumer{
		service:  service,
		consumer: consumer,
		queue:    queue,
		prefetch: prefetch,
		logger:   logger,
	}
}

func (j *justificationConsumer) Consume(ctx context.Context) error {
	return j.consumer.Consume(ctx, j.prefetch, j.queue, j.handleMessage)
}

func (j *justificationConsumer) handleMessage(ctx context.Context, body []byte) error {
	j.logger.Info("received justification command", zap.ByteString("body", body))

	var cmd service.IssueJustificationCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		j.logger.Warn("invalid justification command", zap.Error(err))
		return err
	}

	return j.service.IssuePendingJustification(ctx, cmd)
}
