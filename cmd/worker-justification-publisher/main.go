package main

import (
	"context"
	"time"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/publishers"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/pkg/mq"
	"github.com/Behyna/gem-services/pkg/mysql"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,

			repository.NewJustificationRepository,

			service.NewJustificationQueueService,

			NewJustificationPublisher,
		),
		fx.Invoke(runJustificationPublisher),
	).Run()
}

func runJustificationPublisher(cfg *config.Config, publisher publishers.JustificationPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {

	queue := cfg.Justification.Queue
	interval := cfg.Justification.PublishInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", queue))

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish justifications", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("justification publisher started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping justification publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewJustificationPublisher(cfg *config.Config, queueService service.JustificationQueueService,
	publisher mq.Publisher, logger *zap.Logger) publishers.JustificationPublisher {

	return publishers.NewJustificationPublisher(queueService, publisher, cfg.Justification.Queue,
		cfg.Justification.BatchSize, logger)
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
