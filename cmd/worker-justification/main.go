package main

import (
	"context"

	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/consumers"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/internal/tracing"
	"github.com/Behyna/gem-services/pkg/httpclient"
	"github.com/Behyna/gem-services/pkg/mq"
	"github.com/Behyna/gem-services/pkg/mysql"
	"github.com/Behyna/gem-services/pkg/proofissuer"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
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
			NewMQConsumer,
			NewRegistry,
			NewMetrics,
			NewTracingProvider,
			NewTracer,
			NewIDGenerator,
			NewCatalog,
			NewProofIssuer,

			repository.NewTransactionManager,
			repository.NewAccountRepository,
			repository.NewTransactionRepository,
			repository.NewJustificationRepository,
			repository.NewAccountLocker,

			service.NewLedgerService,
			service.NewRedemptionService,

			NewJustificationConsumer,
		),
		fx.Invoke(serveMetrics, runJustificationConsumer),
	).Run()
}

func runJustificationConsumer(cfg *config.Config, consumer consumers.JustificationConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, tracer *tracing.Provider, lc fx.Lifecycle) {

	queue := cfg.Justification.Queue
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", queue))

			go func() {
				if err := consumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("justification consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping justification consumer")
			cancel()
			if err := tracer.Shutdown(ctx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
			return rabbit.Close()
		},
	})
}

func NewJustificationConsumer(cfg *config.Config, redemption service.RedemptionService, consumer mq.Consumer,
	logger *zap.Logger) consumers.JustificationConsumer {

	return consumers.NewJustificationConsumer(redemption, consumer, cfg.Justification.Queue, cfg.RabbitMQ.Prefetch, logger)
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}

func serveMetrics(cfg *config.Config, registry *prometheus.Registry, logger *zap.Logger, lc fx.Lifecycle) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics.Handler(registry))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.Metrics.Port); err != nil {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			logger.Info("metrics server started", zap.String("port", cfg.Metrics.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewTracingProvider(cfg *config.Config, logger *zap.Logger) (*tracing.Provider, error) {
	return tracing.NewProvider(cfg.Tracing, logger)
}

func NewTracer(provider *tracing.Provider) trace.Tracer {
	return provider.Tracer()
}

func NewIDGenerator(cfg *config.Config) (repository.IDGenerator, error) {
	return repository.NewIDGenerator(cfg.Ledger.NodeID)
}

func NewCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	return catalog.New(cfg.Catalog)
}

func NewProofIssuer(cfg *config.Config) proofissuer.Issuer {
	var headers map[string]string
	if cfg.ProofIssuer.APIKey != "" {
		headers = map[string]string{httpclient.HeaderAPIKey: cfg.ProofIssuer.APIKey}
	}
	return proofissuer.NewIssuer(cfg.ProofIssuer, httpclient.NewHTTPClient(cfg.ProofIssuer.Timeout, headers))
}
