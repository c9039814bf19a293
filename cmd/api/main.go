package main

import (
	"context"

	"github.com/Behyna/gem-services/internal/api"
	v1 "github.com/Behyna/gem-services/internal/api/v1"
	"github.com/Behyna/gem-services/internal/api/validator"
	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/Behyna/gem-services/internal/config"
	apierrors "github.com/Behyna/gem-services/internal/errors"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/repository"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/Behyna/gem-services/internal/tracing"
	"github.com/Behyna/gem-services/pkg/httpclient"
	"github.com/Behyna/gem-services/pkg/mysql"
	"github.com/Behyna/gem-services/pkg/pointsledger"
	"github.com/Behyna/gem-services/pkg/proofissuer"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewRegistry,
			NewMetrics,
			NewTracingProvider,
			NewTracer,
			NewIDGenerator,
			NewCatalog,
			NewPointsClient,
			NewProofIssuer,
			NewValidator,
			NewFiber,
			NewSystemCollector,
			NewDatabaseCollector,

			repository.NewTransactionManager,
			repository.NewAccountRepository,
			repository.NewTransactionRepository,
			repository.NewJustificationRepository,
			repository.NewSelectionRepository,
			repository.NewOwnedItemRepository,
			repository.NewAccountLocker,

			service.NewLedgerService,
			service.NewPointsService,
			service.NewConversionService,
			service.NewPurchaseService,
			service.NewAccountService,
			service.NewCatalogService,
			service.NewRedemptionService,
			service.NewReconciliationService,
			service.NewAdminService,

			v1.NewHandler,
		),
		fx.Invoke(startCollectors, startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	registry *prometheus.Registry, database *metrics.DatabaseMetricsCollector, tracer *tracing.Provider,
	logger *zap.Logger, lc fx.Lifecycle) {

	api.SetupRoutes(app, handler, cfg, m, registry, logger)
	app.Get("/ready", metrics.ReadinessHandler(database.HealthCheck))
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			logger.Info("gem api started", zap.String("port", cfg.API.Port), zap.String("version", version))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return tracer.Shutdown(ctx)
		},
	})
}

func startCollectors(cfg *config.Config, system *metrics.SystemCollector, database *metrics.DatabaseMetricsCollector,
	lc fx.Lifecycle) {

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			system.Start(cfg.Metrics.SystemInterval)
			database.Start(cfg.Metrics.DatabaseInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			database.Stop()
			system.Stop()
			return nil
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	db, err := mysql.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(db); err != nil {
		logger.Error("schema migration failed", zap.Error(err))
		return nil, err
	}

	return db, nil
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}

func NewSystemCollector(m *metrics.Metrics, logger *zap.Logger) *metrics.SystemCollector {
	return metrics.NewSystemCollector(m, logger, version)
}

func NewDatabaseCollector(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB, accounts repository.AccountRepository,
	justifications repository.JustificationRepository) *metrics.DatabaseMetricsCollector {

	return metrics.NewDatabaseMetricsCollector(m, logger, db, accounts, justifications)
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

func NewPointsClient(cfg *config.Config) pointsledger.Client {
	client := httpclient.NewHTTPClient(cfg.PointsLedger.Timeout, apiKeyHeaders(cfg.PointsLedger.APIKey))
	return pointsledger.NewClient(cfg.PointsLedger, client)
}

func NewProofIssuer(cfg *config.Config) proofissuer.Issuer {
	client := httpclient.NewHTTPClient(cfg.ProofIssuer.Timeout, apiKeyHeaders(cfg.ProofIssuer.APIKey))
	return proofissuer.NewIssuer(cfg.ProofIssuer, client)
}

func apiKeyHeaders(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{httpclient.HeaderAPIKey: key}
}

func NewValidator(m *metrics.Metrics) validator.IXValidator {
	return validator.NewXValidator(playground.New(), m)
}

func NewFiber(cfg *config.Config, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.Tracing.ServiceName,
		ReadTimeout:  cfg.API.ReadTimeout,
		BodyLimit:    cfg.API.BodyLimit,
		ErrorHandler: apierrors.ErrorHandler(logger),
	})
}
