package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Behyna/gem-services/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slowQueryThreshold = 100 * time.Millisecond

// DatabaseMetricsCollector samples connection pool and ledger table gauges.
type DatabaseMetricsCollector struct {
	metrics        *Metrics
	logger         *zap.Logger
	sqlDB          *sql.DB
	accounts       repository.AccountRepository
	justifications repository.JustificationRepository
	ticker         *time.Ticker
	stopCh         chan struct{}
}

func NewDatabaseMetricsCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB,
	accounts repository.AccountRepository, justifications repository.JustificationRepository) *DatabaseMetricsCollector {

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get sql.DB from gorm.DB", zap.Error(err))
		metrics.RecordDBConnectionError()
	}

	return &DatabaseMetricsCollector{
		metrics:        metrics,
		logger:         logger,
		sqlDB:          sqlDB,
		accounts:       accounts,
		justifications: justifications,
		stopCh:         make(chan struct{}),
	}
}

func (dmc *DatabaseMetricsCollector) Start(interval time.Duration) {
	if dmc.sqlDB == nil {
		dmc.logger.Warn("Cannot start database metrics collector: sqlDB is nil")
		return
	}

	dmc.ticker = time.NewTicker(interval)
	go dmc.collectLoop()
	dmc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dmc *DatabaseMetricsCollector) Stop() {
	if dmc.ticker != nil {
		dmc.ticker.Stop()
	}
	close(dmc.stopCh)
	dmc.logger.Info("Database metrics collector stopped")
}

func (dmc *DatabaseMetricsCollector) collectLoop() {
	dmc.collect()

	for {
		select {
		case <-dmc.ticker.C:
			dmc.collect()
		case <-dmc.stopCh:
			return
		}
	}
}

func (dmc *DatabaseMetricsCollector) collect() {
	if dmc.sqlDB == nil {
		return
	}

	stats := dmc.sqlDB.Stats()
	dmc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dmc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = dmc.WithMetrics("count", "gem_accounts", func() error {
		count, err := dmc.accounts.Count(ctx)
		if err == nil {
			dmc.metrics.Accounts.Set(float64(count))
		}
		return err
	})

	_ = dmc.WithMetrics("count", "justifications", func() error {
		pending, err := dmc.justifications.CountPending(ctx)
		if err == nil {
			dmc.metrics.PendingJustifications.Set(float64(pending))
		}
		return err
	})

	dmc.logger.Debug("Database connection stats",
		zap.Int("openConnections", stats.OpenConnections),
		zap.Int("inUse", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int64("waitCount", stats.WaitCount),
		zap.Duration("waitDuration", stats.WaitDuration),
	)
}

// WithMetrics wraps a database operation with timing metrics
func (dmc *DatabaseMetricsCollector) WithMetrics(operation, table string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = "not_found"
		}
	}

	dmc.metrics.RecordDBQuery(operation, table, status, duration)

	if duration > slowQueryThreshold {
		dmc.logger.Warn("Slow database query",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.String("status", status),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}

	return err
}

// HealthCheck pings the database.
func (dmc *DatabaseMetricsCollector) HealthCheck(ctx context.Context) error {
	if dmc.sqlDB == nil {
		dmc.metrics.RecordDBConnectionError()
		return sql.ErrConnDone
	}

	return dmc.WithMetrics("ping", "health_check", func() error {
		return dmc.sqlDB.PingContext(ctx)
	})
}
