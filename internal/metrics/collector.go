package metrics

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// SystemCollector samples runtime statistics on a ticker.
type SystemCollector struct {
	metrics   *Metrics
	logger    *zap.Logger
	startTime time.Time
	ticker    *time.Ticker
	stopCh    chan struct{}
	version   string
}

func NewSystemCollector(metrics *Metrics, logger *zap.Logger, version string) *SystemCollector {
	return &SystemCollector{
		metrics:   metrics,
		logger:    logger,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
		version:   version,
	}
}

func (sc *SystemCollector) Start(interval time.Duration) {
	sc.ticker = time.NewTicker(interval)
	sc.metrics.SetServiceVersion(sc.version, "unknown", sc.startTime.Format("2006-01-02"))

	go sc.collectLoop()
	sc.logger.Info("System metrics collector started", zap.Duration("interval", interval))
}

func (sc *SystemCollector) Stop() {
	if sc.ticker != nil {
		sc.ticker.Stop()
	}
	close(sc.stopCh)
	sc.logger.Info("System metrics collector stopped")
}

func (sc *SystemCollector) collectLoop() {
	sc.collect()

	for {
		select {
		case <-sc.ticker.C:
			sc.collect()
		case <-sc.stopCh:
			return
		}
	}
}

func (sc *SystemCollector) collect() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptime := time.Since(sc.startTime)
	sc.metrics.UpdateSystemMetrics(uptime, &memStats)

	sc.logger.Debug("System metrics snapshot",
		zap.Duration("uptime", uptime),
		zap.Int("goroutines", runtime.NumGoroutine()),
		zap.Uint64("allocMB", memStats.Alloc/1024/1024),
		zap.Uint32("gcCount", memStats.NumGC),
	)
}
