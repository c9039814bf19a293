package api

import (
	v1 "github.com/Behyna/gem-services/internal/api/v1"
	"github.com/Behyna/gem-services/internal/api/middleware"
	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const prefixV1 = "api/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	gatherer prometheus.Gatherer, logger *zap.Logger) {

	app.Use(middleware.RequestID())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	app.Use(metrics.HealthCheckMiddleware(cfg.Tracing.ServiceName))

	app.Get("/ping", handler.Pong)
	app.Get("/metrics", metrics.Handler(gatherer))

	app.Get(prefixV1+"catalog", handler.GetCatalog)

	user := app.Group(prefixV1, middleware.Auth(cfg.Auth, logger))
	user.Get("balance", handler.GetBalance)
	user.Get("history", handler.GetHistory)
	user.Post("convert", handler.Convert)
	user.Post("purchase", handler.Purchase)
	user.Get("owned-items", handler.GetOwnedItems)
	user.Post("offers/activate", handler.ActivateOffer)
	user.Post("offers/justification", handler.RegenerateJustification)
	user.Get("offers/activated", handler.GetActivatedOffers)
	user.Post("offers/reconcile", handler.ReconcileOffers)

	admin := user.Group("admin", middleware.RequireRole(cfg.Auth.AdminRole))
	admin.Post("adjust", handler.AdjustBalance)
	admin.Get("accounts/:userID/audit", handler.Audit)
}
