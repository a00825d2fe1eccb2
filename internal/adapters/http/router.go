package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/ewbot/internal/adapters/http/handlers"
	"github.com/jsamuelsen/ewbot/internal/adapters/http/middleware"
	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
)

// quietPaths are polled by probes and scrapers and are logged at trace level.
var quietPaths = []string{"/-/live", "/-/ready", "/-/metrics"}

// RouterConfig contains the ops server's handlers.
type RouterConfig struct {
	Logger *slog.Logger

	// ServiceName names the server span in traces.
	ServiceName string

	HealthHandler *handlers.HealthHandler

	// AdminHandler and AdminToken enable /-/admin. Both are required for the
	// routes to be registered.
	AdminHandler *handlers.AdminHandler
	AdminToken   string
}

// SetupRouter configures middleware and routes on the engine.
// Middleware order:
//  1. Recovery
//  2. Request ID (and request-scoped logger)
//  3. OpenTelemetry
//  4. Logging
//
// Routes live under /-/; /-/admin additionally requires the admin token.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(cfg.Logger),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(quietPaths...))

	ops := engine.Group("/-")

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(ops)
	}

	if cfg.AdminHandler != nil && cfg.AdminToken != "" {
		admin := ops.Group("/admin", middleware.RequireToken(cfg.AdminToken))
		cfg.AdminHandler.RegisterAdminRoutes(admin)
	}
}
