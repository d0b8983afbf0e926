package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/adapters/http/handlers"
	"github.com/ahmedtravel/playbook/internal/adapters/http/middleware"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/platform/telemetry"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// RouterConfig holds what SetupRouter wires. Nil handlers are skipped.
type RouterConfig struct {
	Config *config.Config
	Flags  ports.FeatureFlags

	Health          *handlers.HealthHandler
	Quotes          *handlers.QuoteHandler
	Catalog         *handlers.CatalogHandler
	Playbook        *handlers.PlaybookHandler
	Recommendations *handlers.RecommendationHandler
	Admin           *handlers.AdminHandler
}

// SetupRouter installs middleware and routes. Global middleware, in order:
//  1. Recovery
//  2. RequestID, CorrelationID
//  3. OpenTelemetry tracing and metrics
//  4. Identity (gateway claims, list owner, flag user)
//  5. Logging
//
// /api/v1 adds the rate limiter, when enabled, and the request timeout.
// The /-/ ops routes get neither. The /api/v1 group is returned.
func SetupRouter(engine *gin.Engine, rc RouterConfig) *gin.RouterGroup {
	cfg := rc.Config

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Tracing(cfg.App.Name),
		telemetry.Middleware(),
		middleware.Identity(&cfg.Auth, rc.Flags),
		middleware.Logging(),
	)

	if rc.Health != nil {
		rc.Health.RegisterHealthRoutes(engine)
	}

	api := engine.Group("/api/v1")

	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	if cfg.Server.RequestTimeout > 0 {
		api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	if rc.Quotes != nil {
		rc.Quotes.RegisterQuoteRoutes(api)
	}

	if rc.Catalog != nil {
		rc.Catalog.RegisterCatalogRoutes(api)
	}

	if rc.Playbook != nil {
		rc.Playbook.RegisterPlaybookRoutes(api)
	}

	if rc.Recommendations != nil {
		rc.Recommendations.RegisterRecommendationRoutes(api)
	}

	if rc.Admin != nil {
		rc.Admin.RegisterAdminRoutes(api, middleware.RequireRole(&cfg.Auth, cfg.Auth.AdminRole))
	}

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return api
}
