package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corduroy/collector/internal/api/middleware"
	"github.com/corduroy/collector/internal/ratelimit"
)

// RouteConfig holds what the routes need besides the handler
type RouteConfig struct {
	Auth     middleware.AuthConfig
	Limiters *ratelimit.Limiters
	// Gatherer serves /metrics, nil disables the endpoint
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, cfg RouteConfig) {
	// Health and metrics (no auth, no rate limit)
	router.GET("/health", handler.HealthCheck)
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	// Claim endpoints share one counter per client
	claimLimit := middleware.RateLimit(cfg.Limiters.Claim)
	router.POST("/claim", claimLimit, handler.Claim)
	router.POST("/claim-dev", claimLimit, handler.ClaimDev)

	// Public read access
	router.GET("/editions", middleware.RateLimit(cfg.Limiters.General), handler.ListEditions)

	// Admin endpoints (requires bearer token)
	admin := router.Group("/admin", middleware.RateLimit(cfg.Limiters.Admin), middleware.Auth(cfg.Auth))
	{
		admin.POST("/edition", handler.SetEditionURI)
		admin.POST("/metadata", handler.PinMetadata)
	}

	router.NoRoute(handler.NotFound)
}
