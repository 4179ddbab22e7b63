package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/api/middleware"
	"github.com/corduroy/collector/internal/api/rest"
	"github.com/corduroy/collector/internal/api/shared/executor"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/ratelimit"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TrustedProxies []string
	AllowedOrigins []string
	AdminToken     string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
}

// New builds the router: recovery, request id, request log, metrics and CORS for every route,
// then per-route rate limiting and admin auth.
// Metrics are registered on registry and served from it.
func New(cfg Config, exec executor.Executor, limiters *ratelimit.Limiters, registry *prometheus.Registry) (*Server, error) {
	// Set Gin mode based on debug flag
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	corsMiddleware, err := middleware.SetupCORS(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.NewMetrics(registry).Middleware())
	router.Use(corsMiddleware)

	restHandler := rest.NewHandler(exec)
	rest.SetupRoutes(router, restHandler, rest.RouteConfig{
		Auth:     middleware.AuthConfig{AdminToken: cfg.AdminToken},
		Limiters: limiters,
		Gatherer: registry,
	})

	return &Server{config: cfg, router: router}, nil
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
