package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/api/server"
	"github.com/corduroy/collector/internal/api/shared/executor"
	"github.com/corduroy/collector/internal/claim"
	"github.com/corduroy/collector/internal/config"
	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/edition"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/metadata"
	"github.com/corduroy/collector/internal/providers/ethereum"
	"github.com/corduroy/collector/internal/providers/pinata"
	"github.com/corduroy/collector/internal/ratelimit"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "collector-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Corduroy Collector API")

	// Connect to the chain
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial chain RPC", zap.Error(err), zap.String("rpc_url", cfg.Chain.RPCURL))
	}

	relayer, err := ethereum.NewRelayer(ethClient, adapter.NewClock(), ethereum.RelayerConfig{
		PrivateKey:          cfg.Chain.RelayerPrivateKey,
		ChainID:             cfg.Chain.ChainID,
		PollInterval:        cfg.Chain.PollInterval,
		ConfirmationTimeout: cfg.Chain.ConfirmationTimeout,
		GasLimitMultiplier:  cfg.Chain.GasLimitMultiplier,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create relayer", zap.Error(err))
	}

	chain := ethereum.NewClient(ethereum.Config{
		ChainID:            cfg.Chain.ChainID,
		ContractAddress:    common.HexToAddress(cfg.Chain.ContractAddress),
		CollectibleAddress: common.HexToAddress(cfg.Chain.CollectibleAddress),
	}, ethClient, relayer)
	defer chain.Close()

	if err := chain.VerifyChainID(ctx); err != nil {
		logger.FatalCtx(ctx, "Refusing to start on the wrong chain", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to chain",
		zap.Int64("chain_id", cfg.Chain.ChainID),
		zap.String("contract", chain.ContractAddress().Hex()),
		zap.String("relayer", relayer.Address().Hex()),
	)

	// Load edition tables
	pins, err := edition.ParseMapping(cfg.Editions.PinMap)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to parse pin map", zap.Error(err))
	}
	labels, err := edition.ParseMapping(cfg.Editions.LabelMap)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to parse label map", zap.Error(err))
	}
	resolver, err := edition.NewResolver(pins, labels)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid edition tables", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Loaded edition tables", zap.Int("pins", len(pins)), zap.Int("labels", len(labels)))

	knownIDs := make([]domain.EditionID, 0, len(cfg.Editions.KnownIDs))
	for _, raw := range cfg.Editions.KnownIDs {
		id, err := domain.ParseEditionID(raw)
		if err != nil {
			logger.FatalCtx(ctx, "Invalid known edition id", zap.Error(err))
		}
		knownIDs = append(knownIDs, id)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	claims, err := claim.NewService(chain, claim.Config{
		DuplicatePolicy: cfg.Claim.DuplicatePolicy,
		Timeout:         cfg.Claim.Timeout,
	}, registry)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create claim service", zap.Error(err))
	}

	fetcher := metadata.NewFetcher(adapter.NewHTTPClient(cfg.Editions.MetadataTimeout), metadata.Config{
		GatewayURL: cfg.Pinata.GatewayURL,
		Timeout:    cfg.Editions.MetadataTimeout,
	})

	pinner := pinata.NewClient(adapter.NewHTTPClient(30*time.Second), pinata.Config{
		JWT:        cfg.Pinata.JWT,
		APIURL:     cfg.Pinata.APIURL,
		GatewayURL: cfg.Pinata.GatewayURL,
	})
	if !pinner.Enabled() {
		logger.WarnCtx(ctx, "Pinata JWT not configured, metadata pinning is disabled")
	}

	// Rate limiters
	var redisClient adapter.RedisClient
	if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
		redisClient = adapter.NewRedisClient(cfg.RateLimit.Redis.Addr, cfg.RateLimit.Redis.Password, cfg.RateLimit.Redis.DB)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}()
	}
	limiters, err := ratelimit.NewLimiters(ctx, cfg.RateLimit, redisClient, adapter.NewClock())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limiters", zap.Error(err))
	}

	exec := executor.NewExecutor(executor.Config{
		KnownIDs:     knownIDs,
		QueryWorkers: cfg.Editions.QueryWorkers,
	}, resolver, claims, chain, fetcher, pinner)
	defer exec.Close()

	if cfg.Auth.AdminToken == "" {
		logger.WarnCtx(ctx, "Admin token not configured, admin endpoints reject every request")
	}

	// Create server
	srv, err := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		TrustedProxies: cfg.Server.TrustedProxies,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AdminToken:     cfg.Auth.AdminToken,
	}, exec, limiters, registry)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create server", zap.Error(err))
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	logger.Info("API server stopped")
}
