package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/config"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/providers/ethereum"
)

// app carries the state shared by every subcommand
type app struct {
	configFile string
	envPath    string
	timeout    time.Duration

	cfg  *config.APIConfig
	dial func(ctx context.Context, cfg *config.APIConfig) (ethereum.Client, error)
}

func main() {
	config.ChdirRepoRoot()

	a := &app{dial: dialChain}
	defer logger.Flush(2 * time.Second)

	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "edition-admin",
		Short: "Operate the Corduroy edition contract",
		Long: `Run operator tasks against the deployed edition contract
with the same configuration and relayer key as the API server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.envPath, "env", "config/", "Path to environment files")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 3*time.Minute, "Operation timeout")

	rootCmd.AddCommand(newSetURICmd(a))
	rootCmd.AddCommand(newGetURICmd(a))
	rootCmd.AddCommand(newBalanceCmd(a))
	rootCmd.AddCommand(newPinsCmd(a))

	return rootCmd
}

func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.LoadAdminConfig(a.configFile, a.envPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "edition-admin",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	return nil
}

// connect dials the chain and refuses to continue on a chain id mismatch
func (a *app) connect(ctx context.Context) (ethereum.Client, error) {
	chain, err := a.dial(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	if err := chain.VerifyChainID(ctx); err != nil {
		chain.Close()
		return nil, err
	}
	return chain, nil
}

func dialChain(ctx context.Context, cfg *config.APIConfig) (ethereum.Client, error) {
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC: %w", err)
	}

	relayer, err := ethereum.NewRelayer(ethClient, adapter.NewClock(), ethereum.RelayerConfig{
		PrivateKey:          cfg.Chain.RelayerPrivateKey,
		ChainID:             cfg.Chain.ChainID,
		PollInterval:        cfg.Chain.PollInterval,
		ConfirmationTimeout: cfg.Chain.ConfirmationTimeout,
		GasLimitMultiplier:  cfg.Chain.GasLimitMultiplier,
	})
	if err != nil {
		ethClient.Close()
		return nil, err
	}

	return ethereum.NewClient(ethereum.Config{
		ChainID:            cfg.Chain.ChainID,
		ContractAddress:    common.HexToAddress(cfg.Chain.ContractAddress),
		CollectibleAddress: common.HexToAddress(cfg.Chain.CollectibleAddress),
	}, ethClient, relayer), nil
}
