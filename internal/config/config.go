package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/corduroy/collector/internal/domain"
)

const (
	// DuplicatePolicyNone accepts the balance-check-then-mint race
	DuplicatePolicyNone = "none"
	// DuplicatePolicyCoalesce collapses concurrent claims for one wallet and edition
	DuplicatePolicyCoalesce = "coalesce"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds, must cover one block confirmation
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// ChainConfig holds the EVM endpoint, contracts and relayer key
type ChainConfig struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	ChainID             int64         `mapstructure:"chain_id"`
	ContractAddress     string        `mapstructure:"contract_address"`
	CollectibleAddress  string        `mapstructure:"collectible_address"` // legacy ERC-721 contract, defaults to contract_address
	RelayerPrivateKey   string        `mapstructure:"relayer_private_key"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"` // 0 waits until the request context ends
	GasLimitMultiplier  float64       `mapstructure:"gas_limit_multiplier"`
}

// EditionsConfig holds the static identifier tables and known edition set
type EditionsConfig struct {
	KnownIDs        []string      `mapstructure:"known_ids"`
	PinMap          string        `mapstructure:"pin_map"`   // JSON object or KEY:VALUE CSV
	LabelMap        string        `mapstructure:"label_map"` // JSON object or KEY:VALUE CSV
	QueryWorkers    int           `mapstructure:"query_workers"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"`
}

// ClaimConfig holds claim flow configuration
type ClaimConfig struct {
	DuplicatePolicy string        `mapstructure:"duplicate_policy"`
	Timeout         time.Duration `mapstructure:"timeout"` // bounds a coalesced claim, 0 disables
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	AdminToken string `mapstructure:"admin_token"`
}

// PinataConfig holds the pinning service and IPFS gateway configuration
type PinataConfig struct {
	JWT        string `mapstructure:"jwt"`
	APIURL     string `mapstructure:"api_url"`
	GatewayURL string `mapstructure:"gateway_url"`
}

// CORSConfig holds allowed origin patterns
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"` // regular expressions
}

// WindowConfig is one fixed-window limit
type WindowConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig holds per-IP limiter configuration
type RateLimitConfig struct {
	Backend   string       `mapstructure:"backend"`
	KeyPrefix string       `mapstructure:"key_prefix"`
	MaxKeys   int          `mapstructure:"max_keys"`
	Redis     RedisConfig  `mapstructure:"redis"`
	General   WindowConfig `mapstructure:"general"`
	Claim     WindowConfig `mapstructure:"claim"`
	Admin     WindowConfig `mapstructure:"admin"`
}

// APIConfig holds configuration for the API server and the operator CLI
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Editions   EditionsConfig  `mapstructure:"editions"`
	Claim      ClaimConfig     `mapstructure:"claim"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Pinata     PinataConfig    `mapstructure:"pinata"`
	CORS       CORSConfig      `mapstructure:"cors"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

// legacyEnvNames maps config keys to the environment names used by earlier deployments
var legacyEnvNames = map[string]string{
	"server.port":               "PORT",
	"chain.rpc_url":             "MOONBASE_RPC_URL",
	"chain.chain_id":            "CHAIN_ID",
	"chain.contract_address":    "NFT_CONTRACT_ADDRESS",
	"chain.relayer_private_key": "RELAYER_PRIVATE_KEY",
	"editions.pin_map":          "EDITION_PIN_MAP",
	"editions.label_map":        "EDITION_LABEL_MAP",
	"auth.admin_token":          "ADMIN_TOKEN",
	"pinata.jwt":                "PINATA_JWT",
	"pinata.gateway_url":        "PINATA_GATEWAY_URL",
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	return load("api", configFile, envPath)
}

// LoadAdminConfig loads configuration for the edition-admin CLI
func LoadAdminConfig(configFile string, envPath string) (*APIConfig, error) {
	return load("edition-admin", configFile, envPath)
}

func load(service string, configFile string, envPath string) (*APIConfig, error) {
	v := configureViper(service, configFile, envPath)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Chain.CollectibleAddress == "" {
		cfg.Chain.CollectibleAddress = cfg.Chain.ContractAddress
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("chain.rpc_url", domain.MOONBASE_ALPHA_RPC)
	v.SetDefault("chain.chain_id", domain.MOONBASE_ALPHA_CHAIN)
	v.SetDefault("chain.poll_interval", "2s")
	v.SetDefault("chain.confirmation_timeout", "0s")
	v.SetDefault("chain.gas_limit_multiplier", 1.2)
	v.SetDefault("editions.known_ids", []string{"1", "2", "3", "4"})
	v.SetDefault("editions.query_workers", 4)
	v.SetDefault("editions.metadata_timeout", "8s")
	v.SetDefault("claim.duplicate_policy", DuplicatePolicyCoalesce)
	v.SetDefault("claim.timeout", "3m")
	v.SetDefault("pinata.api_url", "https://api.pinata.cloud")
	v.SetDefault("pinata.gateway_url", domain.DEFAULT_IPFS_GATEWAY)
	v.SetDefault("cors.allowed_origins", []string{
		`^http://(localhost|127\.0\.0\.1):\d+$`,
		`^https://.*\.trycloudflare\.com$`,
		`^https://.*\.ngrok\.io$`,
		`^https://.*\.ngrok\.app$`,
		`^https://.*\.vercel\.app$`,
	})
	v.SetDefault("rate_limit.backend", RateLimitBackendMemory)
	v.SetDefault("rate_limit.key_prefix", "corduroy:ratelimit")
	v.SetDefault("rate_limit.max_keys", 100000)
	v.SetDefault("rate_limit.redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.general.requests", 100)
	v.SetDefault("rate_limit.general.window", "15m")
	v.SetDefault("rate_limit.claim.requests", 30)
	v.SetDefault("rate_limit.claim.window", "1h")
	v.SetDefault("rate_limit.admin.requests", 20)
	v.SetDefault("rate_limit.admin.window", "1h")
}

// Validate checks required fields and value shapes so that bad
// configuration surfaces at startup rather than at request time
func (c *APIConfig) Validate() error {
	var missing []string
	if c.Chain.RelayerPrivateKey == "" {
		missing = append(missing, "chain.relayer_private_key")
	}
	if c.Chain.RPCURL == "" {
		missing = append(missing, "chain.rpc_url")
	}
	if c.Chain.ContractAddress == "" {
		missing = append(missing, "chain.contract_address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if _, err := crypto.HexToECDSA(strings.TrimPrefix(c.Chain.RelayerPrivateKey, "0x")); err != nil {
		return fmt.Errorf("chain.relayer_private_key: %w", err)
	}
	if !common.IsHexAddress(c.Chain.ContractAddress) {
		return fmt.Errorf("chain.contract_address is not a hex address: %q", c.Chain.ContractAddress)
	}
	if c.Chain.CollectibleAddress != "" && !common.IsHexAddress(c.Chain.CollectibleAddress) {
		return fmt.Errorf("chain.collectible_address is not a hex address: %q", c.Chain.CollectibleAddress)
	}
	if c.Chain.ChainID <= 0 {
		return fmt.Errorf("chain.chain_id must be positive, got %d", c.Chain.ChainID)
	}
	if c.Chain.PollInterval <= 0 {
		return fmt.Errorf("chain.poll_interval must be positive")
	}
	if c.Chain.GasLimitMultiplier < 1 {
		return fmt.Errorf("chain.gas_limit_multiplier must be at least 1, got %v", c.Chain.GasLimitMultiplier)
	}

	if len(c.Editions.KnownIDs) == 0 {
		return fmt.Errorf("editions.known_ids must not be empty")
	}
	for _, id := range c.Editions.KnownIDs {
		if _, err := domain.ParseEditionID(id); err != nil {
			return fmt.Errorf("editions.known_ids: %w", err)
		}
	}
	if c.Editions.QueryWorkers <= 0 {
		return fmt.Errorf("editions.query_workers must be positive")
	}

	switch c.Claim.DuplicatePolicy {
	case DuplicatePolicyNone, DuplicatePolicyCoalesce:
	default:
		return fmt.Errorf("claim.duplicate_policy must be %q or %q, got %q", DuplicatePolicyNone, DuplicatePolicyCoalesce, c.Claim.DuplicatePolicy)
	}
	if c.Claim.Timeout < 0 {
		return fmt.Errorf("claim.timeout must not be negative")
	}

	switch c.RateLimit.Backend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return fmt.Errorf("rate_limit.backend must be %q or %q, got %q", RateLimitBackendMemory, RateLimitBackendRedis, c.RateLimit.Backend)
	}
	for name, w := range map[string]WindowConfig{"general": c.RateLimit.General, "claim": c.RateLimit.Claim, "admin": c.RateLimit.Admin} {
		if w.Requests <= 0 || w.Window <= 0 {
			return fmt.Errorf("rate_limit.%s needs positive requests and window", name)
		}
	}

	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("CORDUROY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.trusted_proxies",
		// Chain
		"chain.rpc_url",
		"chain.chain_id",
		"chain.contract_address",
		"chain.collectible_address",
		"chain.relayer_private_key",
		"chain.poll_interval",
		"chain.confirmation_timeout",
		"chain.gas_limit_multiplier",
		// Editions
		"editions.known_ids",
		"editions.pin_map",
		"editions.label_map",
		"editions.query_workers",
		"editions.metadata_timeout",
		// Claim
		"claim.duplicate_policy",
		"claim.timeout",
		// Auth
		"auth.admin_token",
		// Pinata
		"pinata.jwt",
		"pinata.api_url",
		"pinata.gateway_url",
		// CORS
		"cors.allowed_origins",
		// Rate limiting
		"rate_limit.backend",
		"rate_limit.key_prefix",
		"rate_limit.max_keys",
		"rate_limit.redis.addr",
		"rate_limit.redis.password",
		"rate_limit.redis.db",
		"rate_limit.general.requests",
		"rate_limit.general.window",
		"rate_limit.claim.requests",
		"rate_limit.claim.window",
		"rate_limit.admin.requests",
		"rate_limit.admin.window",
	}

	for _, key := range keys {
		envName := "CORDUROY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if legacy, ok := legacyEnvNames[key]; ok {
			_ = v.BindEnv(key, envName, legacy)
			continue
		}
		_ = v.BindEnv(key, envName)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
