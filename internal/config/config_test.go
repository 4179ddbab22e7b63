package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testContract   = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

// clearEnv unsets every variable the loader reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, legacy := range legacyEnvNames {
		t.Setenv(legacy, "")
		require.NoError(t, os.Unsetenv(legacy))
	}
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "CORDUROY_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		env         map[string]string
		expectedErr string
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  port: 8080
chain:
  rpc_url: "http://localhost:8545"
  chain_id: 31337
  contract_address: "` + testContract + `"
  relayer_private_key: "` + testPrivateKey + `"
  poll_interval: "500ms"
editions:
  known_ids: ["1", "7"]
  pin_map: "PIN123:1"
claim:
  duplicate_policy: none
  timeout: 90s
auth:
  admin_token: "secret"
rate_limit:
  backend: redis
  redis:
    addr: "redis:6379"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "http://localhost:8545", cfg.Chain.RPCURL)
				assert.Equal(t, int64(31337), cfg.Chain.ChainID)
				assert.Equal(t, 500*time.Millisecond, cfg.Chain.PollInterval)
				assert.Equal(t, testContract, cfg.Chain.CollectibleAddress)
				assert.Equal(t, []string{"1", "7"}, cfg.Editions.KnownIDs)
				assert.Equal(t, "PIN123:1", cfg.Editions.PinMap)
				assert.Equal(t, DuplicatePolicyNone, cfg.Claim.DuplicatePolicy)
				assert.Equal(t, 90*time.Second, cfg.Claim.Timeout)
				assert.Equal(t, "secret", cfg.Auth.AdminToken)
				assert.Equal(t, RateLimitBackendRedis, cfg.RateLimit.Backend)
				assert.Equal(t, "redis:6379", cfg.RateLimit.Redis.Addr)
			},
		},
		{
			name: "config with defaults",
			configFile: `
chain:
  contract_address: "` + testContract + `"
  relayer_private_key: "` + testPrivateKey + `"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, 4000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0:4000", cfg.Server.Addr())
				assert.Equal(t, "https://rpc.api.moonbase.moonbeam.network", cfg.Chain.RPCURL)
				assert.Equal(t, int64(1287), cfg.Chain.ChainID)
				assert.Equal(t, 2*time.Second, cfg.Chain.PollInterval)
				assert.Equal(t, time.Duration(0), cfg.Chain.ConfirmationTimeout)
				assert.Equal(t, []string{"1", "2", "3", "4"}, cfg.Editions.KnownIDs)
				assert.Equal(t, DuplicatePolicyCoalesce, cfg.Claim.DuplicatePolicy)
				assert.Equal(t, 3*time.Minute, cfg.Claim.Timeout)
				assert.Equal(t, "https://gateway.pinata.cloud", cfg.Pinata.GatewayURL)
				assert.Equal(t, RateLimitBackendMemory, cfg.RateLimit.Backend)
				assert.Equal(t, 100, cfg.RateLimit.General.Requests)
				assert.Equal(t, 15*time.Minute, cfg.RateLimit.General.Window)
				assert.Equal(t, 30, cfg.RateLimit.Claim.Requests)
				assert.Equal(t, time.Hour, cfg.RateLimit.Claim.Window)
				assert.Equal(t, 20, cfg.RateLimit.Admin.Requests)
				assert.Equal(t, time.Hour, cfg.RateLimit.Admin.Window)
				assert.Len(t, cfg.CORS.AllowedOrigins, 5)
			},
		},
		{
			name: "legacy environment names",
			env: map[string]string{
				"RELAYER_PRIVATE_KEY":  testPrivateKey,
				"NFT_CONTRACT_ADDRESS": testContract,
				"MOONBASE_RPC_URL":     "http://legacy:8545",
				"EDITION_PIN_MAP":      `{"PIN1":"1"}`,
				"ADMIN_TOKEN":          "legacy-token",
				"PORT":                 "5000",
			},
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, "http://legacy:8545", cfg.Chain.RPCURL)
				assert.Equal(t, `{"PIN1":"1"}`, cfg.Editions.PinMap)
				assert.Equal(t, "legacy-token", cfg.Auth.AdminToken)
				assert.Equal(t, 5000, cfg.Server.Port)
			},
		},
		{
			name: "prefixed environment names win over legacy ones",
			env: map[string]string{
				"RELAYER_PRIVATE_KEY":             testPrivateKey,
				"NFT_CONTRACT_ADDRESS":            testContract,
				"CORDUROY_CHAIN_RPC_URL":          "http://prefixed:8545",
				"MOONBASE_RPC_URL":                "http://legacy:8545",
				"CORDUROY_EDITIONS_KNOWN_IDS":     "5,6",
				"CORDUROY_RATE_LIMIT_CLAIM_WINDOW": "30m",
			},
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, "http://prefixed:8545", cfg.Chain.RPCURL)
				assert.Equal(t, []string{"5", "6"}, cfg.Editions.KnownIDs)
				assert.Equal(t, 30*time.Minute, cfg.RateLimit.Claim.Window)
			},
		},
		{
			name:        "missing required values",
			configFile:  "debug: true\n",
			expectedErr: "missing required config: chain.relayer_private_key, chain.contract_address",
		},
		{
			name: "malformed private key",
			configFile: `
chain:
  contract_address: "` + testContract + `"
  relayer_private_key: "0x1234"
`,
			expectedErr: "chain.relayer_private_key",
		},
		{
			name: "malformed contract address",
			configFile: `
chain:
  contract_address: "0x1234"
  relayer_private_key: "` + testPrivateKey + `"
`,
			expectedErr: "chain.contract_address is not a hex address",
		},
		{
			name: "unknown duplicate policy",
			configFile: `
chain:
  contract_address: "` + testContract + `"
  relayer_private_key: "` + testPrivateKey + `"
claim:
  duplicate_policy: lock
`,
			expectedErr: "claim.duplicate_policy",
		},
		{
			name: "negative claim timeout",
			configFile: `
chain:
  contract_address: "` + testContract + `"
  relayer_private_key: "` + testPrivateKey + `"
claim:
  timeout: -1s
`,
			expectedErr: "claim.timeout must not be negative",
		},
		{
			name: "invalid known edition id",
			configFile: `
chain:
  contract_address: "` + testContract + `"
  relayer_private_key: "` + testPrivateKey + `"
editions:
  known_ids: ["1", "two"]
`,
			expectedErr: "editions.known_ids",
		},
		{
			name: "unknown rate limit backend",
			configFile: `
chain:
  contract_address: "` + testContract + `"
  relayer_private_key: "` + testPrivateKey + `"
rate_limit:
  backend: memcached
`,
			expectedErr: "rate_limit.backend",
		},
		{
			name: "invalid yaml",
			configFile: `
				chain:
				  chain_id: invalid
			`,
			expectedErr: "failed to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			if tt.configFile != "" {
				require.NoError(t, os.WriteFile(configFile, []byte(tt.configFile), 0600))
			} else {
				require.NoError(t, os.WriteFile(configFile, []byte("{}\n"), 0600))
			}

			cfg, err := LoadAPIConfig(configFile, tmpDir)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadAPIConfig_EnvFiles(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(
		"CORDUROY_CHAIN_RELAYER_PRIVATE_KEY="+testPrivateKey+"\n"+
			"CORDUROY_CHAIN_CONTRACT_ADDRESS="+testContract+"\n"+
			"CORDUROY_AUTH_ADMIN_TOKEN=base\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env.api.local"), []byte(
		"CORDUROY_AUTH_ADMIN_TOKEN=override\n"), 0600))
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("{}\n"), 0600))

	t.Cleanup(func() {
		_ = os.Unsetenv("CORDUROY_CHAIN_RELAYER_PRIVATE_KEY")
		_ = os.Unsetenv("CORDUROY_CHAIN_CONTRACT_ADDRESS")
		_ = os.Unsetenv("CORDUROY_AUTH_ADMIN_TOKEN")
	})

	cfg, err := LoadAPIConfig(configFile, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.Auth.AdminToken)
	assert.Equal(t, testContract, cfg.Chain.ContractAddress)
}
