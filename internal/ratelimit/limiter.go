package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/config"
	"github.com/corduroy/collector/internal/logger"
)

// Limiter names, one counter set each, shared by every route mounting the limiter
const (
	LimiterGeneral = "general"
	LimiterClaim   = "claim"
	LimiterAdmin   = "admin"
)

// Rule is a fixed-window limit
type Rule struct {
	Name     string
	Requests int
	Window   time.Duration
	// Message is returned to clients refused by this rule
	Message string
}

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining  int
	Reset      time.Time
	// ResetAfter is the time left in the window, measured on the limiter clock
	ResetAfter time.Duration
}

// Limiter counts requests per key in fixed windows
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit_limiter.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	// Rule returns the limit enforced by this limiter
	Rule() Rule

	// Allow counts one request for key and reports whether it is within the limit
	Allow(ctx context.Context, key string) (Decision, error)
}

// Limiters holds one limiter per route group
type Limiters struct {
	General Limiter
	Claim   Limiter
	Admin   Limiter
}

// windowStart returns the start of the fixed window containing now
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

func decide(rule Rule, count int64, start, now time.Time) Decision {
	remaining := rule.Requests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	reset := start.Add(rule.Window)
	return Decision{
		Allowed:    count <= int64(rule.Requests),
		Limit:      rule.Requests,
		Remaining:  remaining,
		Reset:      reset,
		ResetAfter: reset.Sub(now),
	}
}

// Rules returns the general, claim and admin rules from configuration
func Rules(cfg config.RateLimitConfig) (general, claim, admin Rule) {
	general = Rule{
		Name:     LimiterGeneral,
		Requests: cfg.General.Requests,
		Window:   cfg.General.Window,
		Message:  "Too many requests from this IP, please try again later",
	}
	claim = Rule{
		Name:     LimiterClaim,
		Requests: cfg.Claim.Requests,
		Window:   cfg.Claim.Window,
		Message:  "Too many claim attempts, please try again in an hour",
	}
	admin = Rule{
		Name:     LimiterAdmin,
		Requests: cfg.Admin.Requests,
		Window:   cfg.Admin.Window,
		Message:  "Too many admin requests, please try again later",
	}
	return general, claim, admin
}

// NewLimiters builds the three route limiters on the configured backend.
// The redis backend keeps an in-memory limiter per rule as fallback while redis is unreachable.
func NewLimiters(ctx context.Context, cfg config.RateLimitConfig, rc adapter.RedisClient, clock adapter.Clock) (*Limiters, error) {
	general, claim, admin := Rules(cfg)

	build := func(rule Rule) (Limiter, error) {
		memory, err := NewMemoryLimiter(rule, cfg.MaxKeys, clock)
		if err != nil {
			return nil, err
		}

		switch cfg.Backend {
		case config.RateLimitBackendMemory, "":
			return memory, nil
		case config.RateLimitBackendRedis:
			if rc == nil {
				return nil, fmt.Errorf("redis backend selected but no redis client provided")
			}
			return NewRedisLimiter(rule, cfg.KeyPrefix, rc, clock, memory), nil
		default:
			return nil, fmt.Errorf("unknown rate limit backend: %q", cfg.Backend)
		}
	}

	if cfg.Backend == config.RateLimitBackendRedis && rc != nil {
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, rate limits will use local fallback", zap.Error(err))
		}
	}

	limiters := &Limiters{}
	var err error
	if limiters.General, err = build(general); err != nil {
		return nil, err
	}
	if limiters.Claim, err = build(claim); err != nil {
		return nil, err
	}
	if limiters.Admin, err = build(admin); err != nil {
		return nil, err
	}

	logger.Info("Rate limiters initialized",
		zap.String("backend", cfg.Backend),
		zap.Int("general", general.Requests),
		zap.Int("claim", claim.Requests),
		zap.Int("admin", admin.Requests),
	)

	return limiters, nil
}
