package ratelimit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/corduroy/collector/internal/adapter"
	"github.com/corduroy/collector/internal/logger"
)

type redisLimiter struct {
	rule     Rule
	prefix   string
	redis    adapter.RedisClient
	clock    adapter.Clock
	fallback Limiter
}

// NewRedisLimiter creates a limiter whose counters live in redis and are shared by every instance.
// When redis fails the request is counted by fallback instead, fallback may be nil to fail open.
func NewRedisLimiter(rule Rule, prefix string, rc adapter.RedisClient, clock adapter.Clock, fallback Limiter) Limiter {
	return &redisLimiter{
		rule:     rule,
		prefix:   prefix,
		redis:    rc,
		clock:    clock,
		fallback: fallback,
	}
}

func (l *redisLimiter) Rule() Rule {
	return l.rule
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.clock.Now()
	start := windowStart(now, l.rule.Window)
	redisKey := fmt.Sprintf("%s:%s:%s:%d", l.prefix, l.rule.Name, key, start.UnixMilli())

	count, err := l.redis.IncrWindow(ctx, redisKey, l.rule.Window)
	if err != nil {
		logger.WarnCtx(ctx, "Redis rate limit failed, using local fallback", zap.String("limiter", l.rule.Name), zap.Error(err))
		if l.fallback == nil {
			return decide(l.rule, 0, start, now), nil
		}
		return l.fallback.Allow(ctx, key)
	}

	return decide(l.rule, count, start, now), nil
}
