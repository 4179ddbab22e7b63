package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/corduroy/collector/internal/adapter"
)

const defaultMaxKeys = 100_000

type memoryLimiter struct {
	rule  Rule
	clock adapter.Clock

	mu       sync.Mutex
	counters *expirable.LRU[string, int64]
}

// NewMemoryLimiter creates a single-process limiter. At most maxKeys clients are tracked,
// the least recently seen are evicted first.
func NewMemoryLimiter(rule Rule, maxKeys int, clock adapter.Clock) (Limiter, error) {
	if rule.Requests <= 0 || rule.Window <= 0 {
		return nil, fmt.Errorf("invalid rate limit rule %s: %d requests per %s", rule.Name, rule.Requests, rule.Window)
	}
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}

	return &memoryLimiter{
		rule:     rule,
		clock:    clock,
		counters: expirable.NewLRU[string, int64](maxKeys, nil, rule.Window),
	}, nil
}

func (l *memoryLimiter) Rule() Rule {
	return l.rule
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.clock.Now()
	start := windowStart(now, l.rule.Window)
	windowKey := key + "|" + strconv.FormatInt(start.UnixMilli(), 10)

	l.mu.Lock()
	count, _ := l.counters.Get(windowKey)
	count++
	l.counters.Add(windowKey, count)
	l.mu.Unlock()

	return decide(l.rule, count, start, now), nil
}
