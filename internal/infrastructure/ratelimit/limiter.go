package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether another request for key fits in the current budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// InMemoryLimiter is a per-key token bucket for single-instance deployments.
type InMemoryLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	ops      uint64
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryLimiter(requests int, window time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		requests: requests,
		window:   window,
		limiters: make(map[string]*keyedLimiter),
	}
}

func (l *InMemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	k, ok := l.limiters[key]
	if !ok {
		every := l.window / time.Duration(l.requests)
		k = &keyedLimiter{limiter: rate.NewLimiter(rate.Every(every), l.requests)}
		l.limiters[key] = k
	}
	k.lastSeen = now

	// Drop idle keys now and then so the map stays bounded.
	l.ops++
	if l.ops%1024 == 0 {
		cutoff := now.Add(-2 * l.window)
		for key, kl := range l.limiters {
			if kl.lastSeen.Before(cutoff) {
				delete(l.limiters, key)
			}
		}
	}

	return k.limiter.AllowN(now, 1), nil
}

// RedisLimiter is a fixed-window counter shared by every instance using
// the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  requests,
		window: window,
		prefix: "angelina:rl:",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := fixedWindowScript.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limiter redis: %w", err)
	}
	return count <= int64(l.limit), nil
}
