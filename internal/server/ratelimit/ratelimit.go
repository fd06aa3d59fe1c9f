// Package ratelimit provides a Redis-backed fixed-window rate limiter used
// to throttle sign-in attempts per client.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RTHeLL/mg-test/internal/logging"
)

// Limiter decides whether an attempt identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts attempts per key in a fixed window using INCR+EXPIRE.
// When Redis is unreachable it fails open: blocking all sign-ins on a cache
// outage would be a worse failure mode than briefly losing throttling.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logging.Logger
}

// NewRedisLimiter constructs a limiter allowing limit attempts per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, logger logging.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, logger: logger}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Error(ctx, "rate limit check failed, allowing request", "key", key, "error", err.Error())
		return true, err
	}

	// Arm the TTL only on the first attempt; re-arming it on every retry
	// would keep pushing the window forward and never let it close.
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Error(ctx, "rate limit expire failed, allowing request", "key", key, "error", err.Error())
			return true, err
		}
	}

	if count > int64(l.limit) {
		l.logger.Warn(ctx, "rate limit exceeded", "key", key, "count", count, "limit", l.limit)
		return false, nil
	}
	return true, nil
}

// NoopLimiter allows everything. Used when no Redis address is configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}
