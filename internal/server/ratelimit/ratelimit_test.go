package ratelimit

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RTHeLL/mg-test/internal/logging"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, limit, window, logging.NewJSONLogger(io.Discard)), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "signin:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "signin:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "attempt over the limit must be denied")
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "signin:a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "signin:b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_DeniedRetriesDoNotExtendWindow(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	require.True(t, ok)

	// a retry halfway through the window is denied and must not re-arm
	// the TTL
	mr.FastForward(30 * time.Second)
	ok, err = l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	require.False(t, ok)

	// 59s after the window opened it is still closed
	mr.FastForward(29 * time.Second)
	ok, err = l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	require.False(t, ok)

	// just past the minute mark the window opens regardless of the retries
	mr.FastForward(2 * time.Second)
	ok, err = l.Allow(ctx, "signin:x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_FailsOpenOnRedisError(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	ok, err := l.Allow(context.Background(), "signin:x")
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestNoopLimiter_AlwaysAllows(t *testing.T) {
	ok, err := NoopLimiter{}.Allow(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
