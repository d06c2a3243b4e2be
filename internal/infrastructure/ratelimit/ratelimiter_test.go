package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time { return c.t }

var testStart = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func limiters(policy Policy) map[string]func(t *testing.T, clock *manualClock) RateLimiter {
	return map[string]func(t *testing.T, clock *manualClock) RateLimiter{
		"memory": func(t *testing.T, clock *manualClock) RateLimiter {
			l := NewInMemoryRateLimiter(policy)
			l.now = clock.now
			return l
		},
		"redis": func(t *testing.T, clock *manualClock) RateLimiter {
			l := NewRedisRateLimiter(setupTestRedis(t), policy)
			l.now = clock.now
			return l
		},
	}
}

func TestTightest(t *testing.T) {
	windows := Policy{RequestsPerMinute: 5, RequestsPerHour: 10}.windows()

	tests := []struct {
		name          string
		counts        []int64
		wantAllowed   bool
		wantLimit     int
		wantRemaining int
		wantRetry     time.Duration
	}{
		{"fresh key", []int64{0, 0}, true, 5, 4, 0},
		{"hour tighter than minute", []int64{1, 8}, true, 10, 1, 0},
		{"minute exhausted", []int64{5, 5}, false, 5, 0, time.Minute},
		{"hour exhausted", []int64{0, 10}, false, 10, 0, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tightest(windows, tt.counts)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantLimit, d.Limit)
			assert.Equal(t, tt.wantRemaining, d.Remaining)
			assert.Equal(t, tt.wantRetry, d.RetryAfter)
		})
	}
}

func TestRateLimiter_PerMinute(t *testing.T) {
	for name, build := range limiters(Policy{RequestsPerMinute: 3}) {
		t.Run(name, func(t *testing.T) {
			clock := &manualClock{t: testStart}
			limiter := build(t, clock)
			ctx := context.Background()

			for i := 0; i < 3; i++ {
				d, err := limiter.Allow(ctx, "sub_1")
				require.NoError(t, err)
				assert.True(t, d.Allowed, "request %d should be allowed", i+1)
				assert.Equal(t, 2-i, d.Remaining)
			}

			d, err := limiter.Allow(ctx, "sub_1")
			require.NoError(t, err)
			assert.False(t, d.Allowed, "4th request should be denied")
			assert.Equal(t, time.Minute, d.RetryAfter)

			other, err := limiter.Allow(ctx, "sub_2")
			require.NoError(t, err)
			assert.True(t, other.Allowed, "keys are independent")

			clock.t = clock.t.Add(61 * time.Second)
			d, err = limiter.Allow(ctx, "sub_1")
			require.NoError(t, err)
			assert.True(t, d.Allowed, "window slides after a minute")
		})
	}
}

func TestRateLimiter_RejectedRequestsAreNotRecorded(t *testing.T) {
	for name, build := range limiters(Policy{RequestsPerMinute: 1, RequestsPerHour: 2}) {
		t.Run(name, func(t *testing.T) {
			clock := &manualClock{t: testStart}
			limiter := build(t, clock)
			ctx := context.Background()
			start := clock.t

			d, err := limiter.Allow(ctx, "sub_1")
			require.NoError(t, err)
			require.True(t, d.Allowed)

			for i := 0; i < 5; i++ {
				d, err = limiter.Allow(ctx, "sub_1")
				require.NoError(t, err)
				require.False(t, d.Allowed)
			}

			clock.t = start.Add(2 * time.Minute)
			d, err = limiter.Allow(ctx, "sub_1")
			require.NoError(t, err)
			assert.True(t, d.Allowed, "hour window holds only the accepted hit")

			clock.t = start.Add(3 * time.Minute)
			d, err = limiter.Allow(ctx, "sub_1")
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Equal(t, time.Hour, d.RetryAfter)
		})
	}
}

func TestInMemoryRateLimiter_ForgetsIdleKeys(t *testing.T) {
	clock := &manualClock{t: testStart}
	l := NewInMemoryRateLimiter(Policy{RequestsPerMinute: 2})
	l.now = clock.now

	for i := 0; i < 20; i++ {
		_, err := l.Allow(context.Background(), fmt.Sprintf("sub_%d", i))
		require.NoError(t, err)
	}
	assert.Len(t, l.hits, 20)

	clock.t = clock.t.Add(30 * time.Second)
	_, err := l.Allow(context.Background(), "sub_0")
	require.NoError(t, err)
	assert.Len(t, l.hits["sub_0"], 2)

	clock.t = clock.t.Add(45 * time.Second)
	l.sweep(clock.t.Add(-time.Minute))
	assert.Len(t, l.hits, 1, "only sub_0 has a hit inside the last minute")
}
