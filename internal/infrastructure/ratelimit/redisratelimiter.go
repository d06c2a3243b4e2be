package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "harvestcycle:ratelimit:"

// RedisRateLimiter keeps one sorted set per key and window, scored by request
// time in nanoseconds. Rejected requests are not recorded.
type RedisRateLimiter struct {
	client *redis.Client
	policy Policy
	prefix string
	seq    atomic.Uint64
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, policy Policy) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		policy: policy,
		prefix: defaultKeyPrefix,
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	windows := l.policy.windows()

	pipe := l.client.Pipeline()
	cards := make([]*redis.IntCmd, len(windows))
	for i, w := range windows {
		if w.limit <= 0 {
			continue
		}
		redisKey := l.key(key, w.duration)
		pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(now.Add(-w.duration).UnixNano(), 10))
		cards[i] = pipe.ZCard(ctx, redisKey)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to read rate limit windows: %w", err)
	}

	counts := make([]int64, len(windows))
	for i, card := range cards {
		if card != nil {
			counts[i] = card.Val()
		}
	}

	decision := tightest(windows, counts)
	if !decision.Allowed {
		return decision, nil
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), l.seq.Add(1))
	pipe = l.client.Pipeline()
	for _, w := range windows {
		if w.limit <= 0 {
			continue
		}
		redisKey := l.key(key, w.duration)
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
		pipe.Expire(ctx, redisKey, w.duration+time.Minute)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to record rate limit hit: %w", err)
	}

	return decision, nil
}

func (l *RedisRateLimiter) key(identifier string, window time.Duration) string {
	return l.prefix + identifier + ":" + window.String()
}
