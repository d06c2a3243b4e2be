package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"harvestcycle/internal/shared/id"
	"harvestcycle/internal/shared/logger"
)

const (
	defaultKeyPrefix  = "harvestcycle:lock:subscriber:"
	defaultTTL        = 10 * time.Second
	defaultRetryDelay = 25 * time.Millisecond
	defaultWaitLimit  = 3 * time.Second
)

// ErrLockTimeout is returned when the lock could not be taken before the wait limit.
var ErrLockTimeout = errors.New("timed out waiting for subscriber lock")

// releaseScript deletes the lock key only if it still holds our token.
// KEYS[1] = lock key, ARGV[1] = token
// Returns 1 if released, 0 if the lock expired or was taken by someone else
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisSubscriberLocker serializes work per subscriber across processes.
type RedisSubscriberLocker struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	retryDelay time.Duration
	waitLimit  time.Duration
	logger     logger.Interface
}

// NewRedisSubscriberLocker creates a locker whose keys expire after ttl.
// A non-positive ttl falls back to the default.
func NewRedisSubscriberLocker(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisSubscriberLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisSubscriberLocker{
		client:     client,
		prefix:     defaultKeyPrefix,
		ttl:        ttl,
		retryDelay: defaultRetryDelay,
		waitLimit:  defaultWaitLimit,
		logger:     log,
	}
}

// Acquire blocks until the subscriber's lock is held, ctx is done, or the
// wait limit passes. The returned release func is safe to call more than once.
func (l *RedisSubscriberLocker) Acquire(ctx context.Context, subscriberID string) (func(), error) {
	if subscriberID == "" {
		return nil, errors.New("subscriber id is required")
	}

	token, err := id.Generate(24)
	if err != nil {
		return nil, fmt.Errorf("failed to generate lock token: %w", err)
	}
	key := l.prefix + subscriberID

	waitCtx, cancel := context.WithTimeout(ctx, l.waitLimit)
	defer cancel()

	ticker := time.NewTicker(l.retryDelay)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("failed to acquire subscriber lock: %w", err)
		}
		if ok {
			return l.releaser(key, token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func (l *RedisSubscriberLocker) releaser(key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, token) })
	}
}

func (l *RedisSubscriberLocker) release(key, token string) {
	// Release must run even if the caller's context was cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		l.logger.Warnw("failed to release subscriber lock", "key", key, "error", err)
		return
	}
	if n == 0 {
		l.logger.Warnw("subscriber lock expired before release", "key", key, "ttl", l.ttl)
	}
}
