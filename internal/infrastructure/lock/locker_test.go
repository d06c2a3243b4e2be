package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvestcycle/internal/shared/logger"
)

type subscriberLocker interface {
	Acquire(ctx context.Context, subscriberID string) (func(), error)
}

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

func lockers() map[string]func(t *testing.T) subscriberLocker {
	return map[string]func(t *testing.T) subscriberLocker{
		"memory": func(*testing.T) subscriberLocker {
			return NewInMemorySubscriberLocker()
		},
		"redis": func(t *testing.T) subscriberLocker {
			return NewRedisSubscriberLocker(setupTestRedis(t), time.Second, logger.NewNop())
		},
	}
}

func TestLocker_MutualExclusion(t *testing.T) {
	for name, build := range lockers() {
		t.Run(name, func(t *testing.T) {
			l := build(t)

			var inside, maxInside int32
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release, err := l.Acquire(context.Background(), "sub_1")
					if !assert.NoError(t, err) {
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					release()
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestLocker_IndependentSubscribers(t *testing.T) {
	for name, build := range lockers() {
		t.Run(name, func(t *testing.T) {
			l := build(t)

			releaseA, err := l.Acquire(context.Background(), "sub_a")
			require.NoError(t, err)
			defer releaseA()

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			releaseB, err := l.Acquire(ctx, "sub_b")
			require.NoError(t, err)
			releaseB()
		})
	}
}

func TestLocker_ContextCancelledWhileWaiting(t *testing.T) {
	for name, build := range lockers() {
		t.Run(name, func(t *testing.T) {
			l := build(t)

			release, err := l.Acquire(context.Background(), "sub_1")
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_, err = l.Acquire(ctx, "sub_1")
			require.Error(t, err)

			release()
			// Double release is harmless.
			release()

			again, err := l.Acquire(context.Background(), "sub_1")
			require.NoError(t, err)
			again()
		})
	}
}

func TestInMemorySubscriberLocker_ForgetsIdleSlots(t *testing.T) {
	l := NewInMemorySubscriberLocker()

	release, err := l.Acquire(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())

	release()
	assert.Equal(t, 0, l.size())
}

func TestRedisSubscriberLocker_ReleaseKeepsForeignLock(t *testing.T) {
	client := setupTestRedis(t)
	l := NewRedisSubscriberLocker(client, 50*time.Millisecond, logger.NewNop())
	ctx := context.Background()

	release, err := l.Acquire(ctx, "sub_1")
	require.NoError(t, err)

	// Our key expires and another holder takes it.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, client.Set(ctx, defaultKeyPrefix+"sub_1", "other", time.Minute).Err())

	release()

	val, err := client.Get(ctx, defaultKeyPrefix+"sub_1").Result()
	require.NoError(t, err)
	assert.Equal(t, "other", val)
}

func TestRedisSubscriberLocker_EmptySubscriber(t *testing.T) {
	l := NewRedisSubscriberLocker(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0, logger.NewNop())
	_, err := l.Acquire(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, defaultTTL, l.ttl)
}
