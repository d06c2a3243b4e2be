package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = 1024

// InMemoryRateLimiter is the single-process fallback used when Redis is
// disabled.
type InMemoryRateLimiter struct {
	mu     sync.Mutex
	policy Policy
	hits   map[string][]time.Time
	calls  int
	now    func() time.Time
}

func NewInMemoryRateLimiter(policy Policy) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		policy: policy,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *InMemoryRateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windows := l.policy.windows()
	horizon := now.Add(-l.policy.longest())

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(horizon)
	}

	hits := prune(l.hits[key], horizon)

	counts := make([]int64, len(windows))
	for i, w := range windows {
		since := now.Add(-w.duration)
		for _, h := range hits {
			if h.After(since) {
				counts[i]++
			}
		}
	}

	decision := tightest(windows, counts)
	if decision.Allowed {
		hits = append(hits, now)
	}
	if len(hits) == 0 {
		delete(l.hits, key)
	} else {
		l.hits[key] = hits
	}
	return decision, nil
}

// sweep drops keys with no hits after horizon.
func (l *InMemoryRateLimiter) sweep(horizon time.Time) {
	for key, hits := range l.hits {
		if len(prune(hits, horizon)) == 0 {
			delete(l.hits, key)
		}
	}
}

// prune cuts the prefix of hits at or before horizon. hits are appended in
// time order.
func prune(hits []time.Time, horizon time.Time) []time.Time {
	cut := 0
	for cut < len(hits) && !hits[cut].After(horizon) {
		cut++
	}
	return hits[cut:]
}
