package ratelimit

import (
	"context"
	"time"
)

// Policy caps requests per key over sliding windows. A zero limit disables
// that window.
type Policy struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

func (p Policy) windows() []window {
	return []window{
		{time.Minute, p.RequestsPerMinute},
		{time.Hour, p.RequestsPerHour},
	}
}

func (p Policy) longest() time.Duration {
	longest := time.Duration(0)
	for _, w := range p.windows() {
		if w.limit > 0 && w.duration > longest {
			longest = w.duration
		}
	}
	return longest
}

type window struct {
	duration time.Duration
	limit    int
}

// Decision is the outcome of one Allow call. Limit and Remaining describe the
// tightest enabled window.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// tightest folds per-window counts into a single decision. counts[i] is the
// number of hits already recorded in windows[i], excluding this request.
func tightest(windows []window, counts []int64) Decision {
	d := Decision{Allowed: true, Remaining: -1}
	for i, w := range windows {
		if w.limit <= 0 {
			continue
		}
		remaining := w.limit - int(counts[i])
		if remaining <= 0 {
			d.Allowed = false
			d.Limit = w.limit
			d.Remaining = 0
			if w.duration > d.RetryAfter {
				d.RetryAfter = w.duration
			}
			continue
		}
		if d.Allowed && (d.Remaining < 0 || remaining-1 < d.Remaining) {
			d.Limit = w.limit
			d.Remaining = remaining - 1
		}
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	return d
}
