package lock

import (
	"context"
	"sync"
)

// InMemorySubscriberLocker serializes work per subscriber within one process.
// It is used when Redis is disabled.
type InMemorySubscriberLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewInMemorySubscriberLocker() *InMemorySubscriberLocker {
	return &InMemorySubscriberLocker{slots: make(map[string]*slot)}
}

// Acquire waits for the subscriber's slot or ctx cancellation.
func (l *InMemorySubscriberLocker) Acquire(ctx context.Context, subscriberID string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[subscriberID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[subscriberID] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(subscriberID, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(subscriberID, s)
		})
	}, nil
}

func (l *InMemorySubscriberLocker) unref(subscriberID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, subscriberID)
	}
}

func (l *InMemorySubscriberLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
