package usecases

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/domain/shared/events"
)

type mockRepository struct {
	LockSubscriberFunc                  func(ctx context.Context, subscriberID string) error
	CreateFunc                          func(ctx context.Context, r *replacement.ReplacementRequest) error
	GetByIDFunc                         func(ctx context.Context, requestID string) (*replacement.ReplacementRequest, error)
	UpdateFunc                          func(ctx context.Context, r *replacement.ReplacementRequest) error
	ListFunc                            func(ctx context.Context, filter replacement.ListFilter) ([]*replacement.ReplacementRequest, error)
	CountCreatedBetweenFunc             func(ctx context.Context, subscriberID string, start, end time.Time) (int64, error)
	ExistsWeekStartBetweenFunc          func(ctx context.Context, subscriberID string, from, to time.Time) (bool, error)
	CountCreatedBetweenBySubscriberFunc func(ctx context.Context, subscriberIDs []string, start, end time.Time) (map[string]int64, error)
}

func (m *mockRepository) LockSubscriber(ctx context.Context, subscriberID string) error {
	if m.LockSubscriberFunc != nil {
		return m.LockSubscriberFunc(ctx, subscriberID)
	}
	return nil
}

func (m *mockRepository) Create(ctx context.Context, r *replacement.ReplacementRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, requestID string) (*replacement.ReplacementRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, requestID)
	}
	return nil, replacement.ErrNotFound
}

func (m *mockRepository) Update(ctx context.Context, r *replacement.ReplacementRequest) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, r)
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context, filter replacement.ListFilter) ([]*replacement.ReplacementRequest, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockRepository) CountCreatedBetween(ctx context.Context, subscriberID string, start, end time.Time) (int64, error) {
	if m.CountCreatedBetweenFunc != nil {
		return m.CountCreatedBetweenFunc(ctx, subscriberID, start, end)
	}
	return 0, nil
}

func (m *mockRepository) ExistsWeekStartBetween(ctx context.Context, subscriberID string, from, to time.Time) (bool, error) {
	if m.ExistsWeekStartBetweenFunc != nil {
		return m.ExistsWeekStartBetweenFunc(ctx, subscriberID, from, to)
	}
	return false, nil
}

func (m *mockRepository) CountCreatedBetweenBySubscriber(ctx context.Context, subscriberIDs []string, start, end time.Time) (map[string]int64, error) {
	if m.CountCreatedBetweenBySubscriberFunc != nil {
		return m.CountCreatedBetweenBySubscriberFunc(ctx, subscriberIDs, start, end)
	}
	return map[string]int64{}, nil
}

// memRepository is a goroutine-safe in-memory repository with the same
// uniqueness and version semantics as the SQL implementation.
type memRepository struct {
	mu       sync.Mutex
	requests map[string]*replacement.ReplacementRequest
}

func newMemRepository() *memRepository {
	return &memRepository{requests: make(map[string]*replacement.ReplacementRequest)}
}

func (m *memRepository) LockSubscriber(context.Context, string) error {
	return nil
}

func (m *memRepository) Create(_ context.Context, r *replacement.ReplacementRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.requests {
		if existing.SubscriberID() == r.SubscriberID() && existing.WeekStart().Equal(r.WeekStart()) {
			return replacement.ErrDuplicateWeekRequest
		}
	}
	m.requests[r.ID()] = clone(r)
	return nil
}

func (m *memRepository) GetByID(_ context.Context, requestID string) (*replacement.ReplacementRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[requestID]
	if !ok {
		return nil, replacement.ErrNotFound
	}
	return clone(r), nil
}

func (m *memRepository) Update(_ context.Context, r *replacement.ReplacementRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[r.ID()]
	if !ok || stored.Version() != r.Version() {
		return replacement.ErrConcurrentModification
	}
	r.SetVersion(r.Version() + 1)
	m.requests[r.ID()] = clone(r)
	return nil
}

func (m *memRepository) List(_ context.Context, filter replacement.ListFilter) ([]*replacement.ReplacementRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*replacement.ReplacementRequest
	for _, r := range m.requests {
		if filter.Status != nil && r.Status() != *filter.Status {
			continue
		}
		if filter.SubscriberID != nil && r.SubscriberID() != *filter.SubscriberID {
			continue
		}
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memRepository) CountCreatedBetween(_ context.Context, subscriberID string, start, end time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.requests {
		if r.SubscriberID() == subscriberID && !r.CreatedAt().Before(start) && !r.CreatedAt().After(end) {
			n++
		}
	}
	return n, nil
}

func (m *memRepository) ExistsWeekStartBetween(_ context.Context, subscriberID string, from, to time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.SubscriberID() == subscriberID && !r.WeekStart().Before(from) && r.WeekStart().Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepository) CountCreatedBetweenBySubscriber(ctx context.Context, subscriberIDs []string, start, end time.Time) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, id := range subscriberIDs {
		n, _ := m.CountCreatedBetween(ctx, id, start, end)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (m *memRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func clone(r *replacement.ReplacementRequest) *replacement.ReplacementRequest {
	c, err := replacement.ReconstructReplacementRequest(
		r.ID(), r.SubscriberID(), r.WeekStart(), r.Type(), r.Reason(), r.Status(),
		r.AppliedToOrderID(), r.AdminNotes(), r.Version(), r.CreatedAt(), r.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type txLocksKey struct{}

// lockingTx releases the row locks taken inside fn when fn returns, the
// way a database releases them on commit or rollback.
type lockingTx struct{}

func (lockingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	var held []func()
	err := fn(context.WithValue(ctx, txLocksKey{}, &held))
	for _, release := range held {
		release()
	}
	return err
}

// rowLockRepository is one process's view of a shared store. rows stands in
// for the subscriber lock rows every process sees.
type rowLockRepository struct {
	*memRepository
	rows         *keyedLocker
	beforeExists func()
}

func (r *rowLockRepository) LockSubscriber(ctx context.Context, subscriberID string) error {
	release, err := r.rows.Acquire(ctx, subscriberID)
	if err != nil {
		return err
	}
	if held, ok := ctx.Value(txLocksKey{}).(*[]func()); ok {
		*held = append(*held, release)
	} else {
		release()
	}
	return nil
}

func (r *rowLockRepository) ExistsWeekStartBetween(ctx context.Context, subscriberID string, from, to time.Time) (bool, error) {
	if r.beforeExists != nil {
		r.beforeExists()
	}
	return r.memRepository.ExistsWeekStartBetween(ctx, subscriberID, from, to)
}

// keyedLocker serializes callers per subscriber.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	err   error
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocker) Acquire(_ context.Context, subscriberID string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	m, ok := l.locks[subscriberID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[subscriberID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
	err       error
}

func (p *mockPublisher) Publish(e events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}

func (p *mockPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.GetEventType())
	}
	return out
}

type trimSanitizer struct{}

func (trimSanitizer) PlainText(input string) string {
	return strings.TrimSpace(strings.NewReplacer("<b>", "", "</b>", "").Replace(input))
}
