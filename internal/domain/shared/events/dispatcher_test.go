package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvestcycle/internal/shared/logger"
)

func TestDispatcher_DeliversInOrderAndDrainsOnStop(t *testing.T) {
	d := NewInMemoryEventDispatcher(10, logger.NewNop())

	var mu sync.Mutex
	var seen []string
	require.NoError(t, d.Subscribe("thing.created", NewSimpleEventHandler("thing.created", func(e DomainEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.GetAggregateID())
		return nil
	})))
	require.NoError(t, d.Start())

	now := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, d.Publish(NewBaseEvent(id, "thing.created", now)))
	}
	require.NoError(t, d.Stop())

	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestDispatcher_HandlerFailureDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryEventDispatcher(10, logger.NewNop())

	calls := 0
	require.NoError(t, d.Subscribe("x", NewSimpleEventHandler("x", func(DomainEvent) error { return errors.New("fail") })))
	require.NoError(t, d.Subscribe("x", NewSimpleEventHandler("x", func(DomainEvent) error { panic("boom") })))
	require.NoError(t, d.Subscribe("x", NewSimpleEventHandler("x", func(DomainEvent) error { calls++; return nil })))
	require.NoError(t, d.Start())

	require.NoError(t, d.Publish(NewBaseEvent("id", "x", time.Now())))
	require.NoError(t, d.Stop())

	assert.Equal(t, 1, calls)
}

func TestDispatcher_PublishRequiresRunning(t *testing.T) {
	d := NewInMemoryEventDispatcher(1, logger.NewNop())
	assert.Error(t, d.Publish(NewBaseEvent("id", "x", time.Now())))

	assert.Error(t, d.Subscribe("", NewSimpleEventHandler("x", nil)))
	assert.Error(t, d.Stop())
}

func TestDispatcher_FullBuffer(t *testing.T) {
	d := NewInMemoryEventDispatcher(1, logger.NewNop())
	block := make(chan struct{})
	require.NoError(t, d.Subscribe("x", NewSimpleEventHandler("x", func(DomainEvent) error { <-block; return nil })))
	require.NoError(t, d.Start())

	// First event occupies the worker, second fills the buffer.
	require.NoError(t, d.Publish(NewBaseEvent("1", "x", time.Now())))
	require.Eventually(t, func() bool { return len(d.eventCh) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, d.Publish(NewBaseEvent("2", "x", time.Now())))
	assert.Error(t, d.Publish(NewBaseEvent("3", "x", time.Now())))

	close(block)
	require.NoError(t, d.Stop())
}
