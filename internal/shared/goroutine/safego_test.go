package goroutine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"harvestcycle/internal/shared/logger"
)

func TestRun_RecoversPanic(t *testing.T) {
	ok := Run(logger.NewNop(), "panicky", func() { panic("boom") })
	assert.False(t, ok)
}

func TestRun_Completes(t *testing.T) {
	called := false
	ok := Run(logger.NewNop(), "fine", func() { called = true })
	assert.True(t, ok)
	assert.True(t, called)
}

func TestSafeGo_DoesNotCrashProcess(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	SafeGo(logger.NewNop(), "panicky", func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}
