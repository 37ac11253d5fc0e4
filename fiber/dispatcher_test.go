package fiber

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Throughput(t *testing.T) {
	assert.Equal(t, 10, NewDefaultDispatcher(10).Throughput())
	assert.Equal(t, DefaultThroughput, NewDefaultDispatcher(0).Throughput())
	assert.Equal(t, DefaultThroughput, NewSynchronizedDispatcher(-1).Throughput())
}

func TestDispatcher_SynchronizedRunsInline(t *testing.T) {
	ran := false
	NewSynchronizedDispatcher(1).Schedule(func() { ran = true })
	assert.True(t, ran)
}

func TestDispatcher_GoroutineSurvivesDrainPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	NewDefaultDispatcher(1).Schedule(func() {
		defer wg.Done()
		panic("drain failed")
	})
	wg.Wait()

	// 调度器本身仍然可用
	wg.Add(1)
	ran := false
	NewDefaultDispatcher(1).Schedule(func() {
		defer wg.Done()
		ran = true
	})
	wg.Wait()
	assert.True(t, ran)
}
