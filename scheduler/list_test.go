package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationList_ExpiredInDueOrder(t *testing.T) {
	clock := clockwork.NewFakeClock()
	t0 := clock.Now()
	l := NewOperationList()

	due := make(map[*Operation]time.Time)
	for _, i := range rand.Perm(50) {
		op := newOperation(false)
		at := t0.Add(time.Duration(i+1) * time.Millisecond)
		due[op] = at
		require.True(t, l.Add(op, at))
	}
	assert.Equal(t, 50, l.Len())

	seen := make(map[*Operation]bool)
	var last time.Time
	for step := 10; step <= 60; step += 10 {
		for _, op := range l.ExpiredActions(t0.Add(time.Duration(step) * time.Millisecond)) {
			assert.False(t, seen[op], "operation returned twice")
			seen[op] = true
			assert.False(t, due[op].Before(last), "due order must be non-decreasing")
			last = due[op]
		}
	}
	assert.Len(t, seen, 50)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.ExpiredActions(t0.Add(time.Hour)))
}

func TestOperationList_EqualDueKeepsInsertionOrder(t *testing.T) {
	t0 := time.Now()
	l := NewOperationList()

	ops := make([]*Operation, 10)
	for i := range ops {
		ops[i] = newOperation(false)
		l.Add(ops[i], t0)
	}
	assert.Equal(t, ops, l.ExpiredActions(t0))
}

func TestOperationList_NotYetDue(t *testing.T) {
	t0 := time.Now()
	l := NewOperationList()
	op := newOperation(false)
	l.Add(op, t0.Add(100*time.Millisecond))

	assert.Empty(t, l.ExpiredActions(t0.Add(50*time.Millisecond)))
	assert.Equal(t, []*Operation{op}, l.ExpiredActions(t0.Add(100*time.Millisecond)))
}

func TestOperationList_NextScheduledTime(t *testing.T) {
	t0 := time.Now()
	l := NewOperationList()

	_, ok := l.NextScheduledTime(t0)
	assert.False(t, ok)

	l.Add(newOperation(false), t0.Add(30*time.Millisecond))
	l.Add(newOperation(false), t0.Add(10*time.Millisecond))

	next, ok := l.NextScheduledTime(t0)
	require.True(t, ok)
	assert.True(t, next.Equal(t0.Add(10*time.Millisecond)))

	// 已经过期的返回now
	later := t0.Add(20 * time.Millisecond)
	next, ok = l.NextScheduledTime(later)
	require.True(t, ok)
	assert.True(t, next.Equal(later))
}

func TestOperationList_NoDuplicatePending(t *testing.T) {
	t0 := time.Now()
	l := NewOperationList()
	op := newOperation(true)

	require.True(t, l.Add(op, t0))
	assert.False(t, l.Add(op, t0.Add(time.Second)))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, t0.UnixNano(), op.ScheduledAt().UnixNano())

	require.Len(t, l.ExpiredActions(t0), 1)

	// 取出后可以用新的时间重新加入
	require.True(t, l.Add(op, t0.Add(time.Second)))
	assert.Equal(t, t0.Add(time.Second).UnixNano(), op.ScheduledAt().UnixNano())
}
