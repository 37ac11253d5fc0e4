package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)
	require.NotNil(t, m)

	m.ActionExecuted("scheduler", true)
	m.ActionExecuted("scheduler", false)
	m.QueueDepth("scheduler", 3)
	m.OperationScheduled(false)
	m.OperationScheduled(true)
	m.OperationFired(true, false)
	m.OperationCancelled()
	m.PendingOperations(7)
	m.FireLateness(2 * time.Millisecond)
	m.FireLateness(-time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["fibers_fiber_actions_total"])
	assert.True(t, names["fibers_scheduler_operations_fired_total"])
	assert.True(t, names["fibers_scheduler_fire_lateness_seconds"])

	assert.Equal(t, float64(7), testutil.ToFloat64(m.pending))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cancelledTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.actionsTotal.WithLabelValues("scheduler", "false")))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NopFiberMetrics().ActionExecuted("x", true)
		NopFiberMetrics().QueueDepth("x", 1)
		s := NopSchedulerMetrics()
		s.OperationScheduled(true)
		s.OperationFired(false, true)
		s.OperationCancelled()
		s.PendingOperations(1)
		s.FireLateness(time.Second)
	})
}
