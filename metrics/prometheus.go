package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 延迟统计的桶(秒)
var latenessBuckets = []float64{
	.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1,
}

// Prometheus 同时实现了 FiberMetrics 与 SchedulerMetrics
type Prometheus struct {
	actionsTotal   *prometheus.CounterVec
	queueDepth     *prometheus.GaugeVec
	scheduledTotal *prometheus.CounterVec
	firedTotal     *prometheus.CounterVec
	cancelledTotal prometheus.Counter
	pending        prometheus.Gauge
	lateness       prometheus.Histogram
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibers_fiber_actions_total",
			Help: "Total number of fiber actions executed",
		}, []string{"fiber", "success"}),

		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fibers_fiber_queue_depth",
			Help: "Current number of queued fiber actions",
		}, []string{"fiber"}),

		scheduledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibers_scheduler_operations_scheduled_total",
			Help: "Total number of scheduled operations",
		}, []string{"periodic"}),

		firedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibers_scheduler_operations_fired_total",
			Help: "Total number of fired operations",
		}, []string{"periodic", "success"}),

		cancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibers_scheduler_operations_cancelled_total",
			Help: "Total number of cancelled operations dropped before firing",
		}),

		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fibers_scheduler_pending_operations",
			Help: "Number of operations waiting in the scheduler",
		}),

		lateness: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fibers_scheduler_fire_lateness_seconds",
			Help:    "Delay between due time and actual firing in seconds",
			Buckets: latenessBuckets,
		}),
	}

	reg.MustRegister(
		m.actionsTotal,
		m.queueDepth,
		m.scheduledTotal,
		m.firedTotal,
		m.cancelledTotal,
		m.pending,
		m.lateness,
	)
	return m
}

func (m *Prometheus) ActionExecuted(fiber string, success bool) {
	m.actionsTotal.WithLabelValues(fiber, strconv.FormatBool(success)).Inc()
}

func (m *Prometheus) QueueDepth(fiber string, depth int) {
	m.queueDepth.WithLabelValues(fiber).Set(float64(depth))
}

func (m *Prometheus) OperationScheduled(periodic bool) {
	m.scheduledTotal.WithLabelValues(strconv.FormatBool(periodic)).Inc()
}

func (m *Prometheus) OperationFired(periodic bool, success bool) {
	m.firedTotal.WithLabelValues(strconv.FormatBool(periodic), strconv.FormatBool(success)).Inc()
}

func (m *Prometheus) OperationCancelled() {
	m.cancelledTotal.Inc()
}

func (m *Prometheus) PendingOperations(n int) {
	m.pending.Set(float64(n))
}

func (m *Prometheus) FireLateness(d time.Duration) {
	if d < 0 {
		d = 0
	}
	m.lateness.Observe(d.Seconds())
}

var (
	_ FiberMetrics     = (*Prometheus)(nil)
	_ SchedulerMetrics = (*Prometheus)(nil)
)
