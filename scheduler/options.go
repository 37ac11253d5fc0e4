package scheduler

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/titus12/ma-fibers-go/metrics"
)

// Stop 等待fiber排空的上限
const DefaultStopTimeout = 60 * time.Second

type options struct {
	logger      logrus.FieldLogger
	clock       clockwork.Clock
	metrics     metrics.SchedulerMetrics
	stopTimeout time.Duration
}

type Option func(o *options)

func defaultOptions() *options {
	return &options{
		clock:       clockwork.NewRealClock(),
		metrics:     metrics.NopSchedulerMetrics(),
		stopTimeout: DefaultStopTimeout,
	}
}

// 动作失败时的日志输出，记录日志不能阻塞
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithMetrics(m metrics.SchedulerMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func WithStopTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.stopTimeout = d
		}
	}
}
