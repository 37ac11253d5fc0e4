package fiber

import (
	"github.com/sirupsen/logrus"

	"github.com/titus12/ma-fibers-go/metrics"
)

type options struct {
	name       string
	logger     logrus.FieldLogger
	dispatcher Dispatcher
	ringSize   int64
	metrics    metrics.FiberMetrics
}

type Option func(o *options)

func defaultOptions() *options {
	return &options{
		name:       "fiber",
		dispatcher: NewDefaultDispatcher(DefaultThroughput),
		metrics:    metrics.NopFiberMetrics(),
	}
}

// fiber的名称，出现在日志和统计里
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithDispatcher(d Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// 使用带锁的环形队列，默认是mpsc无锁队列
func WithRingQueue(initialSize int64) Option {
	return func(o *options) {
		o.ringSize = initialSize
	}
}

func WithMetrics(m metrics.FiberMetrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
