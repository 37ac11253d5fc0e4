// Package metrics 定义fiber与调度器的统计接口，默认是空实现，prometheus.go提供Prometheus实现
package metrics

import "time"

// fiber的统计
type FiberMetrics interface {
	ActionExecuted(fiber string, success bool) // 一个动作执行完成(success=false表示动作panic了)
	QueueDepth(fiber string, depth int)        // 当前排队中的动作数量
}

// 调度器的统计
type SchedulerMetrics interface {
	OperationScheduled(periodic bool)
	OperationFired(periodic bool, success bool)
	OperationCancelled()
	PendingOperations(n int)

	// 实际触发时间与预定时间的差值
	FireLateness(d time.Duration)
}

type nopFiberMetrics struct{}

func (nopFiberMetrics) ActionExecuted(string, bool) {}
func (nopFiberMetrics) QueueDepth(string, int)      {}

type nopSchedulerMetrics struct{}

func (nopSchedulerMetrics) OperationScheduled(bool)    {}
func (nopSchedulerMetrics) OperationFired(bool, bool)  {}
func (nopSchedulerMetrics) OperationCancelled()        {}
func (nopSchedulerMetrics) PendingOperations(int)      {}
func (nopSchedulerMetrics) FireLateness(time.Duration) {}

func NopFiberMetrics() FiberMetrics { return nopFiberMetrics{} }

func NopSchedulerMetrics() SchedulerMetrics { return nopSchedulerMetrics{} }
