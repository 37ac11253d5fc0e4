package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/titus12/ma-fibers-go/utils"
)

// 一个等待触发的定时动作的句柄，由 Schedule/ScheduleEvery 返回
type Operation struct {
	id          string
	periodic    bool
	scheduledAt atomic.Int64 // 最近一次的触发时间(UnixNano)，只用于查看
	cancelled   atomic.Bool

	pending bool   // 是否在列表中，只在调度器的fiber上访问
	execute func() // 触发时由调度器调用
}

func newOperation(periodic bool) *Operation {
	return &Operation{
		id:       utils.NewId(),
		periodic: periodic,
	}
}

func (op *Operation) ID() string {
	return op.id
}

func (op *Operation) Periodic() bool {
	return op.periodic
}

// 最近一次安排的触发时间
func (op *Operation) ScheduledAt() time.Time {
	return time.Unix(0, op.scheduledAt.Load())
}

// 取消操作，到期时会被跳过，周期性操作不再重新排入
// 已经被取出执行的动作不会被撤回
func (op *Operation) Cancel() {
	op.cancelled.Store(true)
}

func (op *Operation) Cancelled() bool {
	return op.cancelled.Load()
}
