// Package scheduler 在fiber上串行地触发一次性和周期性的定时动作。
//
// 所有的内部状态(操作列表)只在调度器自己的fiber上修改，由fiber保证顺序；
// 唯一的例外是定时器，它既被定时器自己的回调访问，也被 Stop 访问，两者由同一把锁保护。
// 同一时刻最多只有一个定时器，重新安排时复用它而不是重新创建。
package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/titus12/ma-fibers-go/fiber"
	"github.com/titus12/ma-fibers-go/metrics"
	"github.com/titus12/ma-fibers-go/utils"
)

var ErrSchedulerStopped = errors.New("scheduler: already stopped")

type Scheduler interface {
	// delay之后在target上执行一次action，target为nil时在调度器自己的fiber上执行
	Schedule(delay time.Duration, target fiber.Fiber, action func()) *Operation

	// delay之后开始，每次执行完成后间隔period再执行，action失败也不会中断
	ScheduleEvery(delay, period time.Duration, target fiber.Fiber, action func()) *Operation

	// 停止调度器，之后不会再有动作被触发；只能由一个调用者调用。
	// 不能在调度器自己fiber上的动作里调用，否则要等满停止超时才返回 ErrShutdownTimeout
	Stop() error
}

type TimerScheduler struct {
	operations  *OperationList
	fiber       fiber.Fiber
	clock       clockwork.Clock
	log         logrus.FieldLogger
	metrics     metrics.SchedulerMetrics
	stopTimeout time.Duration

	stopped atomic.Bool

	mu       sync.Mutex // 保护 timer 与 disposed
	timer    clockwork.Timer
	disposed bool

	// 列表状态的快照，供fiber之外查看
	count   atomic.Int64
	nextDue atomic.Int64
}

// 调度器接管f，Stop时会关闭它
func NewTimerScheduler(f fiber.Fiber, opts ...Option) *TimerScheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger().WithField("component", "scheduler")
	}

	return &TimerScheduler{
		operations:  NewOperationList(),
		fiber:       f,
		clock:       o.clock,
		log:         o.logger,
		metrics:     o.metrics,
		stopTimeout: o.stopTimeout,
	}
}

func (s *TimerScheduler) Schedule(delay time.Duration, target fiber.Fiber, action func()) *Operation {
	op := newOperation(false)
	op.execute = func() {
		s.deliver(op, target, func() {
			s.run(op, action)
		})
	}

	s.metrics.OperationScheduled(false)
	s.schedule(op, s.dueAt(delay))
	return op
}

func (s *TimerScheduler) ScheduleEvery(delay, period time.Duration, target fiber.Fiber, action func()) *Operation {
	op := newOperation(true)
	op.execute = func() {
		s.deliver(op, target, func() {
			s.run(op, action)

			// 不管成功与否都要重新排入，周期链只会被 Stop 或 Cancel 打断
			if !op.Cancelled() && !s.stopped.Load() {
				s.schedule(op, s.dueAt(period))
			}
		})
	}

	s.metrics.OperationScheduled(true)
	s.schedule(op, s.dueAt(delay))
	return op
}

// 见 Scheduler.Stop，在本调度器fiber的动作里调用会阻塞到停止超时
func (s *TimerScheduler) Stop() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return ErrSchedulerStopped
	}

	s.mu.Lock()
	s.disposed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	// 关闭fiber时不能持有锁，fiber上的排空动作可能正在等这把锁
	if err := s.fiber.Shutdown(s.stopTimeout); err != nil {
		return errors.Wrap(err, "scheduler: stop fiber")
	}
	return nil
}

// 列表中等待触发的操作数量
func (s *TimerScheduler) Len() int {
	return int(s.count.Load())
}

func (s *TimerScheduler) String() string {
	next := "None"
	if n := s.nextDue.Load(); n != 0 {
		next = time.Unix(0, n).Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("TimerScheduler ( Count: %d, Next: %s )", s.Len(), next)
}

func (s *TimerScheduler) dueAt(d time.Duration) time.Time {
	return s.clock.Now().Add(d)
}

// 句柄上的触发时间在投递前就写好，fiber忙的时候调用者也能看到
func (s *TimerScheduler) schedule(op *Operation, dueAt time.Time) {
	op.scheduledAt.Store(dueAt.UnixNano())
	s.fiber.Add(func() {
		if !s.operations.Add(op, dueAt) {
			s.log.WithField("operation", op.id).Warn("operation already pending, ignored")
		}
		s.executeExpiredActions()
	})
}

// 把动作投递到目标fiber，执行前再检查一次，Stop之后不能再有动作执行
func (s *TimerScheduler) deliver(op *Operation, target fiber.Fiber, action func()) {
	if target == nil {
		target = s.fiber
	}
	target.Add(func() {
		if s.stopped.Load() || op.Cancelled() {
			return
		}
		action()
	})
}

// 执行用户的动作，失败只记录，不向外传播
func (s *TimerScheduler) run(op *Operation, action func()) {
	err := utils.Try(action)
	s.metrics.OperationFired(op.periodic, err == nil)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"operation": op.id,
			"periodic":  op.periodic,
			"stack":     utils.ErrorStack(err),
		}).Error("scheduled action failed")
	}
}

// 只在调度器的fiber上执行
func (s *TimerScheduler) executeExpiredActions() {
	if s.stopped.Load() {
		return
	}

	for {
		now := s.clock.Now()
		expired := s.operations.ExpiredActions(now)
		if len(expired) == 0 {
			break
		}

		for _, op := range expired {
			if op.Cancelled() {
				s.metrics.OperationCancelled()
				continue
			}
			s.metrics.FireLateness(now.Sub(op.ScheduledAt()))

			if err := utils.Try(op.execute); err != nil {
				s.log.WithError(err).WithField("operation", op.id).Error("scheduled operation failed")
			}
		}
	}

	s.scheduleTimer()
}

func (s *TimerScheduler) scheduleTimer() {
	now := s.clock.Now()
	next, ok := s.operations.NextScheduledTime(now)

	s.count.Store(int64(s.operations.Len()))
	s.metrics.PendingOperations(s.operations.Len())
	if !ok {
		s.nextDue.Store(0)
		return
	}
	s.nextDue.Store(next.UnixNano())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}

	dueTime := next.Sub(now)
	if s.timer != nil {
		s.timer.Reset(dueTime)
	} else {
		s.timer = s.clock.AfterFunc(dueTime, s.onTimer)
	}
}

// 定时器回调在另外的go程里，只负责把排空动作投递到fiber上
func (s *TimerScheduler) onTimer() {
	s.fiber.Add(s.executeExpiredActions)
}

var _ Scheduler = (*TimerScheduler)(nil)
