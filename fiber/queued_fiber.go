package fiber

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/titus12/ma-fibers-go/internal/queue"
	"github.com/titus12/ma-fibers-go/internal/queue/goring"
	"github.com/titus12/ma-fibers-go/internal/queue/mpsc"
	"github.com/titus12/ma-fibers-go/metrics"
	"github.com/titus12/ma-fibers-go/utils"
)

// 下面是fiber的排程状态，要么空闲，要么运行中。
const (
	idle    int32 = iota // 空闲
	running              // 运行
)

// fiber的生命周期状态
const (
	stateActive   int32 = iota // 接收动作
	stateStopping              // 不再接收新动作，等待排空
	stateStopped               // 已停止，未执行的动作会被丢弃
)

// 基于队列的fiber，队列由单个消费者排空，消费者同一时刻最多只有一个
type QueuedFiber struct {
	name            string
	queue           queue.Queue[func()]
	schedulerStatus atomic.Int32 // 排程状态
	pending         atomic.Int32 // 排队中的动作数量
	state           atomic.Int32
	dispatcher      Dispatcher
	log             logrus.FieldLogger
	metrics         metrics.FiberMetrics
}

// 构建一个fiber，默认动作在独立的go程里执行
func New(opts ...Option) *QueuedFiber {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger().WithField("component", "fiber")
	}

	f := &QueuedFiber{
		name:       o.name,
		dispatcher: o.dispatcher,
		log:        o.logger.WithField("fiber", o.name),
		metrics:    o.metrics,
	}
	if o.ringSize > 0 {
		f.queue = goring.New[func()](o.ringSize)
	} else {
		f.queue = mpsc.New[func()]()
	}
	return f
}

// 构建一个同步的fiber，动作在调用Add的go程里执行(仍然保证串行)
func NewSynchronousFiber(opts ...Option) *QueuedFiber {
	opts = append([]Option{WithDispatcher(NewSynchronizedDispatcher(DefaultThroughput))}, opts...)
	return New(opts...)
}

func (f *QueuedFiber) Name() string {
	return f.name
}

// 排队中的动作数量
func (f *QueuedFiber) Len() int {
	return int(f.pending.Load())
}

func (f *QueuedFiber) Add(action func()) {
	if action == nil {
		return
	}
	if f.state.Load() != stateActive {
		f.log.Debug("fiber is shutting down, action dropped")
		return
	}
	f.push(action)
}

// 不能在本fiber的动作里调用，否则只能等到超时
func (f *QueuedFiber) Shutdown(timeout time.Duration) error {
	if !f.state.CompareAndSwap(stateActive, stateStopping) {
		return ErrFiberStopped
	}

	// 队列是有序的，标记动作执行时，之前投递的动作都已经执行完了
	drained := make(chan struct{})
	f.push(func() { close(drained) })

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-drained:
		f.state.Store(stateStopped)
		return nil
	case <-t.C:
		f.state.Store(stateStopped)
		return errors.Wrapf(ErrShutdownTimeout, "fiber %s, pending %d", f.name, f.pending.Load())
	}
}

func (f *QueuedFiber) push(action func()) {
	f.queue.Push(action)
	n := f.pending.Add(1)
	f.metrics.QueueDepth(f.name, int(n))
	f.schedule()
}

// 开始调度
func (f *QueuedFiber) schedule() {
	if f.schedulerStatus.CompareAndSwap(idle, running) {
		f.dispatcher.Schedule(f.processActions)
	}
}

func (f *QueuedFiber) processActions() {
process:
	f.run()
	// run里处理完后，把状态设置为idle
	f.schedulerStatus.Store(idle)

	// 再次检查是否还有动作要处理, 生产者可能在我们设置idle前已经放弃了调度
	if f.pending.Load() > 0 {
		if f.schedulerStatus.CompareAndSwap(idle, running) {
			goto process
		}
	}
}

func (f *QueuedFiber) run() {
	i, t := 0, f.dispatcher.Throughput()
	for {
		// 达到吞吐量时手动切换，以保证其他fiber能正常执行
		if i > t {
			i = 0
			runtime.Gosched()
		}
		i++

		action, ok := f.queue.Pop()
		if !ok {
			return
		}
		n := f.pending.Add(-1)
		f.metrics.QueueDepth(f.name, int(n))

		if f.state.Load() == stateStopped {
			continue
		}
		f.invoke(action)
	}
}

// 动作发生panic时只记录日志，fiber的执行流不能因此终止
func (f *QueuedFiber) invoke(action func()) {
	err := utils.Try(action)
	if err != nil {
		f.log.WithError(err).WithField("stack", utils.ErrorStack(err)).Error("fiber action panicked")
	}
	f.metrics.ActionExecuted(f.name, err == nil)
}

var _ Fiber = (*QueuedFiber)(nil)
