package fiber

import (
	"github.com/titus12/ma-fibers-go/utils"
)

// Dispatcher 决定fiber的排空循环在哪里运行，以及每轮最多执行多少个动作后让出cpu
type Dispatcher interface {
	Schedule(drain func())
	Throughput() int
}

// 排空循环在新的go程里运行，队列空了go程就退出，空闲的fiber不占用go程
type goroutineDispatcher struct {
	throughput int
}

func (d goroutineDispatcher) Schedule(drain func()) {
	go func() {
		// 动作的panic在invoke里处理，这里只兜住排空循环本身
		defer utils.PrintPanicStack()
		drain()
	}()
}

func (d goroutineDispatcher) Throughput() int {
	return d.throughput
}

// 排空循环就在调用Add的go程里运行，Add返回时动作已经执行完，用于确定性的fiber和测试。
// 动作里再次Add同一个fiber时排程状态是running，只会入队，由外层的循环接着执行
type inlineDispatcher struct {
	throughput int
}

func (d inlineDispatcher) Schedule(drain func()) {
	drain()
}

func (d inlineDispatcher) Throughput() int {
	return d.throughput
}

// 默认调度器，throughput<=0 时使用 DefaultThroughput
func NewDefaultDispatcher(throughput int) Dispatcher {
	return goroutineDispatcher{throughput: normalizeThroughput(throughput)}
}

func NewSynchronizedDispatcher(throughput int) Dispatcher {
	return inlineDispatcher{throughput: normalizeThroughput(throughput)}
}

func normalizeThroughput(n int) int {
	if n <= 0 {
		return DefaultThroughput
	}
	return n
}
