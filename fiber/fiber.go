// Package fiber 提供单一执行流的上下文：投递进来的动作按投递顺序逐个执行，
// 同一个fiber上的动作之间永远不会并发。实现上沿用了actor邮箱的做法，
// 一个无锁队列加上 idle/running 的排程状态，没有动作时不占用go程。
package fiber

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrShutdownTimeout = errors.New("fiber: shutdown timeout, pending actions discarded")
	ErrFiberStopped    = errors.New("fiber: already stopped")
)

const DefaultThroughput = 300

// Fiber 单一执行流
type Fiber interface {
	// 投递一个动作，动作在fiber自己的执行流上执行，严格排在之前投递的动作之后
	Add(action func())

	// 停止接收新的动作，最多等待timeout让已投递的动作执行完，超时则丢弃未执行的动作
	Shutdown(timeout time.Duration) error
}
