// 提供多生产者，单消费者的无锁队列
package mpsc

import (
	"sync/atomic"
)

// 节点
type node[T any] struct {
	next atomic.Pointer[node[T]]
	val  T
}

// 多生产者可以并发 Push, 但 Pop 只能由一个消费者调用(fiber的排程状态保证了这一点)
type Queue[T any] struct {
	head atomic.Pointer[node[T]] // 生产者写入端
	tail *node[T]                // 消费者读取端，只有消费者访问
	len  atomic.Int64
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	stub := &node[T]{}
	q.head.Store(stub)
	q.tail = stub
	return q
}

func (q *Queue[T]) Push(x T) {
	n := &node[T]{val: x}
	prev := q.head.Swap(n)
	// prev.next 写入前的短暂窗口里，消费者会认为队列为空，由调用方的计数重检来弥补
	prev.next.Store(n)
	q.len.Add(1)
}

func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}
	q.tail = next
	v := next.val
	next.val = zero
	q.len.Add(-1)
	return v, true
}

func (q *Queue[T]) Length() int64 {
	return q.len.Load()
}
