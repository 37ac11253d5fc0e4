// 传统环状队列，用锁来保证并发安全，容量不够时按2倍扩容
package goring

import (
	"sync"
	"sync/atomic"
)

type ringBuffer[T any] struct {
	buffer []T
	head   int64
	tail   int64
	mod    int64
}

type Queue[T any] struct {
	len     atomic.Int64
	content *ringBuffer[T]
	lock    sync.Mutex
}

func New[T any](initialSize int64) *Queue[T] {
	if initialSize < 2 {
		initialSize = 2
	}
	return &Queue[T]{
		content: &ringBuffer[T]{
			buffer: make([]T, initialSize),
			mod:    initialSize,
		},
	}
}

func (q *Queue[T]) Push(item T) {
	q.lock.Lock()
	defer q.lock.Unlock()

	c := q.content
	c.tail = (c.tail + 1) % c.mod
	if c.tail == c.head {
		var fillFactor int64 = 2
		newLen := c.mod * fillFactor
		newBuff := make([]T, newLen)

		for i := int64(0); i < c.mod; i++ {
			buffIndex := (c.tail + i) % c.mod
			newBuff[i] = c.buffer[buffIndex]
		}

		q.content = &ringBuffer[T]{
			buffer: newBuff,
			head:   0,
			tail:   c.mod,
			mod:    newLen,
		}
	}
	q.len.Add(1)
	q.content.buffer[q.content.tail] = item
}

func (q *Queue[T]) Length() int64 {
	return q.len.Load()
}

func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.Length() == 0 {
		return zero, false
	}

	q.lock.Lock()
	defer q.lock.Unlock()

	c := q.content
	c.head = (c.head + 1) % c.mod
	res := c.buffer[c.head]
	c.buffer[c.head] = zero
	q.len.Add(-1)
	return res, true
}
