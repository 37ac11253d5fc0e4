package scheduler

import (
	"container/heap"
	"time"
)

// 列表里的一项，不可变；周期性操作重新排入时会产生新的一项
type entry struct {
	op    *Operation
	dueAt time.Time
	seq   uint64 // 插入序号，触发时间相同时按插入顺序
}

// entryHeap implements container/heap.Interface, earliest dueAt first.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].dueAt.Equal(h[j].dueAt) {
		return h[i].seq < h[j].seq
	}
	return h[i].dueAt.Before(h[j].dueAt)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return x
}

// 按触发时间排序的待触发操作列表
// 本身不是线程安全的，只能在调度器的fiber上修改
type OperationList struct {
	entries entryHeap
	seq     uint64
}

func NewOperationList() *OperationList {
	return &OperationList{}
}

func (l *OperationList) Len() int {
	return len(l.entries)
}

// 加入一个操作，操作已经在列表中时不会重复加入，返回false
func (l *OperationList) Add(op *Operation, dueAt time.Time) bool {
	if op.pending {
		return false
	}
	op.pending = true
	op.scheduledAt.Store(dueAt.UnixNano())

	l.seq++
	heap.Push(&l.entries, entry{op: op, dueAt: dueAt, seq: l.seq})
	return true
}

// 最早的触发时间，列表为空时返回false；已经过期的返回now
func (l *OperationList) NextScheduledTime(now time.Time) (time.Time, bool) {
	if len(l.entries) == 0 {
		return time.Time{}, false
	}
	next := l.entries[0].dueAt
	if next.Before(now) {
		return now, true
	}
	return next, true
}

// 取出所有在now或now之前到期的操作，按触发时间排序；取出的操作不会再被返回
func (l *OperationList) ExpiredActions(now time.Time) []*Operation {
	var expired []*Operation
	for len(l.entries) > 0 && !l.entries[0].dueAt.After(now) {
		e := heap.Pop(&l.entries).(entry)
		e.op.pending = false
		expired = append(expired, e.op)
	}
	return expired
}
