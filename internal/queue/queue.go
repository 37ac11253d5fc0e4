package queue

// 队列接口定义, goring与mpsc是其实现, fiber用它来存放待执行的动作
type Queue[T any] interface {
	Push(T)
	Pop() (T, bool)
	Length() int64
}
