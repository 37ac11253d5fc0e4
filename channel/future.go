package channel

import (
	"sync"
	"time"

	"github.com/titus12/ma-fibers-go/utils"
)

// 一次性的响应目的地，第一个Send的消息就是结果，之后的Send都会失败
// 每次发送请求(请求一定会有响应)都可以用一个FutureChannel来追踪响应
type FutureChannel struct {
	id     string
	once   sync.Once
	result chan interface{} // 结果只有一个，写入时不能阻塞，所以缓存是1
}

func NewFutureChannel() *FutureChannel {
	return &FutureChannel{
		id:     utils.GenUuid(),
		result: make(chan interface{}, 1),
	}
}

func (f *FutureChannel) Id() string {
	return f.id
}

func (f *FutureChannel) Send(message interface{}) error {
	err := ErrFutureCompleted
	f.once.Do(func() {
		f.result <- message
		err = nil
	})
	return err
}

// 等待结果回来，timeout<=0表示一直等待
// 结果只能被取走一次，再次调用会一直等到超时
func (f *FutureChannel) Result(timeout time.Duration) (interface{}, error) {
	if timeout <= 0 {
		return <-f.result, nil
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case r := <-f.result:
		return r, nil
	case <-t.C:
		return nil, ErrFutureTimeout
	}
}
