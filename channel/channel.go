// Package channel 定义消息的响应目的地(UntypedChannel)以及请求信封(Request)。
// 一个请求消息一定会带着一个响应目的地，不需要响应时使用 Shunt，发给它的一切都会被丢弃。
package channel

import (
	"github.com/pkg/errors"
)

var (
	ErrNoResponseChannel = errors.New("channel: request has no response channel")
	ErrFutureCompleted   = errors.New("future: already completed")
	ErrFutureTimeout     = errors.New("future: timeout")
)

// 响应目的地
type UntypedChannel interface {
	Send(message interface{}) error
}

// 丢弃通道，发送总是成功，消息直接丢弃
type ShuntChannel struct{}

func (ShuntChannel) Send(interface{}) error {
	return nil
}

// 共享的丢弃通道，不需要响应的请求都绑定到它
var Shunt UntypedChannel = ShuntChannel{}

// 把一个方法适配成响应目的地
type FuncChannel func(message interface{}) error

func (f FuncChannel) Send(message interface{}) error {
	return f(message)
}
