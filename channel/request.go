package channel

import (
	"github.com/titus12/ma-fibers-go/utils"
)

// 消息头
type MessageHeader map[string]string

func (m MessageHeader) Get(key string) string {
	return m[key]
}

func (m MessageHeader) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (m MessageHeader) Length() int {
	return len(m)
}

// 请求信封，把消息和响应目的地配成一对，RequestID用于关联请求和响应
// 字段必须是导出的，converter通过反射构建信封
type Request[M any] struct {
	RequestID       string
	Header          MessageHeader
	Body            M
	ResponseChannel UntypedChannel
}

func NewRequest[M any](responseChannel UntypedChannel, body M) Request[M] {
	return Request[M]{
		RequestID:       utils.NewId(),
		Body:            body,
		ResponseChannel: responseChannel,
	}
}

// 把响应发送到请求的响应目的地
func (r Request[M]) Respond(response interface{}) error {
	if r.ResponseChannel == nil {
		return ErrNoResponseChannel
	}
	return r.ResponseChannel.Send(response)
}

func (r Request[M]) GetHeader(key string) string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get(key)
}

func (r *Request[M]) SetHeader(key, value string) {
	if r.Header == nil {
		r.Header = make(MessageHeader)
	}
	r.Header[key] = value
}
