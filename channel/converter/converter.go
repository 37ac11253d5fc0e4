// Package converter 负责在运行时把任意的消息适配成目标类型，典型的目标类型是 channel.Request[M]。
// 昂贵的类型分析和适配函数的构建在工厂创建时只做一次，之后每条消息只调用已经构建好的函数。
package converter

import (
	"reflect"

	"github.com/pkg/errors"
)

var (
	ErrIncompatibleValue = errors.New("converter: value is not convertible to message type")
	ErrNoConverter       = errors.New("converter: no converter for value")
)

// 把一个值转换成目标类型T
type Converter[T any] func(value interface{}) (T, error)

// 针对目标类型T的转换器工厂
type Factory[T any] interface {
	// 输入类型是否可以转换成T，可以则返回预先构建好的转换器
	CanConvertType(input reflect.Type) (Converter[T], bool)
}

// 以调用者的静态类型I进行探测
func CanConvert[T, I any](f Factory[T], input I) (Converter[T], bool) {
	return f.CanConvertType(reflect.TypeFor[I]())
}

// 输入本身就可以赋值给T的情况
type AssignableConverterFactory[T any] struct {
	target    reflect.Type
	converter Converter[T]
}

func NewAssignableConverterFactory[T any]() *AssignableConverterFactory[T] {
	target := reflect.TypeFor[T]()
	return &AssignableConverterFactory[T]{
		target: target,
		converter: func(value interface{}) (T, error) {
			t, ok := value.(T)
			if !ok {
				return t, errors.Wrapf(ErrIncompatibleValue, "%T to %s", value, target)
			}
			return t, nil
		},
	}
}

func (f *AssignableConverterFactory[T]) CanConvertType(input reflect.Type) (Converter[T], bool) {
	if input == nil || !input.AssignableTo(f.target) {
		return nil, false
	}
	return f.converter, true
}

// 按顺序探测一组工厂，第一个可以转换的工厂胜出
type Chain[T any] struct {
	factories []Factory[T]
}

func NewChain[T any](factories ...Factory[T]) *Chain[T] {
	return &Chain[T]{factories: factories}
}

// 默认的链: 先尝试直接赋值，再尝试包装成请求
func DefaultChain[T any]() *Chain[T] {
	return NewChain[T](NewAssignableConverterFactory[T](), NewRequestUpConverterFactory[T]())
}

func (c *Chain[T]) CanConvertType(input reflect.Type) (Converter[T], bool) {
	for _, f := range c.factories {
		if conv, ok := f.CanConvertType(input); ok {
			return conv, true
		}
	}
	return nil, false
}

// 以value的动态类型进行探测并转换
func (c *Chain[T]) Convert(value interface{}) (T, error) {
	conv, ok := c.CanConvertType(reflect.TypeOf(value))
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrNoConverter, "%T to %s", value, reflect.TypeFor[T]())
	}
	return conv(value)
}

var (
	_ Factory[int] = (*AssignableConverterFactory[int])(nil)
	_ Factory[int] = (*Chain[int])(nil)
)
