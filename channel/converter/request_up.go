package converter

import (
	"math"
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"github.com/titus12/ma-fibers-go/channel"
	"github.com/titus12/ma-fibers-go/utils"
)

// 用来识别 channel.Request[M] 的形状
var requestShape = reflect.TypeFor[channel.Request[struct{}]]()

var shuntValue = reflect.ValueOf(&channel.Shunt).Elem()

// 把任意消息包装成 channel.Request[M] (或 *channel.Request[M])，响应目的地绑定到 channel.Shunt
// 工厂创建后不可变，并发调用 CanConvertType 不需要加锁
type RequestUpConverterFactory[T any] struct {
	supported   bool
	messageType reflect.Type
	converter   Converter[T]
}

func NewRequestUpConverterFactory[T any]() *RequestUpConverterFactory[T] {
	f := &RequestUpConverterFactory[T]{}

	target := reflect.TypeFor[T]()
	envelope, isPtr := target, false
	if target.Kind() == reflect.Pointer {
		envelope, isPtr = target.Elem(), true
	}

	messageType, ok := requestMessageType(envelope)
	if !ok {
		return f
	}

	f.supported = true
	f.messageType = messageType
	f.converter = buildRequestConverter[T](envelope, isPtr, messageType)
	return f
}

func (f *RequestUpConverterFactory[T]) Supported() bool {
	return f.supported
}

// 信封里的消息类型M，不支持时为nil
func (f *RequestUpConverterFactory[T]) MessageType() reflect.Type {
	return f.messageType
}

func (f *RequestUpConverterFactory[T]) CanConvertType(input reflect.Type) (Converter[T], bool) {
	if !f.supported {
		return nil, false
	}
	if input == nil || !input.AssignableTo(f.messageType) {
		return nil, false
	}
	return f.converter, true
}

// t 是否是 channel.Request[M] 的某个实例化，是则返回M
func requestMessageType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct || t.PkgPath() != requestShape.PkgPath() {
		return nil, false
	}
	if !strings.HasPrefix(t.Name(), "Request[") || t.NumField() != requestShape.NumField() {
		return nil, false
	}

	var body reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f, shape := t.Field(i), requestShape.Field(i)
		if f.Name != shape.Name {
			return nil, false
		}
		if f.Name == "Body" {
			body = f.Type
			continue
		}
		if f.Type != shape.Type {
			return nil, false
		}
	}
	return body, body != nil
}

func buildRequestConverter[T any](envelope reflect.Type, isPtr bool, messageType reflect.Type) Converter[T] {
	idField, _ := envelope.FieldByName("RequestID")
	bodyField, _ := envelope.FieldByName("Body")
	channelField, _ := envelope.FieldByName("ResponseChannel")

	var castBody func(value interface{}) (reflect.Value, error)
	if isReferenceKind(messageType.Kind()) {
		castBody = referenceCast(messageType)
	} else {
		castBody = valueConversion(messageType)
	}

	return func(value interface{}) (T, error) {
		var zero T
		body, err := castBody(value)
		if err != nil {
			return zero, err
		}

		ptr := reflect.New(envelope)
		env := ptr.Elem()
		env.FieldByIndex(idField.Index).SetString(utils.NewId())
		env.FieldByIndex(bodyField.Index).Set(body)
		env.FieldByIndex(channelField.Index).Set(shuntValue)

		if isPtr {
			return ptr.Interface().(T), nil
		}
		return env.Interface().(T), nil
	}
}

func isReferenceKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// 引用类型: 类型不匹配时得到M的零值，不报错
func referenceCast(m reflect.Type) func(value interface{}) (reflect.Value, error) {
	return func(value interface{}) (reflect.Value, error) {
		if value != nil {
			v := reflect.ValueOf(value)
			if v.Type().AssignableTo(m) {
				return v, nil
			}
		}
		return reflect.Zero(m), nil
	}
}

// 值类型: 检查过的转换，不兼容时返回 ErrIncompatibleValue
func valueConversion(m reflect.Type) func(value interface{}) (reflect.Value, error) {
	return func(value interface{}) (reflect.Value, error) {
		if value == nil {
			return reflect.Value{}, errors.Wrapf(ErrIncompatibleValue, "nil to %s", m)
		}
		v := reflect.ValueOf(value)
		if v.Type().AssignableTo(m) {
			return v, nil
		}
		if !v.CanConvert(m) || !convertible(v, m) {
			return reflect.Value{}, errors.Wrapf(ErrIncompatibleValue, "%s to %s", v.Type(), m)
		}
		return v.Convert(m), nil
	}
}

// 数值转换不能丢失精度或溢出，整数也不能转成字符串
func convertible(v reflect.Value, m reflect.Type) bool {
	switch {
	case m.Kind() == reflect.String:
		return !isInt(v.Kind()) && !isUint(v.Kind())
	case isInt(m.Kind()):
		switch {
		case isInt(v.Kind()):
			return !reflect.Zero(m).OverflowInt(v.Int())
		case isUint(v.Kind()):
			return v.Uint() <= math.MaxInt64 && !reflect.Zero(m).OverflowInt(int64(v.Uint()))
		case isFloat(v.Kind()):
			f := v.Float()
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !reflect.Zero(m).OverflowInt(int64(f))
		}
	case isUint(m.Kind()):
		switch {
		case isInt(v.Kind()):
			return v.Int() >= 0 && !reflect.Zero(m).OverflowUint(uint64(v.Int()))
		case isUint(v.Kind()):
			return !reflect.Zero(m).OverflowUint(v.Uint())
		case isFloat(v.Kind()):
			f := v.Float()
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !reflect.Zero(m).OverflowUint(uint64(f))
		}
	case isFloat(m.Kind()) && isFloat(v.Kind()):
		return !reflect.Zero(m).OverflowFloat(v.Float())
	}
	return true
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

var _ Factory[channel.Request[int]] = (*RequestUpConverterFactory[channel.Request[int]])(nil)
