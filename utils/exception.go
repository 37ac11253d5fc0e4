package utils

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var plog = logrus.WithField("pkg", "utils")

// 执行f，如果f发生了panic，则把panic转换成带调用栈的error返回，调用者自行决定如何处理
// 这是调度器隔离用户代码的唯一方式，用户代码出了问题不能让fiber的执行流终止
func Try(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = RecoverError(r)
		}
	}()
	f()
	return nil
}

// 把recover()得到的值转换成error
func RecoverError(r interface{}) error {
	switch x := r.(type) {
	case error:
		return errors.WithStack(x)
	case string:
		return errors.New(x)
	default:
		return errors.Errorf("panic: %v", x)
	}
}

// 打印panic的调用栈，必须直接以 defer PrintPanicStack() 的方式使用
func PrintPanicStack() {
	if r := recover(); r != nil {
		plog.WithFields(logrus.Fields{
			"reason": r,
			"stack":  Stack(),
		}).Error("recovered from panic")
	}
}

// 当前goroutine的调用栈
func Stack() string {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

// 带栈信息的错误描述，用于日志字段
func ErrorStack(err error) string {
	return fmt.Sprintf("%+v", err)
}
