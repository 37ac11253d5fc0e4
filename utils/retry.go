package utils

import (
	"time"

	"github.com/pkg/errors"
)

// 在调用者的goroutine中重试fn，不会另外启动goroutine
// attempts: 最多执行次数
// sleep: 第一次重试前的间隔
// sleepRate: 间隔倍率，每一次重试间隔都会乘上这个倍率
// fn返回 NoRetryError 包装的错误时立即放弃
func Retry(attempts int, sleep time.Duration, sleepRate int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if s, ok := err.(stop); ok {
			return s.error
		}
		if i == attempts-1 {
			break
		}

		plog.Warnf("retry func error: %s. attempts left %d, next after %s", err, attempts-i-1, sleep)
		if sleep > 0 {
			time.Sleep(sleep)
		}
		sleep *= time.Duration(sleepRate)
	}
	return errors.Wrapf(err, "retry: gave up after %d attempts", attempts)
}

type stop struct {
	error
}

func NoRetryError(err error) error {
	return stop{err}
}
