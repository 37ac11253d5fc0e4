// Package wlog 初始化logrus日志: 控制台带调用行号，可选按时间切割的文件输出，可选通过kafka输出到ELK
package wlog

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	Linux   int = 1 << 1
	Windows int = 1 << 2
	Darwin  int = 1 << 3
)

// 切割时间
type slicTime struct {
	dur    time.Duration
	format string
}

func newSlicTime(dur time.Duration, format string) *slicTime {
	return &slicTime{dur: dur, format: format}
}

var (
	Day    = newSlicTime(24*time.Hour, "%Y%m%d")
	Hour   = newSlicTime(time.Hour, "%Y%m%d%H")
	Minute = newSlicTime(time.Minute, "%Y%m%d%H%M")
)

// 按名称取切割周期: day, hour, minute
func Slice(name string) (*slicTime, error) {
	switch strings.ToLower(name) {
	case "day", "":
		return Day, nil
	case "hour":
		return Hour, nil
	case "minute":
		return Minute, nil
	}
	return nil, errors.Errorf("wlog: unknown slice %q", name)
}

// 日志级别，支持 "Debug"/"debug" 两种写法，不认识的返回Info
func LogLevel(level string) logrus.Level {
	switch level {
	case "Panic":
		return logrus.PanicLevel
	case "Fatal":
		return logrus.FatalLevel
	case "Error":
		return logrus.ErrorLevel
	case "Warn":
		return logrus.WarnLevel
	case "Info":
		return logrus.InfoLevel
	case "Debug":
		return logrus.DebugLevel
	}
	if l, err := logrus.ParseLevel(level); err == nil {
		return l
	}
	return logrus.InfoLevel
}

type Option func(logger *logrus.Logger) error

// 初始化进程的全局日志(logrus.StandardLogger)
func Initialize(level logrus.Level, opts ...Option) (*logrus.Logger, error) {
	logger := logrus.StandardLogger()
	if err := setup(logger, level, opts...); err != nil {
		return nil, err
	}
	return logger, nil
}

// 构建一个独立的日志，用于注入到组件中
func New(level logrus.Level, opts ...Option) (*logrus.Logger, error) {
	logger := logrus.New()
	if err := setup(logger, level, opts...); err != nil {
		return nil, err
	}
	return logger, nil
}

func setup(logger *logrus.Logger, level logrus.Level, opts ...Option) error {
	logger.SetLevel(level)
	logger.AddHook(newConsoleHook())
	for _, opt := range opts {
		if err := opt(logger); err != nil {
			return err
		}
	}
	return nil
}

// 组件日志，带上component字段
func Component(logger logrus.FieldLogger, name string) logrus.FieldLogger {
	return logger.WithField("component", name)
}

// 设置日志打印到文件
// file: 文件名，全路径或相对路径，但这不仅是一个文件名，还包含路径
// goos: 进行初始化的操作系统 (Linux, Windows, Darwin)，当前系统不在其中时什么也不做
// dur: 日志会按时间切割，这个是切割周期(Day,Hour,Minute)
// rotation: 旋转数量，日志文件切割后保留的最大数量，超过后会自动删除
func WithFile(file string, goos int, dur *slicTime, rotation int) Option {
	return func(logger *logrus.Logger) error {
		if !matchOS(goos) {
			return nil
		}

		p := fmt.Sprintf("%s.%s", file, dur.format)
		writer, err := rotatelogs.New(
			p,
			rotatelogs.WithRotationTime(dur.dur),
			rotatelogs.WithRotationCount(uint(rotation)),
			rotatelogs.WithLinkName(file),
		)
		if err != nil {
			return errors.Wrap(err, "wlog: init rotate file")
		}
		logger.AddHook(newFileHook(writer))
		return nil
	}
}

// 设置日志打印到ELK套件
// kafkaBrokers: kafka集群地址
// appName: 给打印设置一个名称
// topic: 打印到哪个主题
func WithELK(kafkaBrokers []string, appName, topic string) Option {
	return func(logger *logrus.Logger) error {
		if len(kafkaBrokers) == 0 {
			return errors.New("wlog: kafka brokers required")
		}
		if len(appName) <= 0 {
			return errors.New("wlog: app name required")
		}
		if len(topic) <= 0 {
			return errors.New("wlog: topic required")
		}

		hook, err := newKafkaHook(kafkaBrokers, appName, topic)
		if err != nil {
			return errors.Wrap(err, "wlog: init kafka producer")
		}
		logger.AddHook(hook)
		return nil
	}
}

func matchOS(goos int) bool {
	switch runtime.GOOS {
	case "windows":
		return goos&Windows > 0
	case "linux":
		return goos&Linux > 0
	case "darwin":
		return goos&Darwin > 0
	}
	return false
}
