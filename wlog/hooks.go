package wlog

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Shopify/sarama"
	"github.com/sirupsen/logrus"

	"github.com/titus12/ma-fibers-go/utils"
)

// 控制台: 只给日志加上调用行号。
// 调用栈从hook往外找，先经过logrus自己的帧，再跳过skip里列出的包，第一个剩下的帧就是打日志的位置
type consoleHook struct {
	skip []string
}

func newConsoleHook(skip ...string) *consoleHook {
	return &consoleHook{skip: append([]string{logrusPackage}, skip...)}
}

const logrusPackage = "github.com/sirupsen/logrus."

func (hook *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *consoleHook) Fire(entry *logrus.Entry) error {
	entry.Data["line"] = hook.caller()
	return nil
}

func (hook *consoleHook) caller() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	inLogrus := false
	for {
		frame, more := frames.Next()
		if hook.skipped(frame.Function) {
			inLogrus = true
		} else if inLogrus {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return "???:0"
		}
	}
}

func (hook *consoleHook) skipped(function string) bool {
	for _, prefix := range hook.skip {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}

// 文件: 以文本格式写到writer(按时间切割的文件)
type fileHook struct {
	mu        sync.Mutex
	formatter logrus.Formatter
	writer    io.Writer
}

func newFileHook(writer io.Writer) *fileHook {
	return &fileHook{
		formatter: &logrus.TextFormatter{DisableColors: true},
		writer:    writer,
	}
}

func (hook *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *fileHook) Fire(entry *logrus.Entry) error {
	msg, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	hook.mu.Lock()
	defer hook.mu.Unlock()
	_, err = hook.writer.Write(msg)
	return err
}

// kafka: JSON格式异步投递，投递失败只打印到标准输出，不能阻塞日志调用
type kafkaHook struct {
	appName   string
	topic     string
	formatter logrus.Formatter
	producer  sarama.AsyncProducer
}

func newKafkaHook(addrs []string, appName, topic string) (*kafkaHook, error) {
	config := sarama.NewConfig()
	var producer sarama.AsyncProducer
	// kafka可能晚于进程启动
	err := utils.Retry(3, 500*time.Millisecond, 2, func() (err error) {
		producer, err = sarama.NewAsyncProducer(addrs, config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newKafkaHookWithProducer(producer, appName, topic), nil
}

func newKafkaHookWithProducer(producer sarama.AsyncProducer, appName, topic string) *kafkaHook {
	go func() {
		for err := range producer.Errors() {
			fmt.Println("wlog: kafka hook:", err)
		}
	}()

	return &kafkaHook{
		appName:   appName,
		topic:     topic,
		formatter: &logrus.JSONFormatter{},
		producer:  producer,
	}
}

func (hook *kafkaHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *kafkaHook) Fire(entry *logrus.Entry) error {
	data := make(logrus.Fields, len(entry.Data)+2)
	for k, v := range entry.Data {
		data[k] = v
	}
	data["app"] = hook.appName

	e := entry.WithFields(data)
	e.Level, e.Message, e.Time, e.Caller = entry.Level, entry.Message, entry.Time, entry.Caller

	message, err := hook.formatter.Format(e)
	if err != nil {
		return err
	}
	hook.producer.Input() <- &sarama.ProducerMessage{
		Topic: hook.topic,
		Value: sarama.StringEncoder(strings.TrimSpace(string(message))),
	}
	return nil
}
