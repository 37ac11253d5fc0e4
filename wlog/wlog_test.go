package wlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Shopify/sarama/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func currentOS() int {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	}
	return Linux
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, LogLevel("Debug"))
	assert.Equal(t, logrus.WarnLevel, LogLevel("warn"))
	assert.Equal(t, logrus.ErrorLevel, LogLevel("Error"))
	assert.Equal(t, logrus.InfoLevel, LogLevel("nonsense"))
}

func TestWithFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fiberd.log")

	logger, err := New(logrus.DebugLevel, WithFile(file, currentOS(), Day, 3))
	require.NoError(t, err)

	logger.WithField("fiber", "main").Info("fiber started")

	matches, err := filepath.Glob(file + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "fiber started")
	assert.Contains(t, string(data), "fiber=main")
	assert.Contains(t, string(data), "wlog_test.go")
}

func TestWithFileOtherOS(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "skipped.log")

	other := (Linux | Windows | Darwin) &^ currentOS()
	logger, err := New(logrus.InfoLevel, WithFile(file, other, Hour, 1))
	require.NoError(t, err)
	logger.Info("nothing on disk")

	matches, _ := filepath.Glob(file + "*")
	assert.Empty(t, matches)
}

func TestWithELKValidation(t *testing.T) {
	_, err := New(logrus.InfoLevel, WithELK(nil, "fiberd", "logs"))
	assert.Error(t, err)
	_, err = New(logrus.InfoLevel, WithELK([]string{"127.0.0.1:9092"}, "", "logs"))
	assert.Error(t, err)
	_, err = New(logrus.InfoLevel, WithELK([]string{"127.0.0.1:9092"}, "fiberd", ""))
	assert.Error(t, err)
}

func TestKafkaHook(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputAndSucceed()
	producer.ExpectInputAndSucceed()

	logger := logrus.New()
	logger.AddHook(newKafkaHookWithProducer(producer, "fiberd", "logs"))

	logger.Info("first")
	logger.WithField("op", "tick").Warn("second")

	require.NoError(t, producer.Close())
}

func TestComponent(t *testing.T) {
	logger := logrus.New()
	entry, ok := Component(logger, "scheduler").(*logrus.Entry)
	require.True(t, ok)
	assert.Equal(t, "scheduler", entry.Data["component"])
}

func TestSlice(t *testing.T) {
	s, err := Slice("")
	require.NoError(t, err)
	assert.Same(t, Day, s)

	s, err = Slice("Hour")
	require.NoError(t, err)
	assert.Same(t, Hour, s)

	s, err = Slice("minute")
	require.NoError(t, err)
	assert.Same(t, Minute, s)

	_, err = Slice("week")
	assert.Error(t, err)
}

func logThrough(logger logrus.FieldLogger, msg string) {
	logger.Info(msg)
}

func TestConsoleHookCaller(t *testing.T) {
	logger := logrus.New()
	logger.AddHook(newConsoleHook())
	hook := test.NewLocal(logger)

	_, file, line, _ := runtime.Caller(0)
	logger.WithField("fiber", "main").Info("direct")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, fmt.Sprintf("%s:%d", file, line+1), hook.LastEntry().Data["line"])

	// 跳过包装函数，行号落在调用包装函数的地方
	skipping := logrus.New()
	skipping.AddHook(newConsoleHook("github.com/titus12/ma-fibers-go/wlog.logThrough"))
	hook = test.NewLocal(skipping)

	_, file, line, _ = runtime.Caller(0)
	logThrough(skipping, "wrapped")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, fmt.Sprintf("%s:%d", file, line+1), hook.LastEntry().Data["line"])
}
