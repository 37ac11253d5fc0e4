// Package setting 进程启动参数
package setting

import (
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/titus12/ma-fibers-go/wlog"
)

const (
	flagLogLevel    = "log-level"
	flagLogFile     = "log-file"
	flagLogRotation = "log-rotation"
	flagLogSlice    = "log-slice"
	flagKafka       = "kafka"
	flagAppName     = "app"
	flagLogTopic    = "log-topic"
	flagThroughput  = "throughput"
	flagRingQueue   = "ring-queue"
	flagStopTimeout = "stop-timeout"
	flagPeriod      = "period"
	flagDuration    = "duration"
	flagMetricsAddr = "metrics-addr"
)

type Config struct {
	LogLevel    string // 日志级别
	LogFile     string // 日志文件，为空不写文件
	LogRotation int    // 日志文件保留数量
	LogSlice    string // 日志文件切割周期: day, hour, minute

	KafkaBrokers []string // ELK的kafka地址，为空不投递
	AppName      string
	LogTopic     string

	Throughput  int   // fiber每轮最多执行多少个action后让出
	RingQueue   int64 // >0 时fiber使用环形队列，值为初始大小
	StopTimeout time.Duration

	Period   time.Duration // 周期任务间隔
	Duration time.Duration // 运行多久后停止，0表示一直运行

	MetricsAddr string // prometheus监听地址，为空不开启
}

func Default() *Config {
	return &Config{
		LogLevel:    "Info",
		LogRotation: 7,
		LogSlice:    "day",
		AppName:     "fiberd",
		LogTopic:    "fiberd-log",
		Throughput:  300,
		StopTimeout: time.Minute,
		Period:      time.Second,
		Duration:    10 * time.Second,
		MetricsAddr: ":9100",
	}
}

func (c *Config) Validate() error {
	if c.Throughput <= 0 {
		return errors.Errorf("setting: throughput must be positive, got %d", c.Throughput)
	}
	if c.RingQueue < 0 {
		return errors.Errorf("setting: ring queue size must not be negative, got %d", c.RingQueue)
	}
	if c.StopTimeout <= 0 {
		return errors.Errorf("setting: stop timeout must be positive, got %s", c.StopTimeout)
	}
	if c.Period <= 0 {
		return errors.Errorf("setting: period must be positive, got %s", c.Period)
	}
	if c.Duration < 0 {
		return errors.Errorf("setting: duration must not be negative, got %s", c.Duration)
	}
	if c.LogFile != "" && c.LogRotation <= 0 {
		return errors.New("setting: log rotation must be positive when log file is set")
	}
	if _, err := wlog.Slice(c.LogSlice); err != nil {
		return errors.Wrap(err, "setting")
	}
	if len(c.KafkaBrokers) > 0 && (c.AppName == "" || c.LogTopic == "") {
		return errors.New("setting: app name and log topic required when kafka is set")
	}
	return nil
}

// 命令行参数，默认值取自Default()
func Flags() []cli.Flag {
	d := Default()
	return []cli.Flag{
		cli.StringFlag{Name: flagLogLevel, Value: d.LogLevel, Usage: "日志级别 (Debug, Info, Warn, Error)"},
		cli.StringFlag{Name: flagLogFile, Value: d.LogFile, Usage: "日志文件，按天切割"},
		cli.IntFlag{Name: flagLogRotation, Value: d.LogRotation, Usage: "日志文件保留数量"},
		cli.StringFlag{Name: flagLogSlice, Value: d.LogSlice, Usage: "日志文件切割周期 (day, hour, minute)"},
		cli.StringSliceFlag{Name: flagKafka, Usage: "ELK的kafka地址，可以多次设置"},
		cli.StringFlag{Name: flagAppName, Value: d.AppName, Usage: "投递到ELK时的应用名称"},
		cli.StringFlag{Name: flagLogTopic, Value: d.LogTopic, Usage: "投递到ELK的主题"},
		cli.IntFlag{Name: flagThroughput, Value: d.Throughput, Usage: "fiber每轮最多执行的action数量"},
		cli.Int64Flag{Name: flagRingQueue, Value: d.RingQueue, Usage: "大于0时fiber使用环形队列"},
		cli.DurationFlag{Name: flagStopTimeout, Value: d.StopTimeout, Usage: "调度器停止时等待的最长时间"},
		cli.DurationFlag{Name: flagPeriod, Value: d.Period, Usage: "周期任务间隔"},
		cli.DurationFlag{Name: flagDuration, Value: d.Duration, Usage: "运行时长，0表示一直运行"},
		cli.StringFlag{Name: flagMetricsAddr, Value: d.MetricsAddr, Usage: "prometheus监听地址，为空不开启"},
	}
}

// 从命令行读取配置并校验
func FromContext(ctx *cli.Context) (*Config, error) {
	c := &Config{
		LogLevel:     ctx.String(flagLogLevel),
		LogFile:      ctx.String(flagLogFile),
		LogRotation:  ctx.Int(flagLogRotation),
		LogSlice:     ctx.String(flagLogSlice),
		KafkaBrokers: ctx.StringSlice(flagKafka),
		AppName:      ctx.String(flagAppName),
		LogTopic:     ctx.String(flagLogTopic),
		Throughput:   ctx.Int(flagThroughput),
		RingQueue:    ctx.Int64(flagRingQueue),
		StopTimeout:  ctx.Duration(flagStopTimeout),
		Period:       ctx.Duration(flagPeriod),
		Duration:     ctx.Duration(flagDuration),
		MetricsAddr:  ctx.String(flagMetricsAddr),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
