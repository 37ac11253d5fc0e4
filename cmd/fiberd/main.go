package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/titus12/ma-fibers-go/channel"
	"github.com/titus12/ma-fibers-go/channel/converter"
	"github.com/titus12/ma-fibers-go/fiber"
	"github.com/titus12/ma-fibers-go/metrics"
	"github.com/titus12/ma-fibers-go/scheduler"
	"github.com/titus12/ma-fibers-go/setting"
	"github.com/titus12/ma-fibers-go/utils"
	"github.com/titus12/ma-fibers-go/wlog"
)

func main() {
	app := cli.NewApp()
	app.Name = "fiberd"
	app.Usage = "在fiber上运行周期任务，并通过prometheus暴露运行指标"
	app.Flags = setting.Flags()
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

func run(ctx *cli.Context) error {
	conf, err := setting.FromContext(ctx)
	if err != nil {
		return err
	}

	var opts []wlog.Option
	if conf.LogFile != "" {
		slice, err := wlog.Slice(conf.LogSlice)
		if err != nil {
			return err
		}
		opts = append(opts, wlog.WithFile(conf.LogFile, wlog.Linux|wlog.Windows|wlog.Darwin, slice, conf.LogRotation))
	}
	if len(conf.KafkaBrokers) > 0 {
		opts = append(opts, wlog.WithELK(conf.KafkaBrokers, conf.AppName, conf.LogTopic))
	}
	logger, err := wlog.Initialize(wlog.LogLevel(conf.LogLevel), opts...)
	if err != nil {
		return err
	}
	runtime.GOMAXPROCS(runtime.NumCPU())

	reg := prometheus.NewRegistry()
	m := metrics.NewPrometheus(reg)

	var srv *http.Server
	if conf.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: conf.MetricsAddr, Handler: mux}
		go func() {
			defer utils.PrintPanicStack()
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
		logger.Infof("metrics listening on %s", conf.MetricsAddr)
	}

	fiberOpts := []fiber.Option{
		fiber.WithLogger(wlog.Component(logger, "fiber")),
		fiber.WithMetrics(m),
		fiber.WithDispatcher(fiber.NewDefaultDispatcher(conf.Throughput)),
	}
	if conf.RingQueue > 0 {
		fiberOpts = append(fiberOpts, fiber.WithRingQueue(conf.RingQueue))
	}
	worker := fiber.New(append(fiberOpts, fiber.WithName("worker"))...)
	timers := fiber.New(append(fiberOpts, fiber.WithName("timers"))...)

	sched := scheduler.NewTimerScheduler(timers,
		scheduler.WithLogger(wlog.Component(logger, "scheduler")),
		scheduler.WithMetrics(m),
		scheduler.WithStopTimeout(conf.StopTimeout),
	)

	// 定时发送的裸消息在入口处被提升为请求信封，再交给worker处理
	ticks := 0
	lift := converter.DefaultChain[channel.Request[int]]()
	inbox := channel.FuncChannel(func(message interface{}) error {
		req, err := lift.Convert(message)
		if err != nil {
			return err
		}
		worker.Add(func() {
			ticks += req.Body
			_ = req.Respond(ticks)
		})
		return nil
	})

	sched.SendRepeatedly(conf.Period, conf.Period, inbox, 1)
	sched.ScheduleEvery(conf.Period/2, conf.Period, worker, func() {
		logger.WithFields(logrus.Fields{
			"ticks":   ticks,
			"pending": sched.Len(),
		}).Info("worker heartbeat")
	})

	wait(conf.Duration)
	logger.Info("fiberd stopping")

	var result error
	if err := sched.Stop(); err != nil {
		result = errors.Wrap(err, "stop scheduler")
	}
	if err := worker.Shutdown(conf.StopTimeout); err != nil && result == nil {
		result = errors.Wrap(err, "shutdown worker")
	}
	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}
	logger.WithField("ticks", ticks).Info("fiberd stopped")
	return result
}

// 等到运行时长结束或者收到退出信号，d为0时只等信号
func wait(d time.Duration) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-sig:
	case <-timeout:
	}
}
