package scheduler

import (
	"time"

	"github.com/titus12/ma-fibers-go/channel"
)

// delay之后把message发送到ch
func (s *TimerScheduler) SendOnce(delay time.Duration, ch channel.UntypedChannel, message interface{}) *Operation {
	return s.Schedule(delay, nil, func() {
		if err := ch.Send(message); err != nil {
			s.log.WithError(err).Error("Scheduler SendOnce Run Fail")
		}
	})
}

// initial之后开始，每隔interval把message发送到ch
func (s *TimerScheduler) SendRepeatedly(initial, interval time.Duration, ch channel.UntypedChannel, message interface{}) *Operation {
	return s.ScheduleEvery(initial, interval, nil, func() {
		if err := ch.Send(message); err != nil {
			s.log.WithError(err).Error("Scheduler SendRepeatedly Run Fail")
		}
	})
}
