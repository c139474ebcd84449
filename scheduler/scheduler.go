package scheduler

import (
	"context"
	"time"

	"saletech/logger"

	"github.com/go-co-op/gocron/v2"
)

type Scheduler struct {
	s      gocron.Scheduler
	cancel context.CancelFunc
}

// StartPaymentTimeout runs the job every interval. A run that is still
// going when the next one is due causes that next run to be skipped.
func StartPaymentTimeout(job *PaymentTimeoutJob, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.FixedZone("ICT", 7*3600)),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runCtx, done := context.WithTimeout(ctx, interval)
			defer done()
			job.Run(runCtx)
		}),
		gocron.WithName("payment-timeout"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = s.Shutdown()
		return nil, err
	}

	s.Start()
	logger.Info("payment timeout scheduler started", "interval", interval.String())
	return &Scheduler{s: s, cancel: cancel}, nil
}

func (s *Scheduler) Stop() {
	s.cancel()
	if err := s.s.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", "error", err)
	}
}
