package events

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"github.com/go-co-op/gocron/v2"
)

// FlushScheduler flushes an Outbox on a fixed interval.
type FlushScheduler struct {
	sched  gocron.Scheduler
	outbox *Outbox
	logger log.Logger
}

func NewFlushScheduler(outbox *Outbox, interval time.Duration, logger log.Logger) (*FlushScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("flush interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &FlushScheduler{sched: sched, outbox: outbox, logger: logger.With("module", "events")}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.flush),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule flush: %w", err)
	}
	return s, nil
}

func (s *FlushScheduler) flush() {
	if s.outbox.Len() == 0 {
		return
	}
	if _, err := s.outbox.Flush(context.Background()); err != nil {
		s.logger.Error("event flush failed", "pending", s.outbox.Len(), "err", err)
	}
}

func (s *FlushScheduler) Start() {
	s.sched.Start()
}

// Shutdown stops the scheduler and makes one last flush attempt.
func (s *FlushScheduler) Shutdown(ctx context.Context) error {
	if err := s.sched.Shutdown(); err != nil {
		return err
	}
	_, err := s.outbox.Flush(ctx)
	return err
}
