package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Counter reports how many results the session store holds.
type Counter interface {
	Count() int
}

// Scheduler runs the periodic store statistics job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	counter   Counter
	interval  time.Duration
	logger    *slog.Logger

	last int
}

// New creates a scheduler reporting counter every interval.
func New(counter Counter, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		counter:   counter,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the job and runs the scheduler in the background.
// A non-positive interval disables the job.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("store statistics job disabled")
		return nil
	}
	if _, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.reportStoreSize); err != nil {
		return fmt.Errorf("schedule store statistics job: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("store statistics job started", "interval", s.interval)
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reportStoreSize logs the number of stored results and the growth since
// the previous run. The store is never pruned, so growth is never negative.
func (s *Scheduler) reportStoreSize() {
	count := s.counter.Count()
	s.logger.Info("session store size", "results", count, "growth", count-s.last)
	s.last = count
}
