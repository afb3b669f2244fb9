package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/raincheck/raincheck/internal/route"
)

// cycleTimeout bounds one full route fetch, geocoding included.
const cycleTimeout = 30 * time.Second

// Scheduler drives periodic advisory re-fetch cycles. The service itself
// sequences cycles, so overlapping runs are harmless: a stale cycle's
// result is dropped on publish.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *route.Service
	interval  time.Duration
}

// New creates a Scheduler that refreshes the advisory every interval.
func New(interval time.Duration, service *route.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
	}
}

// Start schedules the refresh job, runs it once immediately, and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 2 * time.Minute
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		res, err := s.service.Refresh(ctx)
		if err != nil {
			log.Printf("scheduler: refresh failed: %v", err)
			return
		}
		log.Printf("scheduler: cycle %s published advisory %s", res.CycleID, res.Advisory.Kind)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
