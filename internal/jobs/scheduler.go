package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper drops state idle for longer than the given duration.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

type Scheduler struct {
	cron    *cron.Cron
	limiter Sweeper
	idle    time.Duration
	log     zerolog.Logger
}

// NewScheduler sweeps limiter every ten minutes, evicting clients idle for
// longer than idle. A nil limiter makes Start a no-op.
func NewScheduler(limiter Sweeper, idle time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:    c,
		limiter: limiter,
		idle:    idle,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if s.limiter == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 */10 * * * *", s.sweepLimiter); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) sweepLimiter() {
	removed := s.limiter.Sweep(s.idle)
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("rate limiter sweep")
	}
}
