package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"adotapet/api/internal/service"
)

// Scheduler owns the periodic background work: it keeps the public stats
// counters warm in the cache so the landing page never waits on the store.
type Scheduler struct {
	cron *cron.Cron
	pets *service.PetService
	log  zerolog.Logger
}

func NewScheduler(pets *service.PetService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		pets: pets,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.warmStats); err != nil {
		return err
	}

	s.cron.Start()

	// Populate the cache on boot instead of waiting for the first tick.
	go s.warmStats()
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) warmStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.pets.WarmStatsCache(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stats cache warm failed")
		return
	}
	s.log.Debug().Msg("stats cache warmed")
}
