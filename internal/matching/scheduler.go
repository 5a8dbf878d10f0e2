package matching

import (
	"context"
	"time"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

// Scheduler periodically recomputes fame for recently active profiles so a
// missed trigger is eventually corrected.
type Scheduler struct {
	service  Service
	interval time.Duration
}

func NewScheduler(service Service, interval time.Duration) *Scheduler {
	return &Scheduler{service: service, interval: interval}
}

// Start blocks until ctx is cancelled. A non-positive interval returns at once.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	log := logging.WithComponent("fame-sweep")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			n, err := s.service.RecomputeActive(ctx)
			if err != nil && ctx.Err() == nil {
				log.Error().Err(err).Int("recomputed", n).Msg("fame sweep failed")
				continue
			}
			log.Info().Int("recomputed", n).Dur("took", time.Since(start)).Msg("fame sweep done")
		case <-ctx.Done():
			return
		}
	}
}
