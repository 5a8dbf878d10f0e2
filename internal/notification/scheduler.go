// internal/notification/scheduler.go

package notification

import (
	"context"
	"time"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

// CleanupJob handles cleanup of old notifications
type CleanupJob struct {
	service      Service
	interval     time.Duration
	retentionAge time.Duration
	stopCh       chan struct{}
}

// NewCleanupJob creates a new cleanup job
func NewCleanupJob(service Service, interval, retentionAge time.Duration) *CleanupJob {
	if interval == 0 {
		interval = 24 * time.Hour // Default to daily
	}
	if retentionAge == 0 {
		retentionAge = 30 * 24 * time.Hour // Default to 30 days
	}

	return &CleanupJob{
		service:      service,
		interval:     interval,
		retentionAge: retentionAge,
		stopCh:       make(chan struct{}),
	}
}

// Start runs the cleanup immediately and then on every tick until ctx is
// cancelled or Stop is called
func (j *CleanupJob) Start(ctx context.Context) {
	log := logging.WithComponent("notification-cleanup")
	log.Info().Dur("interval", j.interval).Dur("retention", j.retentionAge).Msg("starting notification cleanup job")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup(ctx)

	for {
		select {
		case <-ticker.C:
			j.cleanup(ctx)
		case <-j.stopCh:
			log.Info().Msg("stopping notification cleanup job")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the cleanup job
func (j *CleanupJob) Stop() {
	close(j.stopCh)
}

func (j *CleanupJob) cleanup(ctx context.Context) {
	log := logging.WithComponent("notification-cleanup")

	start := time.Now()
	deleted, err := j.service.Cleanup(ctx, j.retentionAge)
	if err != nil {
		log.Error().Err(err).Msg("notification cleanup failed")
		return
	}
	log.Info().Int64("deleted", deleted).Dur("took", time.Since(start)).Msg("notification cleanup completed")
}
