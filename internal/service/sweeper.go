package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically aborts expired upload sessions, reclaims stalled
// upload jobs and purges recycle bin entries past retention.
type Sweeper struct {
	uploads  UploadService
	recycle  RecycleService
	interval time.Duration
	log      *zap.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(uploads UploadService, recycle RecycleService, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{uploads: uploads, recycle: recycle, interval: interval, log: log.Named("sweeper")}
}

// Start sweeps once immediately and then every interval until ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Sweep(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	aborted, err := s.uploads.AbortExpired(ctx, time.Now().UTC())
	if err != nil && ctx.Err() == nil {
		s.log.Error("aborting expired sessions failed", zap.Error(err))
	}
	if aborted > 0 {
		s.log.Info("expired sessions aborted", zap.Int("count", aborted))
	}

	reclaimed, err := s.uploads.ReclaimStalledJobs(ctx, time.Now().UTC())
	if err != nil && ctx.Err() == nil {
		s.log.Error("reclaiming stalled jobs failed", zap.Error(err))
	}
	if reclaimed > 0 {
		s.log.Warn("stalled upload jobs reclaimed", zap.Int("count", reclaimed))
	}

	purged, err := s.recycle.PurgeExpired(ctx)
	if err != nil && ctx.Err() == nil {
		s.log.Error("recycle purge failed", zap.Error(err))
	}
	if purged > 0 {
		s.log.Info("recycle bin purged", zap.Int64("count", purged))
	}
}
