package history

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pruner deletes entries picked before cutoff
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper enforces the history retention window
type Sweeper struct {
	store         Pruner
	retentionDays int
	log           *zap.Logger
	now           func() time.Time
}

// NewSweeper creates a sweeper keeping retentionDays of history.
// A retention of zero or less keeps everything.
func NewSweeper(store Pruner, retentionDays int, log *zap.Logger) *Sweeper {
	return &Sweeper{
		store:         store,
		retentionDays: retentionDays,
		log:           log.Named("history-sweeper"),
		now:           time.Now,
	}
}

// Sweep runs one retention pass and returns the number of deleted entries
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := Since(s.now(), s.retentionDays)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.log.Info("Retention sweep completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

// StartScheduledRuns sweeps immediately and then on every tick until ctx is done
func (s *Sweeper) StartScheduledRuns(ctx context.Context, interval time.Duration) {
	if s.retentionDays <= 0 {
		s.log.Info("History retention disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Starting scheduled retention sweeps",
		zap.Duration("interval", interval),
		zap.Int("retention_days", s.retentionDays))

	if _, err := s.Sweep(ctx); err != nil {
		s.log.Error("Initial retention sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error("Scheduled retention sweep failed", zap.Error(err))
			}
		case <-ctx.Done():
			s.log.Info("Stopping scheduled retention sweeps")
			return
		}
	}
}
