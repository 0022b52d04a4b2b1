package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetentionConfig bounds the archive size.
type RetentionConfig struct {
	// Days keeps runs younger than this many days, 0 keeps all.
	Days int

	// MaxRuns keeps at most this many runs, 0 for no limit.
	MaxRuns int

	// Schedule is the cron expression used by Scheduler.
	Schedule string
}

// Pruner deletes runs that fall outside the retention settings.
type Pruner struct {
	storage Storage
	config  RetentionConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a pruner.
func NewPruner(storage Storage, config RetentionConfig) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "archive.retention"),
		now:     time.Now,
	}
}

// Prune deletes runs older than the retention period, then the oldest runs
// beyond MaxRuns. It returns the number of deleted runs.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.Days)
		n, err := p.storage.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based pruning failed: %w", err)
		}
		total += n
		p.logger.Debug("age-based pruning completed", "cutoff", cutoff, "deleted", n)
	}

	if p.config.MaxRuns > 0 {
		n, err := p.storage.DeleteOldest(ctx, p.config.MaxRuns)
		if err != nil {
			return total, fmt.Errorf("count-based pruning failed: %w", err)
		}
		total += n
		p.logger.Debug("count-based pruning completed", "max_runs", p.config.MaxRuns, "deleted", n)
	}

	return total, nil
}
