package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"mercator-hq/ifccheck/pkg/config"
)

// Open creates the storage selected by cfg.
func Open(cfg *config.ArchiveConfig) (Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create archive directory: %w", err)
			}
		}
		return NewSQLiteStorage(SQLiteConfig{
			Path:        cfg.Path,
			Driver:      cfg.Driver,
			BusyTimeout: cfg.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// Retention converts the configured retention settings.
func Retention(cfg *config.ArchiveConfig) RetentionConfig {
	return RetentionConfig{
		Days:     cfg.Retention.Days,
		MaxRuns:  cfg.Retention.MaxRuns,
		Schedule: cfg.Retention.Schedule,
	}
}
