package source

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/ifccheck/pkg/config"
)

// ErrNoRuleFiles is returned when the configured patterns match nothing.
var ErrNoRuleFiles = errors.New("no rule files found")

// Source resolves the rule document paths to load.
type Source interface {
	// Resolve returns the rule files in a stable order.
	Resolve(ctx context.Context) ([]string, error)

	// Name describes the source for logs.
	Name() string
}

// New creates the source selected by cfg.
func New(cfg *config.RulesConfig) (Source, error) {
	switch cfg.Mode {
	case "file", "":
		return NewFileSource("", cfg.Paths...), nil
	case "git":
		return NewGitSource(&cfg.Git, cfg.Paths...)
	default:
		return nil, fmt.Errorf("unknown rules mode %q", cfg.Mode)
	}
}
