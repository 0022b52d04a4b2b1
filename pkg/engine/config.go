package engine

import "fmt"

// EngineConfig contains configuration for constraint evaluation.
type EngineConfig struct {
	// Parallelism is the number of entities of one rule evaluated
	// concurrently. Results are always collected in declared order.
	// Default: 1.
	Parallelism int

	// NotPropagatesError keeps an ERROR from the inner check of a not check
	// instead of turning it into VALID.
	// Default: false.
	NotPropagatesError bool

	// SkipDisabled skips rules marked "enabled: false".
	// Default: true.
	SkipDisabled bool
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Parallelism:        1,
		NotPropagatesError: false,
		SkipDisabled:       true,
	}
}

// Validate validates the engine configuration.
func (c *EngineConfig) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// WithParallelism sets the per-rule entity parallelism.
func (c *EngineConfig) WithParallelism(n int) *EngineConfig {
	c.Parallelism = n
	return c
}

// WithNotPropagatesError sets whether not checks keep inner errors.
func (c *EngineConfig) WithNotPropagatesError(enabled bool) *EngineConfig {
	c.NotPropagatesError = enabled
	return c
}

// WithSkipDisabled sets whether disabled rules are skipped.
func (c *EngineConfig) WithSkipDisabled(skip bool) *EngineConfig {
	c.SkipDisabled = skip
	return c
}
