package config

import (
	"fmt"
	"strings"
)

// FieldError is a validation error for a single configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g., "rules.mode").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error of a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the whole configuration and reports all field errors at once.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateReport(&cfg.Report)...)
	errs = append(errs, validateArchive(&cfg.Archive)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError
	if cfg.Parallelism < 1 {
		errs = append(errs, FieldError{"engine.parallelism", "must be at least 1"})
	}
	if cfg.MaxDepth < 0 {
		errs = append(errs, FieldError{"engine.max_depth", "must not be negative"})
	}
	if cfg.MaxPathSteps < 0 {
		errs = append(errs, FieldError{"engine.max_path_steps", "must not be negative"})
	}
	return errs
}

func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError
	switch cfg.Mode {
	case "file":
		if len(cfg.Paths) == 0 {
			errs = append(errs, FieldError{"rules.paths", "at least one path is required"})
		}
	case "git":
		if cfg.Git.Repository == "" {
			errs = append(errs, FieldError{"rules.git.repository", "required in git mode"})
		}
		if cfg.Git.Depth < 0 {
			errs = append(errs, FieldError{"rules.git.depth", "must not be negative"})
		}
	default:
		errs = append(errs, FieldError{"rules.mode", fmt.Sprintf("must be one of: file, git (got %q)", cfg.Mode)})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{"rules.debounce", "must not be negative"})
	}
	return errs
}

func validateReport(cfg *ReportConfig) []FieldError {
	var errs []FieldError
	if !oneOf(cfg.Format, "text", "json") {
		errs = append(errs, FieldError{"report.format", fmt.Sprintf("must be one of: text, json (got %q)", cfg.Format)})
	}
	if !oneOf(cfg.Output, "console", "file") {
		errs = append(errs, FieldError{"report.output", fmt.Sprintf("must be one of: console, file (got %q)", cfg.Output)})
	}
	return errs
}

func validateArchive(cfg *ArchiveConfig) []FieldError {
	var errs []FieldError
	if !oneOf(cfg.Backend, "sqlite", "memory") {
		errs = append(errs, FieldError{"archive.backend", fmt.Sprintf("must be one of: sqlite, memory (got %q)", cfg.Backend)})
	}
	if !oneOf(cfg.Driver, "sqlite", "sqlite3") {
		errs = append(errs, FieldError{"archive.driver", fmt.Sprintf("must be one of: sqlite, sqlite3 (got %q)", cfg.Driver)})
	}
	if cfg.Enabled && cfg.Backend == "sqlite" && cfg.Path == "" {
		errs = append(errs, FieldError{"archive.path", "required for the sqlite backend"})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{"archive.retention.days", "must not be negative"})
	}
	if cfg.Retention.MaxRuns < 0 {
		errs = append(errs, FieldError{"archive.retention.max_runs", "must not be negative"})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError
	if !oneOf(strings.ToLower(cfg.Logging.Level), "debug", "info", "warn", "warning", "error") {
		errs = append(errs, FieldError{"telemetry.logging.level", fmt.Sprintf("must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level)})
	}
	if !oneOf(cfg.Logging.Format, "json", "text", "console") {
		errs = append(errs, FieldError{"telemetry.logging.format", fmt.Sprintf("must be one of: json, text, console (got %q)", cfg.Logging.Format)})
	}
	if !oneOf(cfg.Tracing.Sampler, "always", "never", "ratio") {
		errs = append(errs, FieldError{"telemetry.tracing.sampler", fmt.Sprintf("must be one of: always, never, ratio (got %q)", cfg.Tracing.Sampler)})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{"telemetry.tracing.sample_ratio", "must be between 0.0 and 1.0"})
	}
	return errs
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
