package config

import "time"

// Config is the root configuration of ifccheck.
type Config struct {
	// Engine configures constraint evaluation.
	Engine EngineConfig `yaml:"engine"`

	// Rules configures where rule documents come from.
	Rules RulesConfig `yaml:"rules"`

	// Model configures the entity graph to validate.
	Model ModelConfig `yaml:"model"`

	// Report configures report rendering and output.
	Report ReportConfig `yaml:"report"`

	// Archive configures the validation run archive.
	Archive ArchiveConfig `yaml:"archive"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EngineConfig contains evaluation settings.
type EngineConfig struct {
	// Parallelism is the number of entities evaluated concurrently per rule.
	// Results are always reported in declared order.
	// Default: 1
	Parallelism int `yaml:"parallelism"`

	// MaxDepth limits the nesting of groups and not checks in rule files.
	// Default: 32
	MaxDepth int `yaml:"max_depth"`

	// MaxPathSteps limits the number of steps in a single path.
	// Default: 64
	MaxPathSteps int `yaml:"max_path_steps"`

	// NotPropagatesError makes a not check over an ERROR result stay ERROR
	// instead of turning VALID.
	// Default: false
	NotPropagatesError bool `yaml:"not_propagates_error"`
}

// RulesConfig contains rule source settings.
type RulesConfig struct {
	// Mode selects the rule source.
	// Options: "file", "git"
	// Default: "file"
	Mode string `yaml:"mode"`

	// Paths lists rule files or glob patterns ("rules/**/*.yaml").
	// In git mode the patterns are relative to the repository root.
	Paths []string `yaml:"paths"`

	// Git configures the git rule source.
	Git GitConfig `yaml:"git"`

	// Watch re-runs validation when rule or model files change.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period before a change triggers a re-run.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`

	// Validation configures rule document validation.
	Validation ValidationConfig `yaml:"validation"`
}

// GitConfig contains git rule source settings.
type GitConfig struct {
	// Repository is the clone URL.
	Repository string `yaml:"repository"`

	// Branch to check out.
	// Default: "main"
	Branch string `yaml:"branch"`

	// LocalDir is the working copy location.
	// Default: ".ifccheck/rules-repo"
	LocalDir string `yaml:"local_dir"`

	// Depth of the clone, 0 for full history.
	// Default: 1
	Depth int `yaml:"depth"`

	// Timeout bounds clone and pull operations.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// ValidationConfig controls the rule document validators.
type ValidationConfig struct {
	// Enabled runs the structural validator before evaluation.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Strict turns semantic warnings into errors.
	// Default: false
	Strict bool `yaml:"strict"`
}

// ModelConfig contains the entity graph settings.
type ModelConfig struct {
	// Path is the entity graph file (YAML or JSON).
	Path string `yaml:"path"`
}

// ReportConfig contains report settings.
type ReportConfig struct {
	// Format of the report.
	// Options: "text", "json"
	// Default: "text"
	Format string `yaml:"format"`

	// Output destination.
	// Options: "console", "file"
	// Default: "console"
	Output string `yaml:"output"`

	// Directory receives report files when Output is "file".
	// Default: "."
	Directory string `yaml:"directory"`
}

// ArchiveConfig contains run archive settings.
type ArchiveConfig struct {
	// Enabled stores every validation run.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Driver selects the database/sql driver for the sqlite backend.
	// Options: "sqlite3" (cgo, mattn), "sqlite" (pure Go, modernc)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: ".ifccheck/runs.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long a write waits for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Retention configures pruning of old runs.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains archive retention settings.
type RetentionConfig struct {
	// Days keeps runs younger than this many days, 0 keeps all.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRuns keeps at most this many runs, 0 for no limit.
	// Default: 0
	MaxRuns int `yaml:"max_runs"`

	// Schedule is the cron expression for pruning in watch mode.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled records metrics.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes all metric names.
	// Default: "ifccheck"
	Namespace string `yaml:"namespace"`

	// Subsystem is the second metric name component.
	// Default: "validation"
	Subsystem string `yaml:"subsystem"`

	// TextfilePath receives the metrics in text exposition format after
	// each run, for the node exporter textfile collector.
	TextfilePath string `yaml:"textfile_path"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "ifccheck"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS towards the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout bounds span export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
