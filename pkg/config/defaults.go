package config

import "time"

// Default values for configuration fields.
const (
	// Engine defaults
	DefaultEngineParallelism  = 1
	DefaultEngineMaxDepth     = 32
	DefaultEngineMaxPathSteps = 64

	// Rules defaults
	DefaultRulesMode              = "file"
	DefaultRulesPath              = "rules.yaml"
	DefaultRulesDebounce          = 250 * time.Millisecond
	DefaultRulesGitBranch         = "main"
	DefaultRulesGitLocalDir       = ".ifccheck/rules-repo"
	DefaultRulesGitDepth          = 1
	DefaultRulesGitTimeout        = 60 * time.Second
	DefaultRulesValidationEnabled = true

	// Report defaults
	DefaultReportFormat    = "text"
	DefaultReportOutput    = "console"
	DefaultReportDirectory = "."

	// Archive defaults
	DefaultArchiveBackend           = "sqlite"
	DefaultArchiveDriver            = "sqlite"
	DefaultArchivePath              = ".ifccheck/runs.db"
	DefaultArchiveBusyTimeout       = 5 * time.Second
	DefaultArchiveRetentionDays     = 30
	DefaultArchiveRetentionSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultMetricsNamespace   = "ifccheck"
	DefaultMetricsSubsystem   = "validation"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingServiceName = "ifccheck"
	DefaultTracingTimeout     = 10 * time.Second
)

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.Rules.Validation.Enabled = DefaultRulesValidationEnabled
	cfg.Telemetry.Tracing.Insecure = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Booleans are
// left alone; Default seeds the ones that default to true.
func ApplyDefaults(cfg *Config) {
	applyEngineDefaults(&cfg.Engine)
	applyRulesDefaults(&cfg.Rules)
	applyReportDefaults(&cfg.Report)
	applyArchiveDefaults(&cfg.Archive)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyEngineDefaults(cfg *EngineConfig) {
	if cfg.Parallelism == 0 {
		cfg.Parallelism = DefaultEngineParallelism
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultEngineMaxDepth
	}
	if cfg.MaxPathSteps == 0 {
		cfg.MaxPathSteps = DefaultEngineMaxPathSteps
	}
}

func applyRulesDefaults(cfg *RulesConfig) {
	if cfg.Mode == "" {
		cfg.Mode = DefaultRulesMode
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{DefaultRulesPath}
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultRulesDebounce
	}
	if cfg.Git.Branch == "" {
		cfg.Git.Branch = DefaultRulesGitBranch
	}
	if cfg.Git.LocalDir == "" {
		cfg.Git.LocalDir = DefaultRulesGitLocalDir
	}
	if cfg.Git.Depth == 0 {
		cfg.Git.Depth = DefaultRulesGitDepth
	}
	if cfg.Git.Timeout == 0 {
		cfg.Git.Timeout = DefaultRulesGitTimeout
	}
}

func applyReportDefaults(cfg *ReportConfig) {
	if cfg.Format == "" {
		cfg.Format = DefaultReportFormat
	}
	if cfg.Output == "" {
		cfg.Output = DefaultReportOutput
	}
	if cfg.Directory == "" {
		cfg.Directory = DefaultReportDirectory
	}
}

func applyArchiveDefaults(cfg *ArchiveConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultArchiveBackend
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultArchiveDriver
	}
	if cfg.Path == "" {
		cfg.Path = DefaultArchivePath
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultArchiveBusyTimeout
	}
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = DefaultArchiveRetentionDays
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultArchiveRetentionSchedule
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
}
