package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IFCCHECK_"

// LoadConfig loads configuration from a YAML file over the defaults and
// validates it. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// overrides of the form IFCCHECK_SECTION_FIELD, then validates.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults when path is empty)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// Load runs steps 1 to 3 of LoadConfigWithEnvOverrides without validating,
// for callers that layer command-line flags on top before calling Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := readFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

// FindConfigFile returns the first existing candidate, or "" if none exists.
func FindConfigFile(candidates ...string) string {
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		} else if !errors.Is(err, fs.ErrNotExist) {
			return c
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	// Engine overrides
	envInt("ENGINE_PARALLELISM", &cfg.Engine.Parallelism)
	envInt("ENGINE_MAX_DEPTH", &cfg.Engine.MaxDepth)
	envInt("ENGINE_MAX_PATH_STEPS", &cfg.Engine.MaxPathSteps)
	envBool("ENGINE_NOT_PROPAGATES_ERROR", &cfg.Engine.NotPropagatesError)

	// Rules overrides
	envString("RULES_MODE", &cfg.Rules.Mode)
	if val := os.Getenv(EnvPrefix + "RULES_PATHS"); val != "" {
		cfg.Rules.Paths = splitList(val)
	}
	envBool("RULES_WATCH", &cfg.Rules.Watch)
	envDuration("RULES_DEBOUNCE", &cfg.Rules.Debounce)
	envString("RULES_GIT_REPOSITORY", &cfg.Rules.Git.Repository)
	envString("RULES_GIT_BRANCH", &cfg.Rules.Git.Branch)
	envString("RULES_GIT_LOCAL_DIR", &cfg.Rules.Git.LocalDir)
	envBool("RULES_VALIDATION_ENABLED", &cfg.Rules.Validation.Enabled)
	envBool("RULES_VALIDATION_STRICT", &cfg.Rules.Validation.Strict)

	// Model overrides
	envString("MODEL_PATH", &cfg.Model.Path)

	// Report overrides
	envString("REPORT_FORMAT", &cfg.Report.Format)
	envString("REPORT_OUTPUT", &cfg.Report.Output)
	envString("REPORT_DIRECTORY", &cfg.Report.Directory)

	// Archive overrides
	envBool("ARCHIVE_ENABLED", &cfg.Archive.Enabled)
	envString("ARCHIVE_BACKEND", &cfg.Archive.Backend)
	envString("ARCHIVE_DRIVER", &cfg.Archive.Driver)
	envString("ARCHIVE_PATH", &cfg.Archive.Path)
	envInt("ARCHIVE_RETENTION_DAYS", &cfg.Archive.Retention.Days)
	envInt("ARCHIVE_RETENTION_MAX_RUNS", &cfg.Archive.Retention.MaxRuns)
	envString("ARCHIVE_RETENTION_SCHEDULE", &cfg.Archive.Retention.Schedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_TEXTFILE_PATH", &cfg.Telemetry.Metrics.TextfilePath)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
