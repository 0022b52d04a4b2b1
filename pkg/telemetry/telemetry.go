package telemetry

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mercator-hq/ifccheck/pkg/config"
	"mercator-hq/ifccheck/pkg/telemetry/logging"
	"mercator-hq/ifccheck/pkg/telemetry/metrics"
	"mercator-hq/ifccheck/pkg/telemetry/tracing"
)

// Telemetry bundles the logger, metrics collector and tracer of a process.
type Telemetry struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	config  *config.TelemetryConfig
}

// Option customizes New.
type Option func(*options)

type options struct {
	logWriter io.Writer
	registry  *prometheus.Registry
}

// WithLogWriter sends log output to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithRegistry uses reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// New creates every telemetry component from cfg.
func New(cfg *config.TelemetryConfig, version string, opts ...Option) (*Telemetry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    o.logWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		if cfg.Metrics.Enabled {
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
	}

	tracer, err := tracing.New(&cfg.Tracing, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, reg),
		tracer:  tracer,
		config:  cfg,
	}, nil
}

func (t *Telemetry) Logger() *logging.Logger {
	return t.logger
}

func (t *Telemetry) Metrics() *metrics.Collector {
	return t.metrics
}

func (t *Telemetry) Tracer() *tracing.Tracer {
	return t.tracer
}

// Flush writes the metrics textfile when one is configured.
func (t *Telemetry) Flush() error {
	if !t.config.Metrics.Enabled || t.config.Metrics.TextfilePath == "" {
		return nil
	}
	return t.metrics.WriteTextfile(t.config.Metrics.TextfilePath)
}

// Shutdown flushes metrics and stops the tracer.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	flushErr := t.Flush()
	if err := t.tracer.Shutdown(ctx); err != nil {
		return err
	}
	return flushErr
}
