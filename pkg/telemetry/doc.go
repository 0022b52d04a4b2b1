// Package telemetry wires structured logging, Prometheus metrics and
// OpenTelemetry tracing for ifccheck.
//
// # Components
//
//   - logging: slog based logger with run-scoped context fields
//   - metrics: Prometheus counters and histograms for rule evaluation
//   - tracing: OTLP/gRPC span export for validation runs
//   - health: liveness and readiness endpoints for watch mode
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, version)
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	eng, err := engine.New(engineCfg, tel.Logger().Slog())
//	eng.WithMetrics(tel.Metrics()).WithTracer(tel.Tracer())
package telemetry
