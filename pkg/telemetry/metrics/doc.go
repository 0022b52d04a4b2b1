// Package metrics records Prometheus metrics for validation runs.
//
// The collector registers on its own registry. One-shot CLI runs write the
// registry to a textfile; watch mode can serve it over HTTP:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	eng := engine.New(engineCfg, logger).WithMetrics(collector)
//	...
//	collector.WriteTextfile("/var/lib/node_exporter/ifccheck.prom")
package metrics
