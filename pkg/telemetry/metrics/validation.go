package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ifccheck/pkg/config"
)

// ValidationMetrics tracks rule evaluation.
//
// Metrics:
//   - ifccheck_validation_rules_total: evaluated rules by rule and status
//   - ifccheck_validation_rule_duration_seconds: rule evaluation duration
//   - ifccheck_validation_rule_instances: instances per evaluated rule
//   - ifccheck_validation_instances_total: evaluated entities by type and status
//   - ifccheck_validation_constraints_total: evaluated components by kind and status
//   - ifccheck_validation_runs_total: validation runs by overall status
//   - ifccheck_validation_run_duration_seconds: validation run duration
type ValidationMetrics struct {
	rulesTotal       *prometheus.CounterVec
	ruleDuration     *prometheus.HistogramVec
	ruleInstances    *prometheus.HistogramVec
	instancesTotal   *prometheus.CounterVec
	constraintsTotal *prometheus.CounterVec
	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
}

// NewValidationMetrics creates and registers the validation metrics.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		rulesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_total",
				Help:      "Total number of evaluated rules",
			},
			[]string{"rule", "status"},
		),

		ruleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_duration_seconds",
				Help:      "Duration of rule evaluation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"rule"},
		),

		ruleInstances: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_instances",
				Help:      "Number of entity instances a rule was evaluated on",
				Buckets:   []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
			[]string{"rule"},
		),

		instancesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "instances_total",
				Help:      "Total number of evaluated entity instances",
			},
			[]string{"type", "status"},
		),

		constraintsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "constraints_total",
				Help:      "Total number of evaluated constraint components",
			},
			[]string{"kind", "status"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of validation runs",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of a validation run in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
	}

	registry.MustRegister(
		vm.rulesTotal,
		vm.ruleDuration,
		vm.ruleInstances,
		vm.instancesTotal,
		vm.constraintsTotal,
		vm.runsTotal,
		vm.runDuration,
	)

	return vm
}

// RecordRule records an evaluated rule.
func (vm *ValidationMetrics) RecordRule(rule, status string, instances int, duration time.Duration) {
	vm.rulesTotal.WithLabelValues(rule, status).Inc()
	vm.ruleDuration.WithLabelValues(rule).Observe(duration.Seconds())
	vm.ruleInstances.WithLabelValues(rule).Observe(float64(instances))
}

// RecordInstance records an evaluated entity.
func (vm *ValidationMetrics) RecordInstance(typeName, status string) {
	vm.instancesTotal.WithLabelValues(typeName, status).Inc()
}

// RecordConstraint records an evaluated constraint component.
func (vm *ValidationMetrics) RecordConstraint(kind, status string) {
	vm.constraintsTotal.WithLabelValues(kind, status).Inc()
}

// RecordRun records a validation run.
func (vm *ValidationMetrics) RecordRun(status string, duration time.Duration) {
	vm.runsTotal.WithLabelValues(status).Inc()
	vm.runDuration.Observe(duration.Seconds())
}
