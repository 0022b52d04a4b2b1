package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ifccheck/pkg/config"
)

// RuleDocumentMetrics tracks rule document loading.
type RuleDocumentMetrics struct {
	loadsTotal  *prometheus.CounterVec
	rulesLoaded *prometheus.GaugeVec
}

// NewRuleDocumentMetrics creates and registers the rule document metrics.
func NewRuleDocumentMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleDocumentMetrics {
	rm := &RuleDocumentMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_document_loads_total",
				Help:      "Total number of rule document loads by source and result",
			},
			[]string{"source", "result"},
		),
		rulesLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_loaded",
				Help:      "Number of rules in the last loaded document",
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(rm.loadsTotal, rm.rulesLoaded)
	return rm
}

// RecordLoad records a load attempt.
func (rm *RuleDocumentMetrics) RecordLoad(source string, rules int, err error) {
	if err != nil {
		rm.loadsTotal.WithLabelValues(source, "error").Inc()
		return
	}
	rm.loadsTotal.WithLabelValues(source, "success").Inc()
	rm.rulesLoaded.WithLabelValues(source).Set(float64(rules))
}
