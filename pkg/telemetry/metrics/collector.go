package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ifccheck/pkg/config"
)

// Collector owns the Prometheus registry and every ifccheck metric.
// A disabled collector accepts all calls and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validation *ValidationMetrics
	rules      *RuleDocumentMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector registering on registry, or on a fresh
// registry when registry is nil.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		validation:         NewValidationMetrics(cfg, registry),
		rules:              NewRuleDocumentMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

// RecordRule records one evaluated rule.
func (c *Collector) RecordRule(rule, status string, instances int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	if !c.cardinalityLimiter.Allow(fmt.Sprintf("rule:%s:%s", rule, status)) {
		rule = "other"
	}
	c.validation.RecordRule(rule, status, instances, duration)
}

// RecordInstance records one evaluated entity.
func (c *Collector) RecordInstance(typeName, status string) {
	if !c.config.Enabled {
		return
	}
	if !c.cardinalityLimiter.Allow(fmt.Sprintf("instance:%s:%s", typeName, status)) {
		typeName = "other"
	}
	c.validation.RecordInstance(typeName, status)
}

// RecordConstraint records one evaluated constraint component.
func (c *Collector) RecordConstraint(kind, status string) {
	if !c.config.Enabled {
		return
	}
	c.validation.RecordConstraint(kind, status)
}

// RecordRun records a completed validation run.
func (c *Collector) RecordRun(status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.validation.RecordRun(status, duration)
}

// RecordRuleDocument records a rule document load.
func (c *Collector) RecordRuleDocument(source string, rules int, err error) {
	if !c.config.Enabled {
		return
	}
	c.rules.RecordLoad(source, rules, err)
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label sets.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter allowing maxCardinality label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is known or still fits under the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the number of tracked label sets.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
