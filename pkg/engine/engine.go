package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
	"mercator-hq/ifccheck/pkg/telemetry/tracing"
)

// Evaluator evaluates constraint trees. It holds no per-run state and is safe
// for concurrent use.
type Evaluator struct {
	config *EngineConfig
}

// NewEvaluator creates an evaluator. A nil config means DefaultEngineConfig.
func NewEvaluator(config *EngineConfig) *Evaluator {
	if config == nil {
		config = DefaultEngineConfig()
	}
	return &Evaluator{config: config}
}

// MetricsRecorder receives evaluation counts. Implemented by metrics.Collector.
type MetricsRecorder interface {
	RecordRule(rule, status string, instances int, duration time.Duration)
	RecordInstance(typeName, status string)
	RecordConstraint(kind, status string)
	RecordRun(status string, duration time.Duration)
}

// Engine validates a model against a rule document.
type Engine struct {
	config    *EngineConfig
	evaluator *Evaluator
	logger    *slog.Logger
	metrics   MetricsRecorder
	tracer    *tracing.Tracer
}

// New creates an engine. A nil config means DefaultEngineConfig and a nil
// logger means slog.Default().
func New(config *EngineConfig, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		config:    config,
		evaluator: NewEvaluator(config),
		logger:    logger.With("component", "engine"),
		tracer:    tracing.Noop(),
	}, nil
}

// WithMetrics sets the metrics recorder.
func (e *Engine) WithMetrics(m MetricsRecorder) *Engine {
	e.metrics = m
	return e
}

// WithTracer sets the tracer.
func (e *Engine) WithTracer(t *tracing.Tracer) *Engine {
	if t != nil {
		e.tracer = t
	}
	return e
}

// Evaluator returns the engine's evaluator.
func (e *Engine) Evaluator() *Evaluator {
	return e.evaluator
}

// Run is the outcome of validating a model against a document.
type Run struct {
	Rules      []*RuleResult
	Skipped    []string // Names of disabled rules
	StartedAt  time.Time
	FinishedAt time.Time
}

// Result is VALID when every evaluated rule is VALID, FAILED otherwise.
func (r *Run) Result() Result {
	s := r.Summary()
	msg := fmt.Sprintf("%d of %d rules successfully validated.", s.ValidRules, s.Rules)
	if s.ValidRules == s.Rules {
		return Valid(msg)
	}
	return Failed(msg)
}

// Duration returns the wall time of the run.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Report returns the report lines of every rule in order.
func (r *Run) Report() []string {
	var lines []string
	for _, rule := range r.Rules {
		lines = append(lines, rule.Report()...)
	}
	return lines
}

// Summary aggregates counts over a run.
type Summary struct {
	Rules          int
	ValidRules     int
	Instances      int
	ValidInstances int
	// Constraints counts leaf constraint outcomes by status.
	Constraints map[Status]int
}

// Summary computes the run summary.
func (r *Run) Summary() Summary {
	s := Summary{Constraints: make(map[Status]int)}
	for _, rule := range r.Rules {
		s.Rules++
		if rule.Result.IsValid() {
			s.ValidRules++
		}
		for _, inst := range rule.Instances {
			s.Instances++
			if inst.Result.IsValid() {
				s.ValidInstances++
			}
			for _, c := range inst.Constraints {
				Visit(c, func(c Component) {
					if _, ok := c.(*ConstraintResult); ok {
						s.Constraints[c.Result().Status]++
					}
				})
			}
		}
	}
	return s
}

// Visit calls fn for c and every descendant, depth-first.
func Visit(c Component, fn func(Component)) {
	fn(c)
	if g, ok := c.(*GroupResult); ok {
		for _, child := range g.Children {
			Visit(child, fn)
		}
	}
}

// Validate evaluates every rule of doc against m in declared order.
// It fails only on invalid input or cancellation; constraint problems end up
// as ERROR results in the run.
func (e *Engine) Validate(ctx context.Context, doc *ast.Document, m model.Model) (*Run, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	if m == nil {
		return nil, ErrNoModel
	}

	ctx, span := e.tracer.Start(ctx, "ifccheck.validate",
		trace.WithAttributes(tracing.AttrRuleCount.Int(len(doc.Rules))))
	defer span.End()

	run := &Run{StartedAt: time.Now()}

	for i, rule := range doc.Rules {
		name := rule.DisplayName(i)
		if !rule.Enabled && e.config.SkipDisabled {
			e.logger.Debug("skipping disabled rule", "rule", name)
			run.Skipped = append(run.Skipped, name)
			continue
		}

		result, err := e.validateRule(ctx, rule, name, m)
		if err != nil {
			tracing.SetError(span, err)
			tracing.SetStatus(span, err)
			return nil, &EvaluationError{Rule: name, Message: "evaluation aborted", Cause: err}
		}
		run.Rules = append(run.Rules, result)
	}

	run.FinishedAt = time.Now()
	overall := run.Result()
	if e.metrics != nil {
		e.metrics.RecordRun(overall.Status.String(), run.Duration())
	}
	tracing.SetStatus(span, nil)

	e.logger.Info("validation finished",
		"rules", len(run.Rules),
		"skipped", len(run.Skipped),
		"status", overall.Status.String(),
		"duration", run.Duration())

	return run, nil
}

func (e *Engine) validateRule(ctx context.Context, rule *ast.Rule, name string, m model.Model) (*RuleResult, error) {
	ctx, span := e.tracer.Start(ctx, "ifccheck.rule",
		trace.WithAttributes(tracing.RuleAttributes(name, rule.Classes)...))
	defer span.End()

	start := time.Now()
	result, err := e.evaluator.EvaluateRule(ctx, rule, name, m)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	duration := time.Since(start)

	span.SetAttributes(tracing.RuleResultAttributes(result.Result.Status.String(), len(result.Instances), result.ValidCount)...)
	e.logger.Debug("rule evaluated",
		"rule", name,
		"status", result.Result.Status.String(),
		"instances", len(result.Instances),
		"valid", result.ValidCount,
		"duration", duration)

	if e.metrics != nil {
		e.recordMetrics(result, duration)
	}
	return result, nil
}

func (e *Engine) recordMetrics(result *RuleResult, duration time.Duration) {
	e.metrics.RecordRule(result.Name, result.Result.Status.String(), len(result.Instances), duration)
	for _, inst := range result.Instances {
		e.metrics.RecordInstance(inst.Entity.TypeTag(), inst.Result.Status.String())
		for _, c := range inst.Constraints {
			Visit(c, func(c Component) {
				e.metrics.RecordConstraint(string(c.Definition().Kind), c.Result().Status.String())
			})
		}
	}
}
