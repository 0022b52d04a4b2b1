package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/ifccheck/pkg/archive"
	"mercator-hq/ifccheck/pkg/config"
	"mercator-hq/ifccheck/pkg/engine"
	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
	"mercator-hq/ifccheck/pkg/rdl/parser"
	"mercator-hq/ifccheck/pkg/rdl/validator"
	"mercator-hq/ifccheck/pkg/report"
	"mercator-hq/ifccheck/pkg/source"
	"mercator-hq/ifccheck/pkg/telemetry"
	"mercator-hq/ifccheck/pkg/telemetry/health"
	"mercator-hq/ifccheck/pkg/telemetry/logging"
	"mercator-hq/ifccheck/pkg/telemetry/tracing"
)

// runner performs one validation run: resolve rule files, decode and
// validate them, load the model, evaluate, then report and archive.
type runner struct {
	cfg    *config.Config
	tel    *telemetry.Telemetry
	source source.Source
	store  archive.Storage
	state  *health.RunState
	out    io.Writer
	logger *slog.Logger

	// mu serializes runs; files are the rule files of the latest run.
	mu    sync.Mutex
	files []string
}

func newRunner(cfg *config.Config, tel *telemetry.Telemetry, src source.Source, store archive.Storage, out io.Writer) *runner {
	return &runner{
		cfg:    cfg,
		tel:    tel,
		source: src,
		store:  store,
		state:  health.NewRunState(),
		out:    out,
		logger: tel.Logger().Slog().With("component", "runner"),
	}
}

func (r *runner) run(ctx context.Context) (*engine.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, err := r.runOnce(ctx)
	if err != nil {
		r.state.Failed(err)
		return nil, err
	}
	r.state.Succeeded(run.Result().Status.String())
	return run, nil
}

func (r *runner) runOnce(ctx context.Context) (_ *engine.Run, err error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithModelFile(ctx, r.cfg.Model.Path)

	ctx, span := r.tel.Tracer().Start(ctx, "ifccheck.run",
		trace.WithAttributes(tracing.AttrRunID.String(runID)))
	defer func() {
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		span.End()
	}()

	files, err := r.source.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rule files from %s: %w", r.source.Name(), err)
	}
	r.files = files
	ctx = logging.WithRulesFile(ctx, strings.Join(files, ","))

	log := r.tel.Logger().WithContext(ctx).With("component", "runner")
	if id := tracing.TraceID(ctx); id != "" {
		log = log.With("trace_id", id)
	}

	doc, err := r.loadRules(files)
	r.tel.Metrics().RecordRuleDocument(r.source.Name(), ruleCount(doc), err)
	if err != nil {
		return nil, err
	}
	log.Debug("rules loaded", "files", len(files), "rules", len(doc.Rules))

	graph, err := model.LoadFile(r.cfg.Model.Path)
	if err != nil {
		return nil, err
	}
	log.Debug("model loaded", "entities", graph.Len())

	eng, err := engine.New(engineConfig(&r.cfg.Engine), r.tel.Logger().Slog())
	if err != nil {
		return nil, err
	}
	eng.WithMetrics(r.tel.Metrics()).WithTracer(r.tel.Tracer())

	run, err := eng.Validate(ctx, doc, graph)
	if err != nil {
		return nil, err
	}

	rep := report.New(rulesLabel(files), r.cfg.Model.Path, run)
	if err := r.writeReport(rep, log); err != nil {
		return nil, err
	}
	if err := r.archive(ctx, runID, rep); err != nil {
		return nil, err
	}
	if err := r.tel.Flush(); err != nil {
		log.Warn("failed to write metrics textfile", "error", err)
	}

	r.tel.Logger().InfoContext(ctx, "validation run finished",
		"status", run.Result().Status.String(),
		"duration", run.Duration())
	return run, nil
}

func (r *runner) loadRules(files []string) (*ast.Document, error) {
	p := parser.NewParser().
		WithMaxDepth(r.cfg.Engine.MaxDepth).
		WithMaxPathSteps(r.cfg.Engine.MaxPathSteps)

	doc, err := p.ParseMulti(files)
	if err != nil {
		return nil, err
	}

	if !r.cfg.Rules.Validation.Enabled {
		r.logger.Debug("rule document validation disabled")
		return doc, nil
	}

	v := validator.NewValidator().WithStrictMode(r.cfg.Rules.Validation.Strict)
	if err := v.Validate(doc); err != nil {
		return nil, err
	}
	for _, w := range v.Warnings(doc) {
		r.logger.Warn(w.Message, "location", w.Location.String())
	}
	return doc, nil
}

func (r *runner) writeReport(rep *report.Report, log *logging.Logger) error {
	format, err := report.ParseFormat(r.cfg.Report.Format)
	if err != nil {
		return err
	}

	if r.cfg.Report.Output == "file" {
		path, err := report.WriteFile(r.cfg.Report.Directory, rep, format)
		if err != nil {
			return err
		}
		log.Info("report written", "path", path)
		return nil
	}
	return report.Render(r.out, rep, format)
}

func (r *runner) archive(ctx context.Context, runID string, rep *report.Report) error {
	if r.store == nil {
		return nil
	}
	record, err := archive.NewRecord(rep)
	if err != nil {
		return err
	}
	record.ID = runID
	if err := r.store.Store(ctx, record); err != nil {
		return err
	}
	r.logger.Debug("run archived", "run_id", runID)
	return nil
}

// watched returns the files watch mode observes: the latest rule files and
// the model.
func (r *runner) watched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	files := make([]string, 0, len(r.files)+1)
	files = append(files, r.files...)
	return append(files, r.cfg.Model.Path)
}

func engineConfig(cfg *config.EngineConfig) *engine.EngineConfig {
	return engine.DefaultEngineConfig().
		WithParallelism(cfg.Parallelism).
		WithNotPropagatesError(cfg.NotPropagatesError)
}

// rulesLabel names the rule files in report titles.
func rulesLabel(files []string) string {
	if len(files) == 1 {
		return files[0]
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	return strings.Join(names, "+")
}

func ruleCount(doc *ast.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Rules)
}
