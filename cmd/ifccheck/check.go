package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/ifccheck/pkg/archive"
	"mercator-hq/ifccheck/pkg/cli"
	"mercator-hq/ifccheck/pkg/config"
	"mercator-hq/ifccheck/pkg/engine"
	"mercator-hq/ifccheck/pkg/source"
	"mercator-hq/ifccheck/pkg/telemetry"
	"mercator-hq/ifccheck/pkg/telemetry/health"
)

var checkFlags struct {
	model             string
	reportFile        bool
	reportDir         string
	format            string
	noRulesValidation bool
	strict            bool
	failOnInvalid     bool
	watch             bool
	listen            string
	metricsFile       string
	archive           bool
	parallelism       int
}

var checkCmd = &cobra.Command{
	Use:   "check [RULES] [MODEL]",
	Short: "Validate a model against rule documents",
	Long: `Validate the entities of a model against one or more rule documents and
print the validation report.

RULES is a rule file or a glob pattern ("rules/**/*.yaml"). MODEL is the
entity graph file. Both default to rules.paths and model.path of the config
file. The report starts with "validation report <rules> <model>" followed by
one block per rule.

The exit status is 0 when the report completes, whatever the rule statuses
are. Use --fail-on-invalid to exit with status 2 when a rule is not VALID.

Examples:
  # Print the report
  ifccheck check rules.yaml building.yaml

  # Write "validation report rules.yaml building.yaml.txt"
  ifccheck check rules.yaml building.yaml --report-file

  # JSON for CI, failing the job on invalid rules
  ifccheck check rules.yaml building.yaml --format json --fail-on-invalid

  # Re-run on change and serve /metrics, /healthz and /readyz
  ifccheck check rules.yaml building.yaml --watch --listen :9090`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	f := checkCmd.Flags()
	f.StringVarP(&checkFlags.model, "model", "m", "", "entity graph file")
	f.BoolVar(&checkFlags.reportFile, "report-file", false, "write the report to a file instead of stdout")
	f.StringVar(&checkFlags.reportDir, "report-dir", "", "directory for report files")
	f.StringVar(&checkFlags.format, "format", "", "report format: text, json")
	f.BoolVar(&checkFlags.noRulesValidation, "no-rules-validation", false, "skip validation of the rule documents before evaluation")
	f.BoolVar(&checkFlags.strict, "strict", false, "treat rule document warnings as errors")
	f.BoolVar(&checkFlags.failOnInvalid, "fail-on-invalid", false, "exit with status 2 when a rule is not VALID")
	f.BoolVarP(&checkFlags.watch, "watch", "w", false, "re-run validation when rule or model files change")
	f.StringVar(&checkFlags.listen, "listen", "", "address serving /metrics, /healthz and /readyz in watch mode")
	f.StringVar(&checkFlags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after each run")
	f.BoolVar(&checkFlags.archive, "archive", false, "store the run in the archive")
	f.IntVarP(&checkFlags.parallelism, "parallelism", "p", 0, "entities evaluated concurrently per rule")
}

// applyCheckFlags layers positional arguments and set flags over cfg.
func applyCheckFlags(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Rules.Mode = "file"
		cfg.Rules.Paths = []string{args[0]}
	}
	if len(args) > 1 {
		cfg.Model.Path = args[1]
	}
	if checkFlags.model != "" {
		cfg.Model.Path = checkFlags.model
	}
	if checkFlags.reportFile {
		cfg.Report.Output = "file"
	}
	if checkFlags.reportDir != "" {
		cfg.Report.Directory = checkFlags.reportDir
	}
	if checkFlags.format != "" {
		cfg.Report.Format = checkFlags.format
	}
	if checkFlags.noRulesValidation {
		cfg.Rules.Validation.Enabled = false
	}
	if checkFlags.strict {
		cfg.Rules.Validation.Strict = true
	}
	if checkFlags.watch {
		cfg.Rules.Watch = true
	}
	if checkFlags.metricsFile != "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.TextfilePath = checkFlags.metricsFile
	}
	if checkFlags.listen != "" {
		cfg.Telemetry.Metrics.Enabled = true
	}
	if checkFlags.archive {
		cfg.Archive.Enabled = true
	}
	if checkFlags.parallelism > 0 {
		cfg.Engine.Parallelism = checkFlags.parallelism
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	applyCheckFlags(cfg, args)
	if cfg.Model.Path == "" {
		return cli.NewConfigError("model.path", "a model file is required (argument, --model or config)")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	tel, err := telemetry.New(&cfg.Telemetry, Version)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tel.Shutdown(shutdownCtx)
	}()

	src, err := source.New(&cfg.Rules)
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	var store archive.Storage
	if cfg.Archive.Enabled {
		store, err = archive.Open(&cfg.Archive)
		if err != nil {
			return cli.NewCommandError("check", err)
		}
		defer store.Close()
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	r := newRunner(cfg, tel, src, store, cmd.OutOrStdout())
	if cfg.Rules.Watch {
		return watch(ctx, r)
	}

	run, err := r.run(ctx)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	return verdict(run)
}

func verdict(run *engine.Run) error {
	if !checkFlags.failOnInvalid {
		return nil
	}
	s := run.Summary()
	if s.ValidRules < s.Rules {
		return &cli.ValidationFailedError{Rules: s.Rules, ValidRules: s.ValidRules}
	}
	return nil
}

// watch runs once, then re-runs on every settled change until ctx ends.
// Run errors are logged and reported through /readyz, not returned.
func watch(ctx context.Context, r *runner) error {
	logger := r.logger

	if _, err := r.run(ctx); err != nil {
		logger.Error("validation run failed", "error", err)
	}

	w, err := source.NewWatcher(r.cfg.Rules.Debounce, logger)
	if err != nil {
		return cli.NewCommandError("check", err)
	}
	defer w.Stop()
	if err := w.SetFiles(r.watched()...); err != nil {
		return cli.NewCommandError("check", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if addr := checkFlags.listen; addr != "" {
		checker := health.New(2 * time.Second)
		checker.RegisterCheck("validation", r.state.Check)
		if r.store != nil {
			store := r.store
			checker.RegisterCheck("archive", func(ctx context.Context) error {
				_, err := store.Count(ctx)
				return err
			})
		}
		srv := health.NewServer(addr, checker, r.tel.Metrics().Handler(),
			health.NewVersionInfo(Version, GitCommit, BuildDate))

		g.Go(srv.ListenAndServe)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		logger.Info("status server listening", "addr", addr)
	}

	if r.store != nil {
		scheduler := archive.NewScheduler(archive.NewPruner(r.store, archive.Retention(&r.cfg.Archive)))
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("check", err)
		}
		defer scheduler.Stop()
	}

	g.Go(func() error {
		return w.Watch(ctx, func(path string) error {
			logger.Info("change detected, re-running validation", "path", path)
			if _, err := r.run(ctx); err != nil {
				return err
			}
			return w.SetFiles(r.watched()...)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("check", fmt.Errorf("watch: %w", err))
	}
	return nil
}
