package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mercator-hq/ifccheck/pkg/cli"
	"mercator-hq/ifccheck/pkg/config"
)

// resetFlags restores every flag to its default so tests do not leak state
// through the package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points the archive and log output at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("IFCCHECK_ARCHIVE_PATH", filepath.Join(dir, "runs.db"))
	t.Setenv("IFCCHECK_TELEMETRY_LOGGING_LEVEL", "error")
	return dir
}

func TestCheck(t *testing.T) {
	isolate(t)

	out, err := execute(t, "check", "testdata/rules/walls.yaml", "testdata/building.yaml")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}

	want := strings.Join([]string{
		"validation report walls.yaml building.yaml",
		"wall-name: Rule: 2 of 2 instances of types [IfcWall] successfully validated.",
		"",
		"IfcWall Wall-001 Global Id: 2O2Fr$t4X7Zf8NOew3FLOH: 1 of 1 constraints are valid.",
		"attribute Name exists as expected.",
		"",
		"IfcWall Wall-002: 1 of 1 constraints are valid.",
		"attribute Name exists as expected.",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("report mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestCheck_FailedRulesExitZero(t *testing.T) {
	isolate(t)

	out, err := execute(t, "check", "testdata/rules/external.yaml", "--model", "testdata/building.yaml")
	if err != nil {
		t.Fatalf("check without --fail-on-invalid returned error: %v", err)
	}
	if !strings.Contains(out, "wall-external: Rule: 1 of 2 instances") {
		t.Errorf("unexpected report:\n%s", out)
	}
	if !strings.Contains(out, "validation equals failed - expected: true, actual: false") {
		t.Errorf("report lacks the failed constraint:\n%s", out)
	}
}

func TestCheck_FailOnInvalid(t *testing.T) {
	isolate(t)

	_, err := execute(t, "check", "testdata/rules/external.yaml", "testdata/building.yaml", "--fail-on-invalid")
	var failed *cli.ValidationFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected ValidationFailedError, got %v", err)
	}
	if failed.Rules != 1 || failed.ValidRules != 0 {
		t.Errorf("failed = %+v", failed)
	}
	if code := cli.ExitCode(err); code != cli.ExitInvalid {
		t.Errorf("ExitCode() = %d, want %d", code, cli.ExitInvalid)
	}

	_, err = execute(t, "check", "testdata/rules/walls.yaml", "testdata/building.yaml", "--fail-on-invalid")
	if err != nil {
		t.Errorf("valid run with --fail-on-invalid returned error: %v", err)
	}
}

func TestCheck_JSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, "check", "testdata/rules/walls.yaml", "testdata/building.yaml", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Title   string `json:"title"`
		Status  string `json:"status"`
		Summary struct {
			Instances int `json:"instances"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.Title != "validation report walls.yaml building.yaml" || doc.Status != "VALID" || doc.Summary.Instances != 2 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestCheck_ReportFile(t *testing.T) {
	dir := isolate(t)
	reports := filepath.Join(dir, "reports")

	out, err := execute(t, "check", "testdata/rules/walls.yaml", "testdata/building.yaml",
		"--report-file", "--report-dir", reports)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout not empty with --report-file: %q", out)
	}

	data, err := os.ReadFile(filepath.Join(reports, "validation report walls.yaml building.yaml.txt"))
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "validation report walls.yaml building.yaml\n") {
		t.Errorf("report file content:\n%s", data)
	}
}

func TestCheck_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "no model", args: []string{"check", "testdata/rules/walls.yaml"}, wantMsg: "model.path"},
		{name: "missing rules", args: []string{"check", "testdata/rules/missing.yaml", "testdata/building.yaml"}, wantMsg: "failed to resolve rule files"},
		{name: "invalid rules", args: []string{"check", "testdata/rules/invalid.yaml", "testdata/building.yaml"}, wantMsg: "unrecognized check"},
		{name: "missing model", args: []string{"check", "testdata/rules/walls.yaml", "testdata/missing.yaml"}, wantMsg: "failed to open model file"},
		{name: "bad format", args: []string{"check", "testdata/rules/walls.yaml", "testdata/building.yaml", "--format", "xml"}, wantMsg: "report.format"},
		{name: "too many args", args: []string{"check", "a", "b", "c"}, wantMsg: "accepts at most 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
			if code := cli.ExitCode(err); code != cli.ExitError {
				t.Errorf("ExitCode() = %d, want %d", code, cli.ExitError)
			}
		})
	}
}

func TestArchiveHistoryAndPrune(t *testing.T) {
	isolate(t)

	for _, rules := range []string{"testdata/rules/walls.yaml", "testdata/rules/external.yaml"} {
		if _, err := execute(t, "check", rules, "testdata/building.yaml", "--archive"); err != nil {
			t.Fatalf("check %s --archive: %v", rules, err)
		}
	}

	out, err := execute(t, "history", "list", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var runs []struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		RulesFile string `json:"rules_file"`
	}
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("history list output is not JSON: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("archived runs = %d, want 2", len(runs))
	}
	if runs[0].Status != "FAILED" || runs[1].Status != "VALID" {
		t.Errorf("statuses newest first = %s, %s", runs[0].Status, runs[1].Status)
	}

	out, err = execute(t, "history", "list", "--status", "valid")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("filtered text listing:\n%s", out)
	}

	out, err = execute(t, "history", "show", runs[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "validation report walls.yaml building.yaml\nwall-name: Rule: 2 of 2") {
		t.Errorf("history show output:\n%s", out)
	}

	if _, err := execute(t, "history", "show", "no-such-run"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("history show of unknown run: %v", err)
	}

	out, err = execute(t, "prune", "--max-runs", "1")
	if err != nil {
		t.Fatal(err)
	}
	if out != "deleted 1 runs\n" {
		t.Errorf("prune output = %q", out)
	}

	out, err = execute(t, "history", "list", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != "FAILED" {
		t.Errorf("runs after prune = %+v", runs)
	}
}

func TestHistoryList_BadFlags(t *testing.T) {
	isolate(t)

	if _, err := execute(t, "history", "list", "--format", "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := execute(t, "history", "list", "--status", "MAYBE"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestLint(t *testing.T) {
	out, err := execute(t, "lint", "testdata/rules/walls.yaml", "testdata/rules/external.yaml")
	if err != nil {
		t.Fatalf("lint of valid files returned error: %v", err)
	}
	if !strings.Contains(out, "testdata/rules/walls.yaml: ok") || !strings.Contains(out, "testdata/rules/external.yaml: ok") {
		t.Errorf("lint output:\n%s", out)
	}
	if !strings.Contains(out, "1 rules, 1 constraints") {
		t.Errorf("lint output lacks stats:\n%s", out)
	}
}

func TestLint_Invalid(t *testing.T) {
	out, err := execute(t, "lint", "testdata/rules/*.yaml")
	if err == nil {
		t.Fatal("lint of an invalid file returned no error")
	}
	if err.Error() != "1 of 3 rule files have errors" {
		t.Errorf("error = %q", err)
	}
	if !strings.Contains(out, "testdata/rules/invalid.yaml: FAILED") {
		t.Errorf("lint output:\n%s", out)
	}
}

func TestLint_JSON(t *testing.T) {
	out, err := execute(t, "lint", "testdata/rules/invalid.yaml", "--format", "json")
	if err == nil {
		t.Fatal("expected error")
	}

	var results []LintResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("lint output is not JSON: %v\n%s", err, out)
	}
	if len(results) != 1 || results[0].Valid || len(results[0].Errors) == 0 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Errors[0].Line == 0 {
		t.Error("lint error has no line")
	}
}

func TestLint_NoFiles(t *testing.T) {
	if _, err := execute(t, "lint", "testdata/rules/*.json"); err == nil {
		t.Error("expected error when no rule files match")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ifccheck " + Version, "Git Commit: ", "Go Version: go", "OS/Arch: "} {
		if !strings.Contains(out, want) {
			t.Errorf("version output lacks %q:\n%s", want, out)
		}
	}
}

func TestApplyCheckFlags(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	checkFlags.reportFile = true
	checkFlags.format = "json"
	checkFlags.noRulesValidation = true
	checkFlags.metricsFile = "/tmp/ifccheck.prom"
	checkFlags.archive = true
	checkFlags.parallelism = 8

	cfg := config.Default()
	applyCheckFlags(cfg, []string{"walls.yaml", "building.yaml"})

	if cfg.Rules.Mode != "file" || len(cfg.Rules.Paths) != 1 || cfg.Rules.Paths[0] != "walls.yaml" {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if cfg.Model.Path != "building.yaml" {
		t.Errorf("model path = %q", cfg.Model.Path)
	}
	if cfg.Report.Output != "file" || cfg.Report.Format != "json" {
		t.Errorf("report = %+v", cfg.Report)
	}
	if cfg.Rules.Validation.Enabled {
		t.Error("rule validation still enabled")
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.TextfilePath != "/tmp/ifccheck.prom" {
		t.Errorf("metrics = %+v", cfg.Telemetry.Metrics)
	}
	if !cfg.Archive.Enabled || cfg.Engine.Parallelism != 8 {
		t.Errorf("archive enabled = %v, parallelism = %d", cfg.Archive.Enabled, cfg.Engine.Parallelism)
	}

	// The model flag wins over the positional argument.
	checkFlags.model = "other.yaml"
	applyCheckFlags(cfg, []string{"walls.yaml", "building.yaml"})
	if cfg.Model.Path != "other.yaml" {
		t.Errorf("model path = %q, want other.yaml", cfg.Model.Path)
	}
}

func TestRulesLabel(t *testing.T) {
	tests := []struct {
		files []string
		want  string
	}{
		{files: []string{"rules/walls.yaml"}, want: "rules/walls.yaml"},
		{files: []string{"rules/walls.yaml", "rules/doors.yaml"}, want: "walls.yaml+doors.yaml"},
	}
	for _, tt := range tests {
		if got := rulesLabel(tt.files); got != tt.want {
			t.Errorf("rulesLabel(%v) = %q, want %q", tt.files, got, tt.want)
		}
	}
}
