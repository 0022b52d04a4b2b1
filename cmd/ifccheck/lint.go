package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
	"mercator-hq/ifccheck/pkg/rdl/parser"
	"mercator-hq/ifccheck/pkg/rdl/validator"
	"mercator-hq/ifccheck/pkg/source"
)

var lintFlags struct {
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint FILE|PATTERN...",
	Short: "Validate rule documents",
	Long: `Decode and validate rule documents without evaluating them.

The lint command reports:
  - YAML syntax errors
  - unrecognized path steps, checks and constraint components
  - missing classes or constraints
  - warnings such as duplicate rule names, empty groups and double negation

Examples:
  # Lint a single file
  ifccheck lint rules.yaml

  # Lint every rule file below rules/
  ifccheck lint 'rules/**/*.yaml'

  # Strict mode (warnings as errors) with JSON output
  ifccheck lint rules.yaml --strict --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the lint outcome of one rule file.
type LintResult struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Stats    *ast.Stats  `json:"stats,omitempty"`
	Errors   []LintIssue `json:"errors,omitempty"`
	Warnings []LintIssue `json:"warnings,omitempty"`
}

// LintIssue is a single error or warning.
type LintIssue struct {
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	files, err := source.NewFileSource("", args...).Resolve(context.Background())
	if err != nil {
		return err
	}

	results := make([]LintResult, 0, len(files))
	failed := 0
	for _, file := range files {
		result := lintFile(file, lintFlags.strict)
		if !result.Valid {
			failed++
		}
		results = append(results, result)
	}

	out := io.Discard
	if cmd != nil {
		out = cmd.OutOrStdout()
	}

	if lintFlags.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		writeLintText(out, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d rule files have errors", failed, len(files))
	}
	return nil
}

func lintFile(path string, strict bool) LintResult {
	result := LintResult{File: path, Valid: true}

	doc, err := parser.NewParser().Parse(path)
	if err != nil {
		result.Valid = false
		result.Errors = issues(err)
		return result
	}

	stats := ast.Collect(doc)
	result.Stats = &stats

	v := validator.NewValidator().WithStrictMode(strict)
	if err := v.Validate(doc); err != nil {
		result.Valid = false
		result.Errors = issues(err)
		return result
	}
	for _, w := range v.Warnings(doc) {
		result.Warnings = append(result.Warnings, issue(w))
	}
	return result
}

func issues(err error) []LintIssue {
	var list *rdlErrors.ErrorList
	if errors.As(err, &list) {
		out := make([]LintIssue, 0, list.Count())
		for _, e := range list.Errors {
			out = append(out, issue(e))
		}
		return out
	}
	var single *rdlErrors.Error
	if errors.As(err, &single) {
		return []LintIssue{issue(single)}
	}
	return []LintIssue{{Message: err.Error()}}
}

func issue(e *rdlErrors.Error) LintIssue {
	return LintIssue{
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		Message:    e.Message,
		Type:       string(e.Type),
		Suggestion: e.Suggestion,
	}
}

func writeLintText(w io.Writer, results []LintResult) {
	for _, r := range results {
		status := "ok"
		if !r.Valid {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%s: %s\n", r.File, status)
		if r.Stats != nil {
			fmt.Fprintf(w, "  %d rules, %d constraints, %d groups, %d path steps, max depth %d\n",
				r.Stats.Rules, r.Stats.Constraints, r.Stats.Groups, r.Stats.PathSteps, r.Stats.MaxDepth)
		}
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  error %s\n", formatIssue(e))
		}
		for _, e := range r.Warnings {
			fmt.Fprintf(w, "  warning %s\n", formatIssue(e))
		}
	}
}

func formatIssue(i LintIssue) string {
	s := i.Message
	if i.Line > 0 {
		s = fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Message)
	}
	if i.Suggestion != "" {
		s += " (" + i.Suggestion + ")"
	}
	return s
}
