package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ifccheck/pkg/archive"
	"mercator-hq/ifccheck/pkg/cli"
	"mercator-hq/ifccheck/pkg/engine"
)

var historyFlags struct {
	limit     int
	status    string
	since     time.Duration
	rulesFile string
	format    string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived validation runs",
	Long: `List and show validation runs stored by "ifccheck check --archive" or with
archive.enabled in the config file.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Long: `List archived runs, newest first.

Examples:
  # The last ten runs
  ifccheck history list --limit 10

  # Failed runs of the last day as CSV
  ifccheck history list --status FAILED --since 24h --format csv`,
	Args: cobra.NoArgs,
	RunE: listRuns,
}

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print the report of an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  showRun,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd)

	f := historyListCmd.Flags()
	f.IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of runs, 0 for all")
	f.StringVar(&historyFlags.status, "status", "", "only runs with this overall status")
	f.DurationVar(&historyFlags.since, "since", 0, "only runs started within this duration")
	f.StringVar(&historyFlags.rulesFile, "rules", "", "only runs of this rules file")
	f.StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")

	historyShowCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json")
}

// openArchive opens the configured archive, whether or not check archives
// new runs.
func openArchive() (archive.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return archive.Open(&cfg.Archive)
}

// runTable renders run records as a cli.Table.
type runTable []*archive.Record

func (t runTable) Header() []string {
	return []string{"ID", "STARTED", "STATUS", "RULES", "INSTANCES", "DURATION", "RULES FILE", "MODEL FILE"}
}

func (t runTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.Status.String(),
			strconv.Itoa(r.ValidRules) + "/" + strconv.Itoa(r.Rules),
			strconv.Itoa(r.ValidInstances) + "/" + strconv.Itoa(r.Instances),
			r.Duration().Round(time.Millisecond).String(),
			r.RulesFile,
			r.ModelFile,
		})
	}
	return rows
}

// runSummary is the JSON form of a listed run.
type runSummary struct {
	ID             string        `json:"id"`
	StartedAt      time.Time     `json:"started_at"`
	DurationMS     int64         `json:"duration_ms"`
	Status         engine.Status `json:"status"`
	Rules          int           `json:"rules"`
	ValidRules     int           `json:"valid_rules"`
	Instances      int           `json:"instances"`
	ValidInstances int           `json:"valid_instances"`
	RulesFile      string        `json:"rules_file"`
	ModelFile      string        `json:"model_file"`
}

func listRuns(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return err
	}

	query := &archive.Query{
		Limit:     historyFlags.limit,
		RulesFile: historyFlags.rulesFile,
	}
	if historyFlags.status != "" {
		status, err := engine.ParseStatus(historyFlags.status)
		if err != nil {
			return err
		}
		query.Status = &status
	}
	if historyFlags.since > 0 {
		query.Since = time.Now().Add(-historyFlags.since)
	}

	store, err := openArchive()
	if err != nil {
		return cli.NewCommandError("history list", err)
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	var data any = runTable(records)
	if format == cli.FormatJSON {
		summaries := make([]runSummary, 0, len(records))
		for _, r := range records {
			summaries = append(summaries, runSummary{
				ID:             r.ID,
				StartedAt:      r.StartedAt,
				DurationMS:     r.Duration().Milliseconds(),
				Status:         r.Status,
				Rules:          r.Rules,
				ValidRules:     r.ValidRules,
				Instances:      r.Instances,
				ValidInstances: r.ValidInstances,
				RulesFile:      r.RulesFile,
				ModelFile:      r.ModelFile,
			})
		}
		data = summaries
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
}

func showRun(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return cli.NewCommandError("history show", err)
	}
	defer store.Close()

	record, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, archive.ErrNotFound) {
		return fmt.Errorf("run %s not found", args[0])
	}
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	out := cmd.OutOrStdout()
	if historyFlags.format == "json" {
		_, err := fmt.Fprintln(out, string(record.Document))
		return err
	}
	for _, line := range record.Lines() {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
