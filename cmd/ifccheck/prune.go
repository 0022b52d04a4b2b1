package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/ifccheck/pkg/archive"
	"mercator-hq/ifccheck/pkg/cli"
)

var pruneFlags struct {
	days    int
	maxRuns int
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archived runs outside the retention settings",
	Long: `Delete archived runs older than archive.retention.days and the oldest runs
beyond archive.retention.max_runs. Flags override the config file.

Examples:
  # Apply the configured retention
  ifccheck prune

  # Keep only the last 100 runs
  ifccheck prune --days 0 --max-runs 100`,
	Args: cobra.NoArgs,
	RunE: pruneRuns,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneFlags.days, "days", -1, "keep runs younger than this many days, 0 keeps all")
	pruneCmd.Flags().IntVar(&pruneFlags.maxRuns, "max-runs", -1, "keep at most this many runs, 0 for no limit")
}

func pruneRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	retention := archive.Retention(&cfg.Archive)
	if pruneFlags.days >= 0 {
		retention.Days = pruneFlags.days
	}
	if pruneFlags.maxRuns >= 0 {
		retention.MaxRuns = pruneFlags.maxRuns
	}

	store, err := archive.Open(&cfg.Archive)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}
	defer store.Close()

	deleted, err := archive.NewPruner(store, retention).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d runs\n", deleted)
	return nil
}
