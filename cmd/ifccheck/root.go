package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/ifccheck/pkg/cli"
	"mercator-hq/ifccheck/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ifccheck",
	Short: "Validate building-model entities against declarative rules",
	Long: `ifccheck evaluates rule documents against an entity graph exported from a
building model and reports, per rule and per entity, which constraints hold.

A rule selects entities by type and checks attribute values reached through
paths of attribute, filter and list steps. Constraints combine into and, or
and set groups. Every result is one of VALID, FAILED or ERROR.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the status of the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ifccheck.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the config file and environment. Validation is left to
// the caller so flags can fill in required fields first.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.FindConfigFile("ifccheck.yaml", "ifccheck.yml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}
