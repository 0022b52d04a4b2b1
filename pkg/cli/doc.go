/*
Package cli provides helpers shared by the ifccheck commands.

Output Formatting:

Command results that are not validation reports (run history, lint results)
are printed through a Formatter:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, rows); err != nil {
		return err
	}

Values implementing Table render as aligned columns in text mode and as
records in CSV mode.

Exit Codes:

ExitCode maps a command error to the process exit status. A
ValidationFailedError, returned by "ifccheck check --fail-on-invalid" when a
rule is not valid, exits with ExitInvalid so scripts can tell invalid models
from broken inputs.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
