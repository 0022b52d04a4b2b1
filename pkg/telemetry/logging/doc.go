// Package logging builds the slog-based logger used across ifccheck.
//
// Components accept a *slog.Logger and fall back to slog.Default(); the CLI
// creates one Logger from configuration and hands Logger.Slog() down:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "console"})
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(cfg, logger.Slog())
//
// Run-scoped fields travel in the context:
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "validation finished")
package logging
