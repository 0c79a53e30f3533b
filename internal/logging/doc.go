// Package logging provides structured logging utilities for dayplan.
//
// It centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.list")
//	logger.Info("fetched events",
//	    logging.Account("work"),
//	    logging.Status(logging.StatusSuccess))
//
// All diagnostics go to stderr; stdout is reserved for reports and prompts.
package logging
