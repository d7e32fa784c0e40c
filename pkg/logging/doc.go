// Package logging provides structured logging configuration for mimic.
//
// It wraps log/slog so every component logs the same way. Components accept a
// *slog.Logger through an option and fall back to Nop when none is given:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	store := session.NewStore(session.WithLogger(logging.Component(logger, "session")))
//
// Text output is meant for local test runs, JSON for CI log collection.
package logging
