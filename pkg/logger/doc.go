// Package logger builds configured log/slog loggers.
//
// The factory covers the choices every service makes once at startup:
// format (JSON for aggregation, text for terminals), level, destination and
// static attributes.
//
//	log := logger.New(
//	    logger.WithService("checkout"),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithFormat(logger.FormatText),
//	)
package logger
