// Package logging provides structured logging for ncreconcile using zerolog.
// Loggers are created once from a Config at process start, passed explicitly
// (or through a context.Context) to every component, and closed at exit.
//
// Example usage:
//
//	logger, closer, err := logging.Open(&logging.Config{Level: "info", File: "/var/log/nc/ncreconcile.log"})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	ctx := logging.WithLogger(context.Background(), &logger)
//	ctx = logging.WithStation(ctx, "SN18700")
//	logging.FromContext(ctx).Info().Str("file", path).Msg("Processing file")
package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is used when no logger was placed in a context.
	defaultLogger = NewLoggerFromConfig(DefaultConfig())

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

// Default returns the default logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a new JSON logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Logger()
}
