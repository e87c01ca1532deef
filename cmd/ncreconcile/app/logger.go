package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/ncreconcile/pkg/logging"
)

// NewLogger creates a console logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag or NCRECONCILE_LOG_LEVEL
//  2. -v/--verbose flag (shortcut for debug)
//  3. -q/--quiet flag (shortcut for warn)
//  4. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	return logging.NewLoggerFromConfig(logConfig(config, ""))
}

// OpenLogger creates a logger that writes to the console and appends JSON
// lines to file. The returned closer releases the file.
func OpenLogger(config *Config, file string) (zerolog.Logger, io.Closer, error) {
	return logging.Open(logConfig(config, file))
}

func logConfig(config *Config, file string) *logging.Config {
	level := determineLogLevel(config)
	return &logging.Config{
		Level:      level,
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		File:       file,
		TimeFormat: "rfc3339",
		NoColor:    config.NoColor,
		AddCaller:  level == "debug" || level == "trace",
	}
}

// determineLogLevel determines the log level using clear precedence rules.
func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}

	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	return "info"
}

// validateLogLevel validates a log level string and returns a valid level.
// If the input is invalid, returns "info" as a safe default.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}
