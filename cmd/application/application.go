// Package application provides the application interface for ncreconcile commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            ds, err := app.Codec().Load(args[0])
//	            if err != nil {
//	                return err
//	            }
//	            // ... use ds
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    SettingsFunc: func() application.Settings {
//	        return application.Settings{Dest: t.TempDir()}
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/ncreconcile/pkg/check"
)

// Settings are the archive settings resolved from the config file,
// environment and .env files. Command flags override them.
type Settings struct {
	Dest             string
	LogDir           string
	Overwrite        bool
	KeepRejected     bool
	StationPrefix    string
	ProfileVariables []string
}

// Application provides the application interface that commands need.
// The App struct from cmd/ncreconcile/app implements this interface.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// LogTo adds a file sink in dir to the logger and returns the new
	// logger. The sink is closed on shutdown.
	LogTo(dir string) (*zerolog.Logger, error)

	// Settings returns the archive settings.
	Settings() Settings

	// Codec returns the NetCDF codec used to read and write station files.
	Codec() check.Codec

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
