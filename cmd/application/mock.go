package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/ncreconcile/internal/ncfile"
	"github.com/agentstation/ncreconcile/pkg/check"
	"github.com/agentstation/ncreconcile/pkg/constants"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value; Codec
// defaults to the real NetCDF codec so commands can run against temp dirs.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	LogToFunc        func(dir string) (*zerolog.Logger, error)
	SettingsFunc     func() Settings
	CodecFunc        func() check.Codec
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// LogTo uses the mock function or returns Logger unchanged.
func (m *Mock) LogTo(dir string) (*zerolog.Logger, error) {
	if m.LogToFunc != nil {
		return m.LogToFunc(dir)
	}
	return m.Logger(), nil
}

// Settings returns settings using the mock function or the defaults.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return Settings{
		StationPrefix:    constants.StationPrefix,
		ProfileVariables: constants.DefaultProfileVariables,
	}
}

// Codec returns a codec using the mock function or the NetCDF codec.
func (m *Mock) Codec() check.Codec {
	if m.CodecFunc != nil {
		return m.CodecFunc()
	}
	return ncfile.New()
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
