package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/ncreconcile/pkg/constants"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "NCRECONCILE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Archive configuration
	Dest             string
	LogDir           string
	Overwrite        bool
	KeepRejected     bool
	StationPrefix    string
	ProfileVariables []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (NCRECONCILE_*)
// 3. .env files
// 4. Config file (path, or ~/.ncreconcile.yaml, or ./.ncreconcile.yaml)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("station_prefix", constants.StationPrefix)
	v.SetDefault("profile_variables", constants.DefaultProfileVariables)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".ncreconcile")

		// a missing default config file is not an error
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Dest:             v.GetString("dest"),
		LogDir:           v.GetString("log_dir"),
		Overwrite:        v.GetBool("overwrite"),
		KeepRejected:     v.GetBool("keep_rejected"),
		StationPrefix:    v.GetString("station_prefix"),
		ProfileVariables: v.GetStringSlice("profile_variables"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// mergeFile copies the archive and logging settings of a config loaded
// from an explicit --config file.
func (c *Config) mergeFile(file *Config) {
	c.ConfigFile = file.ConfigFile
	c.Dest = file.Dest
	c.LogDir = file.LogDir
	c.Overwrite = file.Overwrite
	c.KeepRejected = file.KeepRejected
	c.StationPrefix = file.StationPrefix
	c.ProfileVariables = file.ProfileVariables
	c.LogFormat = file.LogFormat
	c.LogOutput = file.LogOutput
	if c.LogLevel == "" {
		c.LogLevel = file.LogLevel
	}
	if c.Format == "" {
		c.Format = file.Format
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded second; godotenv never overrides variables that
// are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
