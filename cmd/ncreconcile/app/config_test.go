package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/pkg/constants"
)

// isolate runs the test from an empty directory with an empty home so no
// stray .env or .ncreconcile.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.StationPrefix, config.StationPrefix)
	assert.Equal(t, constants.DefaultProfileVariables, config.ProfileVariables)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.Dest)
	assert.False(t, config.Overwrite)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("NCRECONCILE_DEST", "/data/stations")
	t.Setenv("NCRECONCILE_LOG_DIR", "/var/log/ncreconcile")
	t.Setenv("NCRECONCILE_OVERWRITE", "true")
	t.Setenv("NCRECONCILE_KEEP_REJECTED", "1")
	t.Setenv("NCRECONCILE_LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/data/stations", config.Dest)
	assert.Equal(t, "/var/log/ncreconcile", config.LogDir)
	assert.True(t, config.Overwrite)
	assert.True(t, config.KeepRejected)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NCRECONCILE_STATION_PREFIX=ST\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("NCRECONCILE_STATION_PREFIX") })

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "ST", config.StationPrefix)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `dest: /archive
log_dir: /logs
overwrite: true
profile_variables:
  - soil_temperature
  - soil_moisture
`

	t.Run("default location", func(t *testing.T) {
		path := filepath.Join(dir, ".ncreconcile.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		t.Cleanup(func() { _ = os.Remove(path) })

		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "/archive", config.Dest)
		assert.Equal(t, "/logs", config.LogDir)
		assert.True(t, config.Overwrite)
		assert.Equal(t, []string{"soil_temperature", "soil_moisture"}, config.ProfileVariables)
		assert.NotEmpty(t, config.ConfigFile)
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, path, config.ConfigFile)
		assert.Equal(t, "/archive", config.Dest)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		t.Setenv("NCRECONCILE_DEST", "/from/env")
		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/from/env", config.Dest)
	})
}

func TestConfigUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format, "empty flag keeps configured format")
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "json", "error")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "error", config.LogLevel)
}

func TestConfigMergeFile(t *testing.T) {
	config := &Config{LogLevel: "debug", Format: "json"}
	config.mergeFile(&Config{
		ConfigFile:    "/etc/ncreconcile.yaml",
		Dest:          "/archive",
		StationPrefix: "SN",
		LogLevel:      "error",
		Format:        "yaml",
	})

	assert.Equal(t, "/archive", config.Dest)
	assert.Equal(t, "/etc/ncreconcile.yaml", config.ConfigFile)
	assert.Equal(t, "debug", config.LogLevel, "values already set stay")
	assert.Equal(t, "json", config.Format)
}
