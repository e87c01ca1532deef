package version_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/cmd/application"
	"github.com/agentstation/ncreconcile/cmd/ncreconcile/cmd/version"
)

func TestVersionCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		cmd := version.NewCommand(&application.Mock{VersionFunc: func() string { return "1.2.3" }})
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "1.2.3")
		assert.Contains(t, out.String(), "Built By")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		cmd := version.NewCommand(&application.Mock{OutputFormatFunc: func() string { return "json" }})
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())

		var info version.Info
		require.NoError(t, json.Unmarshal(out.Bytes(), &info))
		assert.Equal(t, "dev", info.Version)
		assert.Equal(t, "unknown", info.Commit)
		assert.Equal(t, "test", info.BuiltBy)
		assert.NotEmpty(t, info.GoVersion)
	})
}
