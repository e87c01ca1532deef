package inspect_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/cmd/application"
	"github.com/agentstation/ncreconcile/cmd/ncreconcile/cmd/inspect"
	"github.com/agentstation/ncreconcile/internal/testhelper"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

func profileFile(t *testing.T) string {
	t.Helper()
	return testhelper.Write(t, testhelper.Profile(t, []int32{0, 60}, "depth", []float32{0.1, 0.5},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2}, {3, 4}}},
	), filepath.Join(t.TempDir(), "SN18701", "2024", "a.nc"))
}

func TestInspect(t *testing.T) {
	ds := testhelper.Load(t, profileFile(t))
	in := inspect.Inspect(ds, []string{"soil_temperature"})

	assert.Equal(t, "timeSeriesProfile", in.FeatureType)
	assert.Equal(t, 2, in.TimeSteps)
	assert.Empty(t, in.Problems)
	require.NotNil(t, in.Grid)
	assert.Equal(t, "depth", in.Grid.Axis)
	assert.Equal(t, 2, in.Grid.Count())

	var names []string
	for _, v := range in.Variables {
		names = append(names, v.Name)
	}
	assert.Contains(t, names, "soil_temperature")
}

func TestInspectReportsProblems(t *testing.T) {
	ds := testhelper.Point(t, []int32{0}, testhelper.Var{Name: "x", Units: "1", Values: []float32{1}})
	ds.Attributes = nil
	x, _ := ds.Variable("x")
	x.Attributes = dataset.NewAttributes("x")

	in := inspect.Inspect(ds, nil)
	assert.Empty(t, in.FeatureType)
	assert.Len(t, in.Problems, 2, "featureType and the attributes of x")
	assert.Nil(t, in.Grid)
}

func TestInspectCommand(t *testing.T) {
	path := profileFile(t)

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		cmd := inspect.NewCommand(&application.Mock{})
		cmd.SetOut(&out)
		cmd.SetArgs([]string{path})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Contains(t, out.String(), "featureType: timeSeriesProfile, 2 time steps")
		assert.Contains(t, out.String(), "vertical grid: depth")
		assert.Contains(t, out.String(), "soil_temperature")
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		cmd := inspect.NewCommand(&application.Mock{OutputFormatFunc: func() string { return "yaml" }})
		cmd.SetOut(&out)
		cmd.SetArgs([]string{path})
		require.NoError(t, cmd.ExecuteContext(context.Background()))

		var decoded inspect.Inspection
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, path, decoded.Path)
		require.NotNil(t, decoded.Grid)
		assert.InDeltaSlice(t, []float64{0.1, 0.5}, decoded.Grid.Levels, 1e-6)
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := inspect.NewCommand(&application.Mock{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.nc")})
		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsIO(err))
	})
}
