// Package testhelper builds small station datasets and writes them as real
// NetCDF files for tests.
package testhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/internal/ncfile"
	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
)

// Fill is the missing value used by the helpers.
const Fill = -999

// Var describes one data variable. When Dims is empty the variable is
// indexed by time alone (point series) or by time and the vertical axis
// (profile series).
type Var struct {
	Name   string
	Units  string
	Dims   []string
	Values any
}

// Point returns a timeSeries dataset with a time coordinate and vars.
func Point(t testing.TB, times []int32, vars ...Var) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("")
	ds.Attributes.Set(constants.AttrFeatureType, string(dataset.PointSeries))
	ds.Attributes.Set("title", "station observations")
	require.NoError(t, ds.AddVariable(TimeVariable(times)))
	for _, v := range vars {
		dims := v.Dims
		if dims == nil {
			dims = []string{constants.TimeDimension}
		}
		require.NoError(t, ds.AddVariable(DataVariable(v.Name, v.Units, dims, v.Values)))
	}
	return ds
}

// Profile returns a timeSeriesProfile dataset with time and vertical
// coordinates and vars laid out as (time, axis).
func Profile(t testing.TB, times []int32, axis string, levels []float32, vars ...Var) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("")
	ds.Attributes.Set(constants.AttrFeatureType, string(dataset.ProfileSeries))
	ds.Attributes.Set("title", "station profiles")
	require.NoError(t, ds.AddVariable(TimeVariable(times)))

	vert := dataset.NewVariable(axis, []string{axis}, levels)
	vert.Attributes.Set(constants.AttrStandardName, axis)
	vert.Attributes.Set(constants.AttrLongName, axis+" below surface")
	vert.Attributes.Set(constants.AttrUnits, "m")
	require.NoError(t, ds.AddVariable(vert))

	for _, v := range vars {
		dims := v.Dims
		if dims == nil {
			dims = []string{constants.TimeDimension, axis}
		}
		require.NoError(t, ds.AddVariable(DataVariable(v.Name, v.Units, dims, v.Values)))
	}
	return ds
}

// TimeVariable returns a CF time coordinate.
func TimeVariable(times []int32) *dataset.Variable {
	v := dataset.NewVariable(constants.TimeDimension, []string{constants.TimeDimension}, times)
	v.Attributes.Set(constants.AttrStandardName, "time")
	v.Attributes.Set(constants.AttrLongName, "time of measurement")
	v.Attributes.Set(constants.AttrUnits, "seconds since 1970-01-01 00:00:00+0")
	return v
}

// DataVariable returns a variable with the full set of descriptive
// attributes and a _FillValue of the values' type.
func DataVariable(name, units string, dims []string, values any) *dataset.Variable {
	v := dataset.NewVariable(name, dims, values)
	v.Attributes.Set(constants.AttrStandardName, name)
	v.Attributes.Set(constants.AttrLongName, name+" measured at station")
	v.Attributes.Set(constants.AttrUnits, units)
	if typ, err := v.Type(); err == nil {
		if fill, err := dataset.Scalar(typ, Fill); err == nil {
			v.Attributes.Set(constants.AttrFillValue, fill)
		}
	}
	return v
}

// Write saves ds at path (creating parent directories) and returns path.
func Write(t testing.TB, ds *dataset.Dataset, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), constants.DirPermissions))
	ds.Path = path
	require.NoError(t, ncfile.New().Save(ds, path))
	return path
}

// Load reads the file at path.
func Load(t testing.TB, path string) *dataset.Dataset {
	t.Helper()
	ds, err := ncfile.New().Load(path)
	require.NoError(t, err)
	return ds
}

// Names returns the variable names of the file at path.
func Names(t testing.TB, path string) []string {
	t.Helper()
	return Load(t, path).VariableNames()
}

// Float32s returns the 1-D float32 values of a variable.
func Float32s(t testing.TB, ds *dataset.Dataset, name string) []float32 {
	t.Helper()
	v, ok := ds.Variable(name)
	require.True(t, ok, "variable %s", name)
	values, ok := v.Values.([]float32)
	require.True(t, ok, "variable %s is %T", name, v.Values)
	return values
}

// Matrix returns the 2-D float32 values of a variable.
func Matrix(t testing.TB, ds *dataset.Dataset, name string) [][]float32 {
	t.Helper()
	v, ok := ds.Variable(name)
	require.True(t, ok, "variable %s", name)
	values, ok := v.Values.([][]float32)
	require.True(t, ok, "variable %s is %T", name, v.Values)
	return values
}
