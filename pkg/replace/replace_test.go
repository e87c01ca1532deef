package replace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/internal/ncfile"
	"github.com/agentstation/ncreconcile/internal/testhelper"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/replace"
)

type failingSaver struct{ err error }

func (f failingSaver) Save(_ *dataset.Dataset, path string) error {
	// leave a partial file behind to check cleanup
	_ = os.WriteFile(path, []byte("partial"), 0o644)
	return f.err
}

func setup(t *testing.T) (original string, before []byte, rebuilt *dataset.Dataset) {
	t.Helper()
	original = filepath.Join(t.TempDir(), "SN18701", "2022", "soil_2022.nc")
	testhelper.Write(t, testhelper.Profile(t, []int32{0}, "depth", []float32{0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2, 3, 4, 5, 6}}},
	), original)

	var err error
	before, err = os.ReadFile(original)
	require.NoError(t, err)

	rebuilt = testhelper.Profile(t, []int32{0}, "depth", []float32{0.1, 0.2, 0.5, 1.0},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{2, 3, 4, 5}}},
	)
	return original, before, rebuilt
}

func TestReplaceWithoutOverwrite(t *testing.T) {
	original, before, rebuilt := setup(t)
	c := replace.New(ncfile.New())

	action, err := c.Replace(context.Background(), rebuilt, original)

	require.Error(t, err)
	assert.True(t, errors.IsOverwriteRequired(err))
	assert.Equal(t, replace.Rejected, action)

	after, err := os.ReadFile(original)
	require.NoError(t, err)
	assert.Equal(t, before, after, "original must be byte-identical")
	assert.NoFileExists(t, replace.RebuildPath(original))
}

func TestReplaceKeepRejected(t *testing.T) {
	original, before, rebuilt := setup(t)
	c := replace.New(ncfile.New(), replace.WithKeepRejected(true))

	_, err := c.Replace(context.Background(), rebuilt, original)

	var owErr *errors.OverwriteRequiredError
	require.ErrorAs(t, err, &owErr)
	assert.Equal(t, replace.RebuildPath(original), owErr.TempPath)
	assert.FileExists(t, owErr.TempPath)

	after, _ := os.ReadFile(original)
	assert.Equal(t, before, after)

	kept := testhelper.Load(t, owErr.TempPath)
	n, _ := kept.DimensionSize("depth")
	assert.Equal(t, 4, n)
}

func TestReplaceWithOverwrite(t *testing.T) {
	original, _, rebuilt := setup(t)
	c := replace.New(ncfile.New(), replace.WithOverwrite(true))

	action, err := c.Replace(context.Background(), rebuilt, original)
	require.NoError(t, err)
	assert.Equal(t, replace.Replaced, action)

	got := testhelper.Load(t, original)
	n, _ := got.DimensionSize("depth")
	assert.Equal(t, 4, n)
	assert.Equal(t, [][]float32{{2, 3, 4, 5}}, testhelper.Matrix(t, got, "soil_temperature"))
	assert.NoFileExists(t, replace.RebuildPath(original))
}

func TestReplaceDryRun(t *testing.T) {
	original, before, rebuilt := setup(t)
	c := replace.New(ncfile.New(), replace.WithOverwrite(true), replace.WithDryRun(true))

	action, err := c.Replace(context.Background(), rebuilt, original)
	require.NoError(t, err)
	assert.Equal(t, replace.Skipped, action)

	after, _ := os.ReadFile(original)
	assert.Equal(t, before, after)
}

func TestReplaceWriteFailure(t *testing.T) {
	original, before, rebuilt := setup(t)
	c := replace.New(failingSaver{err: errors.New("disk full")}, replace.WithOverwrite(true))

	_, err := c.Replace(context.Background(), rebuilt, original)
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))

	after, _ := os.ReadFile(original)
	assert.Equal(t, before, after)
	assert.NoFileExists(t, replace.RebuildPath(original))
}

func TestReplaceCanceled(t *testing.T) {
	original, _, rebuilt := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := replace.New(ncfile.New(), replace.WithOverwrite(true)).Replace(ctx, rebuilt, original)
	assert.True(t, errors.IsCanceled(err))
}

func TestCommit(t *testing.T) {
	original := filepath.Join(t.TempDir(), "obs.nc")
	ds := testhelper.Point(t, []int32{0, 60},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{1, 2}},
	)
	testhelper.Write(t, ds, original)

	require.NoError(t, ds.AddVariable(testhelper.DataVariable("wind_speed", "m s-1", []string{"time"}, []float32{-999, -999})))

	// no overwrite needed for additive changes
	action, err := replace.New(ncfile.New()).Commit(context.Background(), ds, original)
	require.NoError(t, err)
	assert.Equal(t, replace.Committed, action)

	got := testhelper.Load(t, original)
	assert.True(t, got.HasVariable("wind_speed"))
	assert.Equal(t, []float32{1, 2}, testhelper.Float32s(t, got, "air_temperature"))
	assert.NoFileExists(t, replace.BackfillPath(original))
}

func TestCommitWriteFailure(t *testing.T) {
	original := filepath.Join(t.TempDir(), "obs.nc")
	require.NoError(t, os.WriteFile(original, []byte("original"), 0o644))

	_, err := replace.New(failingSaver{err: errors.New("boom")}).Commit(context.Background(), dataset.New(original), original)
	require.Error(t, err)

	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Operation)
	assert.NoFileExists(t, replace.BackfillPath(original))

	data, _ := os.ReadFile(original)
	assert.Equal(t, "original", string(data))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "a.nc-updated", replace.RebuildPath("a.nc"))
	assert.Equal(t, "a.nc-backfilled", replace.BackfillPath("a.nc"))
}
