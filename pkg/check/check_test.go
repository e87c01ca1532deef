package check_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/internal/ncfile"
	"github.com/agentstation/ncreconcile/internal/testhelper"
	"github.com/agentstation/ncreconcile/pkg/check"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
	"github.com/agentstation/ncreconcile/pkg/reconciler"
	"github.com/agentstation/ncreconcile/pkg/replace"
)

// pointStation writes SN18700 where the newest file has wind_speed and the
// older ones lack it.
func pointStation(t *testing.T, root string) (newest, older string) {
	t.Helper()
	dir := filepath.Join(root, "SN18700")
	newest = testhelper.Write(t, testhelper.Point(t, []int32{0, 3600, 7200},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{270, 271, 272}},
		testhelper.Var{Name: "wind_speed", Units: "m s-1", Values: []float32{3, 4, 5}},
	), filepath.Join(dir, "2024", "SN18700_2024.nc"))
	older = testhelper.Write(t, testhelper.Point(t, []int32{0, 3600},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{260, 261}},
	), filepath.Join(dir, "2023", "SN18700_2023.nc"))
	return newest, older
}

// profileStation writes SN18701 with vertical counts 4, 4 and 6 in visiting
// order and returns the paths in that order.
func profileStation(t *testing.T, root string) []string {
	t.Helper()
	dir := filepath.Join(root, "SN18701")
	four := []float32{0.1, 0.2, 0.5, 1.0}
	six := []float32{0.05, 0.1, 0.2, 0.5, 1.0, 2.0}
	return []string{
		testhelper.Write(t, testhelper.Profile(t, []int32{0, 60}, "depth", four,
			testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}}},
		), filepath.Join(dir, "2024", "SN18701_2024.nc")),
		testhelper.Write(t, testhelper.Profile(t, []int32{0}, "depth", four,
			testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2, 3, 4}}},
		), filepath.Join(dir, "2023", "SN18701_2023.nc")),
		testhelper.Write(t, testhelper.Profile(t, []int32{0, 60}, "depth", six,
			testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{
				{10, 11, 12, 13, 14, 15},
				{20, 21, 22, 23, 24, 25},
			}},
		), filepath.Join(dir, "2022", "SN18701_2022.nc")),
	}
}

func newChecker(opts ...replace.Option) *check.Checker {
	codec := ncfile.New()
	return check.New(codec, check.WithCoordinator(replace.New(codec, opts...)))
}

func TestPointStationBackfill(t *testing.T) {
	root := t.TempDir()
	newest, older := pointStation(t, root)
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	res, err := newChecker().Run(ctx, root)
	require.NoError(t, err)

	st, ok := res.Station("SN18700")
	require.True(t, ok)
	assert.Equal(t, reconciler.StatusSuccess, st.Status())
	assert.Equal(t, newest, st.Reference)
	require.Len(t, st.Files, 2)
	assert.True(t, st.Files[0].Reference)
	assert.Equal(t, []string{"wind_speed"}, st.Files[1].Added)
	assert.Equal(t, replace.Committed, st.Files[1].Action)

	got := testhelper.Load(t, older)
	assert.Equal(t, []float32{-999, -999}, testhelper.Float32s(t, got, "wind_speed"))
	assert.Equal(t, []float32{260, 261}, testhelper.Float32s(t, got, "air_temperature"))
	assert.NoFileExists(t, older+"-backfilled")

	assert.Equal(t, check.Counts{Files: 2, Unchanged: 1, Backfill: 1}, res.Totals())
	assert.True(t, res.HasChanges())
	assert.False(t, res.FinishedAt.Time.Before(res.StartedAt.Time))

	tl.AssertContains(t, `"station":"SN18700"`)
	tl.AssertContains(t, "Backfilled variable with missing values")
}

func TestProfileStationWithoutOverwrite(t *testing.T) {
	root := t.TempDir()
	paths := profileStation(t, root)
	before, err := os.ReadFile(paths[2])
	require.NoError(t, err)

	res, err := newChecker().Run(context.Background(), root)
	require.NoError(t, err, "station failures are not run failures")

	st, _ := res.Station("SN18701")
	assert.Equal(t, reconciler.StatusFatal, st.Status())
	assert.True(t, st.Aborted)
	assert.True(t, errors.IsOverwriteRequired(st.Err))
	require.Len(t, st.Files, 3)
	assert.Equal(t, replace.Rejected, st.Files[2].Action)
	require.NotNil(t, st.Grid)
	assert.Equal(t, 4, st.Grid.Count())

	after, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NoFileExists(t, paths[2]+"-updated")
	assert.Contains(t, res.Summary(), "aborted: SN18701")
}

func TestProfileStationWithOverwrite(t *testing.T) {
	root := t.TempDir()
	paths := profileStation(t, root)

	res, err := newChecker(replace.WithOverwrite(true)).Run(context.Background(), root)
	require.NoError(t, err)

	st, _ := res.Station("SN18701")
	require.Equal(t, reconciler.StatusSuccess, st.Status(), st.Error)
	assert.True(t, st.Files[2].Rebuilt)
	assert.Equal(t, replace.Replaced, st.Files[2].Action)

	for _, p := range paths {
		ds := testhelper.Load(t, p)
		n, ok := ds.DimensionSize("depth")
		require.True(t, ok)
		assert.Equal(t, 4, n, p)
	}
	rebuilt := testhelper.Load(t, paths[2])
	assert.Equal(t, [][]float32{{11, 12, 13, 14}, {21, 22, 23, 24}}, testhelper.Matrix(t, rebuilt, "soil_temperature"))
	assert.NoFileExists(t, paths[2]+"-updated")
	assert.Equal(t, 1, res.Totals().Rebuilt)
}

func TestProfileStationBackfillCarriedIntoRebuild(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "SN18702")
	testhelper.Write(t, testhelper.Profile(t, []int32{0}, "depth", []float32{0.1, 0.5},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2}}},
		testhelper.Var{Name: "soil_moisture", Units: "1", Values: [][]float32{{3, 4}}},
	), filepath.Join(dir, "2024", "a.nc"))
	old := testhelper.Write(t, testhelper.Profile(t, []int32{0}, "depth", []float32{0.1, 0.3, 0.5},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{7, 8, 9}}},
	), filepath.Join(dir, "2023", "b.nc"))

	res, err := newChecker(replace.WithOverwrite(true)).Run(context.Background(), root)
	require.NoError(t, err)
	st, _ := res.Station("SN18702")
	require.False(t, st.Aborted, st.Error)

	got := testhelper.Load(t, old)
	assert.Equal(t, [][]float32{{7, 9}}, testhelper.Matrix(t, got, "soil_temperature"))
	assert.Equal(t, [][]float32{{-999, -999}}, testhelper.Matrix(t, got, "soil_moisture"))
}

func TestStationFailureDoesNotStopRun(t *testing.T) {
	root := t.TempDir()
	broken := filepath.Join(root, "SN00001", "2024", "broken.nc")
	require.NoError(t, os.MkdirAll(filepath.Dir(broken), 0o755))
	require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0o644))
	_, older := pointStation(t, root)

	res, err := newChecker().Run(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Stations, 2)

	bad, _ := res.Station("SN00001")
	assert.Equal(t, reconciler.StatusFatal, bad.Status())
	assert.True(t, errors.IsIO(bad.Err))

	good, _ := res.Station("SN18700")
	assert.Equal(t, reconciler.StatusSuccess, good.Status())
	assert.True(t, testhelper.Load(t, older).HasVariable("wind_speed"))
}

func TestMissingFeatureTypeAbortsStation(t *testing.T) {
	root := t.TempDir()
	ds := testhelper.Point(t, []int32{0}, testhelper.Var{Name: "x", Units: "1", Values: []float32{1}})
	ds.Attributes = nil
	testhelper.Write(t, ds, filepath.Join(root, "SN1", "2024", "a.nc"))

	res, err := newChecker().Run(context.Background(), root)
	require.NoError(t, err)
	st, _ := res.Station("SN1")
	assert.True(t, errors.IsMissingAttribute(st.Err))
}

func TestDryRunLeavesFilesAlone(t *testing.T) {
	root := t.TempDir()
	_, older := pointStation(t, root)
	before, _ := os.ReadFile(older)
	tl := logging.NewTestLogger(t)

	res, err := newChecker(replace.WithDryRun(true)).Run(tl.Context(context.Background()), root)
	require.NoError(t, err)
	assert.True(t, res.DryRun)

	entry, ok := tl.Find("Dry run, would write backfilled variables")
	require.True(t, ok)
	assert.Equal(t, older, entry["file"])
	tl.AssertNotContains(t, "Wrote backfilled variables")

	st, _ := res.Station("SN18700")
	assert.Equal(t, replace.Skipped, st.Files[1].Action)
	after, _ := os.ReadFile(older)
	assert.Equal(t, before, after)
	assert.Contains(t, res.Summary(), "(Dry run)")
}

func TestRunUnreadableRoot(t *testing.T) {
	_, err := newChecker().Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
}

func TestRunCanceled(t *testing.T) {
	root := t.TempDir()
	pointStation(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newChecker().Run(ctx, root)
	assert.True(t, errors.IsCanceled(err))
}
