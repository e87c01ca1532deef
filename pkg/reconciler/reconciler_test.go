package reconciler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/internal/testhelper"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
	"github.com/agentstation/ncreconcile/pkg/reconciler"
	"github.com/agentstation/ncreconcile/pkg/schema"
)

func reference(t *testing.T, ds *dataset.Dataset) *schema.Reference {
	t.Helper()
	ref, err := schema.Capture(ds)
	require.NoError(t, err)
	return ref
}

func TestReconcileUnchanged(t *testing.T) {
	ref := reference(t, testhelper.Point(t, []int32{0, 60},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{1, 2}},
		testhelper.Var{Name: "wind_speed", Units: "m s-1", Values: []float32{3, 4}},
	))
	// same names, different order
	ds := testhelper.Point(t, []int32{0, 60, 120},
		testhelper.Var{Name: "wind_speed", Units: "m s-1", Values: []float32{3, 4, 5}},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{1, 2, 3}},
	)

	res := reconciler.Reconcile(context.Background(), ds, ref)

	assert.Equal(t, reconciler.StatusSuccess, res.Status)
	assert.Equal(t, reconciler.Unchanged, res.Outcome)
	assert.False(t, res.HasChanges())
	assert.Equal(t, "no changes", res.Summary())
	assert.Len(t, ds.Variables(), 3)
}

func TestReconcileBackfillsMissingVariables(t *testing.T) {
	ref := reference(t, testhelper.Point(t, []int32{0},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{1}},
		testhelper.Var{Name: "wind_speed", Units: "m s-1", Values: []float32{3}},
		testhelper.Var{Name: "relative_humidity", Units: "1", Values: []int32{80}},
	))
	ds := testhelper.Point(t, []int32{0, 60, 120, 180},
		testhelper.Var{Name: "air_temperature", Units: "K", Values: []float32{270, 271, 272, 273}},
		testhelper.Var{Name: "precipitation", Units: "mm", Values: []float32{0, 0, 1, 0}},
	)
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	res := reconciler.Reconcile(ctx, ds, ref)

	require.Equal(t, reconciler.StatusSuccess, res.Status)
	assert.Equal(t, reconciler.Backfilled, res.Outcome)
	assert.Equal(t, []string{"wind_speed", "relative_humidity"}, res.Added)
	assert.Equal(t, []string{"precipitation"}, res.Extra)
	assert.True(t, res.HasChanges())

	// every reference name is now present, extras are kept
	assert.True(t, ref.Compare(ds).Missing == nil)
	assert.True(t, ds.HasVariable("precipitation"))

	ws, ok := ds.Variable("wind_speed")
	require.True(t, ok)
	assert.Equal(t, []string{"time"}, ws.Dimensions)
	assert.Equal(t, []float32{-999, -999, -999, -999}, ws.Values)
	for _, key := range []string{"standard_name", "long_name", "units", "_FillValue"} {
		assert.True(t, ws.Attributes.Has(key), key)
	}
	fill, _ := ws.Attributes.Get("_FillValue")
	assert.Equal(t, float32(-999), fill)

	rh, _ := ds.Variable("relative_humidity")
	assert.Equal(t, []int32{-999, -999, -999, -999}, rh.Values)

	// existing data untouched
	assert.Equal(t, []float32{270, 271, 272, 273}, testhelper.Float32s(t, ds, "air_temperature"))

	tl.AssertContains(t, "Variable list differs from the reference schema")
	tl.AssertContains(t, "Backfilled variable with missing values")
}

func TestReconcileBackfillsProfileVariable(t *testing.T) {
	ref := reference(t, testhelper.Profile(t, []int32{0}, "depth", []float32{0.1, 0.5},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2}}},
		testhelper.Var{Name: "soil_moisture", Units: "1", Values: [][]float32{{3, 4}}},
	))
	ds := testhelper.Profile(t, []int32{0, 60, 120}, "depth", []float32{0.1, 0.5},
		testhelper.Var{Name: "soil_temperature", Units: "K", Values: [][]float32{{1, 2}, {1, 2}, {1, 2}}},
	)

	res := reconciler.Reconcile(context.Background(), ds, ref)
	require.Equal(t, reconciler.StatusSuccess, res.Status)

	sm := testhelper.Matrix(t, ds, "soil_moisture")
	assert.Equal(t, [][]float32{{-999, -999}, {-999, -999}, {-999, -999}}, sm)
}

func TestReconcileBackfillsScalarAlongTime(t *testing.T) {
	source := testhelper.Point(t, []int32{0})
	altitude := dataset.NewVariable("altitude", nil, float32(112))
	altitude.Attributes.Set("standard_name", "altitude")
	altitude.Attributes.Set("long_name", "station altitude")
	altitude.Attributes.Set("units", "m")
	altitude.Attributes.Set("_FillValue", float32(-999))
	require.NoError(t, source.AddVariable(altitude))
	ref := reference(t, source)

	ds := testhelper.Point(t, []int32{0, 60, 120})

	res := reconciler.Reconcile(context.Background(), ds, ref)
	require.Equal(t, reconciler.StatusSuccess, res.Status)
	assert.Equal(t, []string{"altitude"}, res.Added)

	got, ok := ds.Variable("altitude")
	require.True(t, ok)
	assert.Equal(t, []string{"time"}, got.Dimensions)
	assert.Equal(t, []float32{-999, -999, -999}, got.Values)
}

func TestReconcilePartial(t *testing.T) {
	source := testhelper.Point(t, []int32{0},
		testhelper.Var{Name: "wind_speed", Units: "m s-1", Values: []float32{3}},
	)
	station := dataset.NewVariable("station_name", []string{"name_strlen"}, "SN18700")
	station.Attributes.Set("standard_name", "platform_name")
	station.Attributes.Set("long_name", "station name")
	station.Attributes.Set("units", "1")
	require.NoError(t, source.AddVariable(station))
	ref := reference(t, source)

	ds := testhelper.Point(t, []int32{0, 60})

	res := reconciler.Reconcile(context.Background(), ds, ref)

	assert.Equal(t, reconciler.StatusPartial, res.Status)
	assert.Equal(t, reconciler.Backfilled, res.Outcome)
	assert.Equal(t, []string{"wind_speed"}, res.Added)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "station_name", res.Diagnostics[0].Variable)
	assert.Contains(t, res.Summary(), "1 failed")
	assert.True(t, ds.HasVariable("wind_speed"))
	assert.False(t, ds.HasVariable("station_name"))
}

func TestReconcileFatal(t *testing.T) {
	ds := testhelper.Point(t, []int32{0})

	res := reconciler.Reconcile(context.Background(), ds, nil)
	assert.Equal(t, reconciler.StatusFatal, res.Status)
	assert.True(t, errors.IsValidationError(res.Err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = reconciler.Reconcile(ctx, ds, reference(t, ds))
	assert.Equal(t, reconciler.StatusFatal, res.Status)
	assert.True(t, errors.IsCanceled(res.Err))
	assert.Contains(t, res.Summary(), "reconciliation failed")
}
