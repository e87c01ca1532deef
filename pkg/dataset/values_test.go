package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		values   any
		wantType dataset.NumericType
		wantRank int
	}{
		{[]int32{1}, dataset.Int32, 1},
		{[]float32{1}, dataset.Float32, 1},
		{[][]int16{{1}}, dataset.Int16, 2},
		{[][]float64{{1}}, dataset.Float64, 2},
		{"abc", dataset.Text, 1},
		{float32(60.1), dataset.Float32, 0},
		{[]int64{1700000000}, dataset.Int64, 1},
		{[][]int64{{1}}, dataset.Int64, 2},
	}
	for _, tt := range tests {
		got, rank, err := dataset.TypeOf(tt.values)
		require.NoError(t, err)
		assert.Equal(t, tt.wantType, got)
		assert.Equal(t, tt.wantRank, rank)
	}

	_, _, err := dataset.TypeOf(map[string]int{})
	assert.Error(t, err)
	_, _, err = dataset.TypeOf([]uint16{1})
	assert.True(t, errors.IsValidationError(err))
}

func TestNewFilled(t *testing.T) {
	v, err := dataset.NewFilled(dataset.Int32, []int{3}, -999)
	require.NoError(t, err)
	assert.Equal(t, []int32{-999, -999, -999}, v)

	v, err = dataset.NewFilled(dataset.Float32, []int{2, 2}, -1.5)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{-1.5, -1.5}, {-1.5, -1.5}}, v)

	v, err = dataset.NewFilled(dataset.Float64, []int{}, 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = dataset.NewFilled(dataset.Text, []int{2}, 0)
	assert.Error(t, err)
	_, err = dataset.NewFilled(dataset.Float32, []int{1, 2, 3}, 0)
	assert.Error(t, err)

	assert.False(t, dataset.Text.IsNumeric())
	assert.True(t, dataset.Int16.IsNumeric())
}

func TestScalarAndFloats(t *testing.T) {
	s, err := dataset.Scalar(dataset.Int32, -999)
	require.NoError(t, err)
	assert.Equal(t, int32(-999), s)

	f, err := dataset.Floats([]float32{0.25, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5}, f)

	_, err = dataset.Floats([][]float32{{1}})
	assert.Error(t, err)

	back, err := dataset.FromFloats(dataset.Float32, []float64{0.25, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5}, back)
}

func TestShape(t *testing.T) {
	assert.Equal(t, []int{3}, dataset.Shape([]int32{1, 2, 3}))
	assert.Equal(t, []int{2, 4}, dataset.Shape([][]float32{{1, 2, 3, 4}, {1, 2, 3, 4}}))
	assert.Equal(t, []int{0, 0}, dataset.Shape([][]float32{}))
	assert.Equal(t, []int{}, dataset.Shape(float32(1)))
	assert.Nil(t, dataset.Shape(42))
	assert.Equal(t, []int{2}, dataset.Shape([]int64{0, 3600}))
	assert.Nil(t, dataset.Shape([]uint32{1}))
}

func TestInt64Time(t *testing.T) {
	ds := dataset.New("SN18700_2024.nc")
	require.NoError(t, ds.AddVariable(dataset.NewVariable("time", []string{"time"}, []int64{0, 3600, 7200})))

	n, err := ds.TimeLength()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	v, err := dataset.NewFilled(dataset.Int64, []int{n}, -999)
	require.NoError(t, err)
	assert.Equal(t, []int64{-999, -999, -999}, v)

	f, err := dataset.Floats([]int64{0, 3600})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3600}, f)
}
