package vertical

import (
	"context"
	"fmt"
	"slices"

	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
)

// Rebuild returns a copy of ds laid out on the canonical grid. The time
// coordinate, global attributes and every variable without the vertical
// dimension are carried over verbatim. The vertical coordinate takes the
// canonical levels. Every other variable with the vertical dimension is
// filled with its missing value, then each cell whose original level is
// close to a canonical level is copied over.
//
// The original dataset is not modified.
func Rebuild(ctx context.Context, ds *dataset.Dataset, canonical Grid) (*dataset.Dataset, error) {
	logger := logging.FromContext(ctx)
	axis := canonical.Axis

	current, err := GridOf(ds, axis)
	if err != nil {
		return nil, errors.NewGridRebuildError(ds.Path, axis, "reading vertical coordinate", err)
	}
	index := levelIndex(current, canonical)

	out := dataset.New(ds.Path)
	out.Attributes = ds.Attributes.Clone("")

	for _, v := range ds.Variables() {
		var nv *dataset.Variable
		switch {
		case v.Name == axis:
			nv, err = coordinate(v, canonical)
		case v.HasDimension(axis):
			nv, err = remapVariable(v, axis, index)
		default:
			nv = &dataset.Variable{
				Name:       v.Name,
				Dimensions: slices.Clone(v.Dimensions),
				Attributes: v.Attributes.Clone(v.Name),
				Values:     v.Values,
			}
		}
		if err != nil {
			return nil, errors.WithPath(err, ds.Path)
		}
		if err := out.AddVariable(nv); err != nil {
			return nil, errors.NewGridRebuildError(ds.Path, v.Name, "adding variable", err)
		}
	}

	matched := 0
	for _, i := range index {
		if i >= 0 {
			matched++
		}
	}
	logger.Info().
		Str("file", ds.Path).
		Str("axis", axis).
		Int("levels_before", current.Count()).
		Int("levels_after", canonical.Count()).
		Int("levels_matched", matched).
		Msg("Rebuilt file on the canonical vertical grid")

	return out, nil
}

// levelIndex maps each canonical level to the first close level of the
// current grid, or -1.
func levelIndex(current, canonical Grid) []int {
	index := make([]int, canonical.Count())
	for j, want := range canonical.Levels {
		index[j] = -1
		for i, have := range current.Levels {
			if Close(have, want) {
				index[j] = i
				break
			}
		}
	}
	return index
}

func coordinate(v *dataset.Variable, canonical Grid) (*dataset.Variable, error) {
	typ, err := v.Type()
	if err != nil {
		return nil, errors.NewGridRebuildError("", v.Name, "vertical coordinate type", err)
	}
	values, err := dataset.FromFloats(typ, canonical.Levels)
	if err != nil {
		return nil, errors.NewGridRebuildError("", v.Name, "writing canonical levels", err)
	}
	return &dataset.Variable{
		Name:       v.Name,
		Dimensions: slices.Clone(v.Dimensions),
		Attributes: v.Attributes.Clone(v.Name),
		Values:     values,
	}, nil
}

func remapVariable(v *dataset.Variable, axis string, index []int) (*dataset.Variable, error) {
	if len(v.Dimensions) > 2 {
		return nil, errors.NewGridRebuildError("", v.Name, "unsupported layout",
			errors.NewUnsupportedDimensionalityError(v.Name, v.Dimensions, ""))
	}
	if len(v.Dimensions) == 2 && v.Dimensions[1] != axis {
		return nil, errors.NewGridRebuildError("", v.Name, "unsupported layout",
			errors.NewUnsupportedDimensionalityError(v.Name, v.Dimensions, "vertical dimension must follow time"))
	}
	fill, err := v.MissingValue()
	if err != nil {
		return nil, errors.NewGridRebuildError("", v.Name, "no missing value to fill unmatched levels", err)
	}
	values, err := remap(v.Values, index, fill)
	if err != nil {
		return nil, errors.NewGridRebuildError("", v.Name, "remapping values", err)
	}
	return &dataset.Variable{
		Name:       v.Name,
		Dimensions: slices.Clone(v.Dimensions),
		Attributes: v.Attributes.Clone(v.Name),
		Values:     values,
	}, nil
}

// remap moves the last axis of values onto the canonical levels.
func remap(values any, index []int, fill float64) (any, error) {
	switch v := values.(type) {
	case []int8:
		return remap1(v, index, int8(fill)), nil
	case []int16:
		return remap1(v, index, int16(fill)), nil
	case []int32:
		return remap1(v, index, int32(fill)), nil
	case []int64:
		return remap1(v, index, int64(fill)), nil
	case []float32:
		return remap1(v, index, float32(fill)), nil
	case []float64:
		return remap1(v, index, fill), nil
	case [][]int8:
		return remap2(v, index, int8(fill)), nil
	case [][]int16:
		return remap2(v, index, int16(fill)), nil
	case [][]int32:
		return remap2(v, index, int32(fill)), nil
	case [][]int64:
		return remap2(v, index, int64(fill)), nil
	case [][]float32:
		return remap2(v, index, float32(fill)), nil
	case [][]float64:
		return remap2(v, index, fill), nil
	default:
		return nil, fmt.Errorf("cannot remap values of type %T", values)
	}
}

func remap1[T dataset.Number](row []T, index []int, fill T) []T {
	out := dataset.Fill(len(index), fill)
	for j, i := range index {
		if i >= 0 && i < len(row) {
			out[j] = row[i]
		}
	}
	return out
}

func remap2[T dataset.Number](rows [][]T, index []int, fill T) [][]T {
	out := make([][]T, len(rows))
	for t, row := range rows {
		out[t] = remap1(row, index, fill)
	}
	return out
}
