// Package vertical keeps the vertical-level grid of profile files consistent
// within a station. The first profile file fixes the canonical grid; later
// files whose level count differs are rebuilt onto it by copying each value
// from the original level that is numerically close to a canonical level.
package vertical

import (
	"fmt"
	"math"
	"slices"

	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

// Grid is an ordered set of vertical levels along one axis.
type Grid struct {
	Axis   string    `json:"axis" yaml:"axis"`
	Levels []float64 `json:"levels" yaml:"levels"`
}

// Count returns the number of levels.
func (g Grid) Count() int {
	return len(g.Levels)
}

// String implements fmt.Stringer.
func (g Grid) String() string {
	return fmt.Sprintf("%s%v", g.Axis, g.Levels)
}

// Verdict is the result of comparing a file's grid to the canonical grid.
type Verdict int

// Comparison verdicts.
const (
	// Match means the grids have the same axis and close levels.
	Match Verdict = iota
	// ValuesDiffer means the level counts agree but some values do not.
	ValuesDiffer
	// CountDiffers means the file must be rebuilt.
	CountDiffers
	// AxisDiffers means the files use different vertical axes.
	AxisDiffers
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Match:
		return "match"
	case ValuesDiffer:
		return "values differ"
	case CountDiffers:
		return "count differs"
	case AxisDiffers:
		return "axis differs"
	default:
		return "unknown"
	}
}

// Compare reports how g differs from the canonical grid.
func (canonical Grid) Compare(g Grid) Verdict {
	if canonical.Axis != g.Axis {
		return AxisDiffers
	}
	if canonical.Count() != g.Count() {
		return CountDiffers
	}
	for i := range g.Levels {
		if !Close(g.Levels[i], canonical.Levels[i]) {
			return ValuesDiffer
		}
	}
	return Match
}

// Close reports whether level a is within tolerance of reference level b:
// |a-b| <= atol + rtol*|b|.
func Close(a, b float64) bool {
	return math.Abs(a-b) <= constants.LevelAbsoluteTolerance+constants.LevelRelativeTolerance*math.Abs(b)
}

// DetectAxis returns the vertical dimension of a profile file. The named
// profile variables are inspected first; when none is present any variable
// indexed by a known vertical dimension is used.
func DetectAxis(ds *dataset.Dataset, profileVars []string) (string, error) {
	for _, name := range profileVars {
		v, ok := ds.Variable(name)
		if !ok {
			continue
		}
		return axisOf(v)
	}
	for _, v := range ds.Variables() {
		if v.IsCoordinate() {
			continue
		}
		for _, dim := range constants.VerticalDimensions {
			if v.HasDimension(dim) {
				return axisOf(v)
			}
		}
	}
	return "", errors.WithPath(errors.NewUnsupportedDimensionalityError("", nil,
		"no profile variable with a vertical dimension"), ds.Path)
}

// axisOf checks that v is laid out as (time, vertical) and returns the
// vertical dimension.
func axisOf(v *dataset.Variable) (string, error) {
	if len(v.Dimensions) > 2 {
		return "", errors.NewUnsupportedDimensionalityError(v.Name, v.Dimensions, "")
	}
	for i, dim := range v.Dimensions {
		if !slices.Contains(constants.VerticalDimensions, dim) {
			continue
		}
		if len(v.Dimensions) == 2 && i != 1 {
			return "", errors.NewUnsupportedDimensionalityError(v.Name, v.Dimensions,
				"vertical dimension must follow time")
		}
		return dim, nil
	}
	return "", errors.NewUnsupportedDimensionalityError(v.Name, v.Dimensions, "no vertical dimension")
}

// GridOf reads the levels of the axis coordinate variable.
func GridOf(ds *dataset.Dataset, axis string) (Grid, error) {
	v, ok := ds.Variable(axis)
	if !ok {
		return Grid{}, errors.NewNotFoundError("vertical coordinate", axis)
	}
	levels, err := dataset.Floats(v.Values)
	if err != nil {
		return Grid{}, errors.WrapValidation(axis, err)
	}
	return Grid{Axis: axis, Levels: levels}, nil
}

// Detect combines DetectAxis and GridOf.
func Detect(ds *dataset.Dataset, profileVars []string) (Grid, error) {
	axis, err := DetectAxis(ds, profileVars)
	if err != nil {
		return Grid{}, errors.WithPath(err, ds.Path)
	}
	return GridOf(ds, axis)
}
