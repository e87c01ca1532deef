// Package dataset holds the in-memory form of one station data file: its
// global attributes and its ordered variables with dimensions, attributes and
// typed values. Files are loaded and saved whole by a codec (see
// internal/ncfile), so a Dataset never keeps a file handle open.
package dataset

import (
	"fmt"
	"slices"

	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

// FeatureType is the CF featureType of a file.
type FeatureType string

// Feature types found in the station archive.
const (
	// PointSeries files hold variables indexed by time alone.
	PointSeries FeatureType = "timeSeries"
	// ProfileSeries files hold variables indexed by time and vertical level.
	ProfileSeries FeatureType = "timeSeriesProfile"
)

// Variable is one named array with its dimensions and attributes.
type Variable struct {
	Name       string
	Dimensions []string
	Attributes *Attributes
	Values     any
}

// NewVariable creates a variable with an empty attribute set.
func NewVariable(name string, dims []string, values any) *Variable {
	return &Variable{
		Name:       name,
		Dimensions: dims,
		Attributes: NewAttributes(name),
		Values:     values,
	}
}

// Type returns the element type of the variable's values.
func (v *Variable) Type() (NumericType, error) {
	t, _, err := TypeOf(v.Values)
	return t, err
}

// Shape returns the length of each dimension.
func (v *Variable) Shape() []int {
	return Shape(v.Values)
}

// IsCoordinate reports whether the variable is a coordinate variable, a
// one-dimensional variable named after its own dimension.
func (v *Variable) IsCoordinate() bool {
	return len(v.Dimensions) == 1 && v.Dimensions[0] == v.Name
}

// HasDimension reports whether dim is one of the variable's dimensions.
func (v *Variable) HasDimension(dim string) bool {
	return slices.Contains(v.Dimensions, dim)
}

// MissingValue returns the declared missing value, preferring _FillValue over
// missing_value.
func (v *Variable) MissingValue() (float64, error) {
	if v.Attributes.Has(constants.AttrFillValue) {
		return v.Attributes.Float64(constants.AttrFillValue)
	}
	if v.Attributes.Has(constants.AttrMissingValue) {
		return v.Attributes.Float64(constants.AttrMissingValue)
	}
	return 0, errors.NewMissingAttributeError(v.Name, constants.AttrFillValue)
}

// Dataset is one loaded data file.
type Dataset struct {
	Path       string
	Attributes *Attributes

	vars  []*Variable
	index map[string]int
}

// New creates an empty dataset for the given path.
func New(path string) *Dataset {
	return &Dataset{
		Path:       path,
		Attributes: NewAttributes(""),
		index:      make(map[string]int),
	}
}

// AddVariable appends a variable. Names must be unique and every dimension
// the variable shares with existing variables must have the same length.
func (d *Dataset) AddVariable(v *Variable) error {
	if v == nil || v.Name == "" {
		return errors.NewValidationError("name", "", "variable name is required")
	}
	if _, ok := d.index[v.Name]; ok {
		return errors.NewValidationError("name", v.Name, "variable already exists")
	}
	shape := v.Shape()
	if shape == nil {
		return errors.NewValidationError("values", fmt.Sprintf("%T", v.Values), fmt.Sprintf("unsupported values for %s", v.Name))
	}
	if len(shape) != len(v.Dimensions) {
		return errors.NewValidationError("dimensions", v.Dimensions,
			fmt.Sprintf("%s has %d dimensions but %d-dimensional values", v.Name, len(v.Dimensions), len(shape)))
	}
	for i, dim := range v.Dimensions {
		if size, ok := d.DimensionSize(dim); ok && size != shape[i] {
			return errors.NewValidationError("dimensions", dim,
				fmt.Sprintf("%s has length %d along %s, dataset has %d", v.Name, shape[i], dim, size))
		}
	}
	if v.Attributes == nil {
		v.Attributes = NewAttributes(v.Name)
	}
	d.index[v.Name] = len(d.vars)
	d.vars = append(d.vars, v)
	return nil
}

// Variable returns the named variable.
func (d *Dataset) Variable(name string) (*Variable, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.vars[i], true
}

// HasVariable reports whether the named variable exists.
func (d *Dataset) HasVariable(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Variables returns the variables in declaration order.
func (d *Dataset) Variables() []*Variable {
	return slices.Clone(d.vars)
}

// VariableNames returns the variable names in declaration order.
func (d *Dataset) VariableNames() []string {
	names := make([]string, len(d.vars))
	for i, v := range d.vars {
		names[i] = v.Name
	}
	return names
}

// DimensionSize returns the length of a dimension as seen by the first
// variable that uses it.
func (d *Dataset) DimensionSize(dim string) (int, bool) {
	for _, v := range d.vars {
		for i, name := range v.Dimensions {
			if name == dim {
				shape := v.Shape()
				if i < len(shape) {
					return shape[i], true
				}
			}
		}
	}
	return 0, false
}

// TimeLength returns the length of the time dimension.
func (d *Dataset) TimeLength() (int, error) {
	n, ok := d.DimensionSize(constants.TimeDimension)
	if !ok {
		return 0, errors.NewNotFoundError("dimension", constants.TimeDimension)
	}
	return n, nil
}

// FeatureType returns the featureType global attribute.
func (d *Dataset) FeatureType() (FeatureType, error) {
	s, err := d.Attributes.String(constants.AttrFeatureType)
	if err != nil {
		return "", errors.WithPath(err, d.Path)
	}
	return FeatureType(s), nil
}
