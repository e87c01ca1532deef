package dataset

import (
	"fmt"

	"github.com/agentstation/ncreconcile/pkg/errors"
)

// NumericType is the element type of a variable's values.
type NumericType string

// Supported element types.
const (
	Int8    NumericType = "int8"
	Int16   NumericType = "int16"
	Int32   NumericType = "int32"
	Int64   NumericType = "int64"
	Float32 NumericType = "float32"
	Float64 NumericType = "float64"
	Text    NumericType = "char"
)

// String implements fmt.Stringer.
func (t NumericType) String() string {
	return string(t)
}

// IsNumeric reports whether values of this type can be filled and remapped.
func (t NumericType) IsNumeric() bool {
	switch t {
	case Int8, Int16, Int32, Int64, Float32, Float64:
		return true
	}
	return false
}

// Number is the set of element types that can be filled and remapped.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// TypeOf returns the element type and rank (0, 1 or 2) of a value.
func TypeOf(values any) (NumericType, int, error) {
	switch values.(type) {
	case int8:
		return Int8, 0, nil
	case int16:
		return Int16, 0, nil
	case int32:
		return Int32, 0, nil
	case int64:
		return Int64, 0, nil
	case float32:
		return Float32, 0, nil
	case float64:
		return Float64, 0, nil
	case []int8:
		return Int8, 1, nil
	case []int16:
		return Int16, 1, nil
	case []int32:
		return Int32, 1, nil
	case []int64:
		return Int64, 1, nil
	case []float32:
		return Float32, 1, nil
	case []float64:
		return Float64, 1, nil
	case string:
		return Text, 1, nil
	case [][]int8:
		return Int8, 2, nil
	case [][]int16:
		return Int16, 2, nil
	case [][]int32:
		return Int32, 2, nil
	case [][]int64:
		return Int64, 2, nil
	case [][]float32:
		return Float32, 2, nil
	case [][]float64:
		return Float64, 2, nil
	case []string:
		return Text, 2, nil
	default:
		return "", 0, errors.NewValidationError("values", fmt.Sprintf("%T", values), "unsupported value type")
	}
}

// Shape returns the length of each dimension of a value. Scalars have an
// empty, non-nil shape; unsupported values have a nil shape.
func Shape(values any) []int {
	switch v := values.(type) {
	case int8, int16, int32, int64, float32, float64:
		return []int{}
	case []int8:
		return []int{len(v)}
	case []int16:
		return []int{len(v)}
	case []int32:
		return []int{len(v)}
	case []int64:
		return []int{len(v)}
	case []float32:
		return []int{len(v)}
	case []float64:
		return []int{len(v)}
	case string:
		return []int{len(v)}
	case [][]int8:
		return shape2(v)
	case [][]int16:
		return shape2(v)
	case [][]int32:
		return shape2(v)
	case [][]int64:
		return shape2(v)
	case [][]float32:
		return shape2(v)
	case [][]float64:
		return shape2(v)
	case []string:
		if len(v) == 0 {
			return []int{0, 0}
		}
		return []int{len(v), len(v[0])}
	default:
		return nil
	}
}

func shape2[T any](v [][]T) []int {
	if len(v) == 0 {
		return []int{0, 0}
	}
	return []int{len(v), len(v[0])}
}

// Fill returns a slice of n copies of value.
func Fill[T Number](n int, value T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Fill2D returns a rows×cols matrix of copies of value.
func Fill2D[T Number](rows, cols int, value T) [][]T {
	out := make([][]T, rows)
	for i := range out {
		out[i] = Fill(cols, value)
	}
	return out
}

// NewFilled allocates values of the given type and shape (rank 0 to 2), every
// element set to fill converted to the element type.
func NewFilled(t NumericType, shape []int, fill float64) (any, error) {
	if len(shape) > 2 {
		return nil, errors.NewValidationError("shape", shape, "at most two dimensions are supported")
	}
	if len(shape) == 0 {
		return Scalar(t, fill)
	}
	switch t {
	case Int8:
		return filled(shape, int8(fill)), nil
	case Int16:
		return filled(shape, int16(fill)), nil
	case Int32:
		return filled(shape, int32(fill)), nil
	case Int64:
		return filled(shape, int64(fill)), nil
	case Float32:
		return filled(shape, float32(fill)), nil
	case Float64:
		return filled(shape, fill), nil
	default:
		return nil, errors.NewValidationError("type", t, "cannot fill non-numeric values")
	}
}

func filled[T Number](shape []int, v T) any {
	if len(shape) == 1 {
		return Fill(shape[0], v)
	}
	return Fill2D(shape[0], shape[1], v)
}

// Scalar converts a float64 to the given element type, for typed attributes
// such as _FillValue.
func Scalar(t NumericType, v float64) (any, error) {
	switch t {
	case Int8:
		return int8(v), nil
	case Int16:
		return int16(v), nil
	case Int32:
		return int32(v), nil
	case Int64:
		return int64(v), nil
	case Float32:
		return float32(v), nil
	case Float64:
		return v, nil
	default:
		return nil, errors.NewValidationError("type", t, "no scalar representation")
	}
}

// Floats converts one-dimensional numeric values to float64.
func Floats(values any) ([]float64, error) {
	switch v := values.(type) {
	case []int8:
		return toFloats(v), nil
	case []int16:
		return toFloats(v), nil
	case []int32:
		return toFloats(v), nil
	case []int64:
		return toFloats(v), nil
	case []float32:
		return toFloats(v), nil
	case []float64:
		return toFloats(v), nil
	default:
		return nil, errors.NewValidationError("values", fmt.Sprintf("%T", values), "not a one-dimensional numeric slice")
	}
}

func toFloats[T Number](s []T) []float64 {
	out := make([]float64, len(s))
	for i, x := range s {
		out[i] = float64(x)
	}
	return out
}

// FromFloats converts float64 values to a slice of the given element type.
func FromFloats(t NumericType, values []float64) (any, error) {
	switch t {
	case Int8:
		return convert[int8](values), nil
	case Int16:
		return convert[int16](values), nil
	case Int32:
		return convert[int32](values), nil
	case Int64:
		return convert[int64](values), nil
	case Float32:
		return convert[float32](values), nil
	case Float64:
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil
	default:
		return nil, errors.NewValidationError("type", t, "cannot convert to non-numeric values")
	}
}

func convert[T Number](values []float64) []T {
	out := make([]T, len(values))
	for i, x := range values {
		out[i] = T(x)
	}
	return out
}
