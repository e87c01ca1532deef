// Package reconciler brings a station file's variable set in line with the
// station's reference schema. Variables the file lacks are added in memory,
// filled entirely with their declared missing value; existing variables and
// variables beyond the reference are never touched. Writing the result back
// to disk is left to the caller.
package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
	"github.com/agentstation/ncreconcile/pkg/schema"
)

// Reconcile compares ds against ref and backfills every missing variable.
// A failure to create one variable is recorded as a diagnostic and the
// remaining variables are still processed.
func Reconcile(ctx context.Context, ds *dataset.Dataset, ref *schema.Reference) Result {
	if ds == nil {
		return fatal("", errors.NewValidationError("dataset", nil, "cannot be nil"))
	}
	if ref == nil {
		return fatal(ds.Path, errors.NewValidationError("reference", nil, "cannot be nil"))
	}
	if err := ctx.Err(); err != nil {
		return fatal(ds.Path, fmt.Errorf("%w: %w", errors.ErrCanceled, err))
	}

	logger := logging.FromContext(ctx)
	diff := ref.Compare(ds)
	result := Result{
		Path:    ds.Path,
		Status:  StatusSuccess,
		Outcome: Unchanged,
		Extra:   diff.Extra,
	}

	if diff.Equal() {
		logger.Debug().Str("file", ds.Path).Msg("Variables match the reference schema")
		return result
	}

	logger.Warn().
		Str("file", ds.Path).
		Strs("missing", diff.Missing).
		Strs("extra", diff.Extra).
		Str("reference", ref.Source).
		Msg("Variable list differs from the reference schema")

	for _, name := range diff.Missing {
		want, _ := ref.Variable(name)
		if err := backfill(ds, want); err != nil {
			logger.Error().
				Err(err).
				Str("file", ds.Path).
				Str("variable", name).
				Msg("Could not backfill variable")
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Variable: name, Err: err})
			continue
		}
		logger.Info().
			Str("file", ds.Path).
			Str("variable", name).
			Str("type", want.Type.String()).
			Float64("missing_value", want.MissingValue).
			Msg("Backfilled variable with missing values")
		result.Added = append(result.Added, name)
	}

	if len(result.Added) > 0 {
		result.Outcome = Backfilled
	}
	if len(result.Diagnostics) > 0 {
		result.Status = StatusPartial
	}
	return result
}

// backfill adds one variable described by want, every element set to its
// missing value.
func backfill(ds *dataset.Dataset, want schema.Variable) error {
	if !want.HasMissingValue {
		return errors.NewMissingAttributeError(want.Name, constants.AttrFillValue)
	}
	if !want.Type.IsNumeric() {
		return errors.NewValidationError("type", want.Type, fmt.Sprintf("cannot fill %s variable %s", want.Type, want.Name))
	}

	dims, shape, err := layout(ds, want)
	if err != nil {
		return err
	}

	values, err := dataset.NewFilled(want.Type, shape, want.MissingValue)
	if err != nil {
		return err
	}
	fill, err := dataset.Scalar(want.Type, want.MissingValue)
	if err != nil {
		return err
	}

	v := dataset.NewVariable(want.Name, dims, values)
	v.Attributes.Set(constants.AttrStandardName, want.StandardName)
	v.Attributes.Set(constants.AttrLongName, want.LongName)
	v.Attributes.Set(constants.AttrUnits, want.Units)
	v.Attributes.Set(constants.AttrFillValue, fill)
	return ds.AddVariable(v)
}

// layout picks the dimensions of a backfilled variable: the reference
// dimensions when the file has all of them, otherwise time alone. Scalar
// reference variables are backfilled along time as well.
func layout(ds *dataset.Dataset, want schema.Variable) ([]string, []int, error) {
	if len(want.Dimensions) == 0 {
		return timeLayout(ds)
	}
	shape := make([]int, 0, len(want.Dimensions))
	for _, dim := range want.Dimensions {
		n, ok := ds.DimensionSize(dim)
		if !ok {
			shape = nil
			break
		}
		shape = append(shape, n)
	}
	if shape != nil {
		if len(shape) > 2 {
			return nil, nil, errors.NewUnsupportedDimensionalityError(want.Name, want.Dimensions, "")
		}
		return want.Dimensions, shape, nil
	}

	if len(want.Dimensions) > 1 {
		return nil, nil, errors.NewUnsupportedDimensionalityError(want.Name, want.Dimensions,
			"file lacks the reference dimensions")
	}
	return timeLayout(ds)
}

func timeLayout(ds *dataset.Dataset) ([]string, []int, error) {
	n, err := ds.TimeLength()
	if err != nil {
		return nil, nil, err
	}
	return []string{constants.TimeDimension}, []int{n}, nil
}
