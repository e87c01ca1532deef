// Package check runs the reconciliation over a whole station archive.
//
// Stations are processed one at a time and files one at a time. The first
// file of a station fixes its reference schema; the first profile file fixes
// its canonical vertical grid. Every later file is backfilled against the
// reference and, when its level count differs, rebuilt onto the grid. A
// failing file stops its station; a failing station never stops the run.
package check

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"

	"github.com/agentstation/ncreconcile/pkg/archive"
	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
	"github.com/agentstation/ncreconcile/pkg/reconciler"
	"github.com/agentstation/ncreconcile/pkg/replace"
	"github.com/agentstation/ncreconcile/pkg/schema"
	"github.com/agentstation/ncreconcile/pkg/vertical"
)

// Codec loads and saves dataset files.
type Codec interface {
	Load(path string) (*dataset.Dataset, error)
	replace.Saver
}

// Checker reconciles the stations of an archive.
type Checker struct {
	codec       Codec
	walker      *archive.Walker
	coordinator *replace.Coordinator
	profileVars []string
}

// Option configures a Checker.
type Option func(*Checker)

// WithWalker sets the archive walker.
func WithWalker(w *archive.Walker) Option {
	return func(c *Checker) {
		c.walker = w
	}
}

// WithCoordinator sets the file replacement coordinator.
func WithCoordinator(coord *replace.Coordinator) Option {
	return func(c *Checker) {
		c.coordinator = coord
	}
}

// WithProfileVariables sets the variables inspected to find the vertical axis.
func WithProfileVariables(names ...string) Option {
	return func(c *Checker) {
		if len(names) > 0 {
			c.profileVars = names
		}
	}
}

// New creates a checker reading and writing files with codec.
func New(codec Codec, opts ...Option) *Checker {
	c := &Checker{
		codec:       codec,
		walker:      archive.New(),
		profileVars: constants.DefaultProfileVariables,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.coordinator == nil {
		c.coordinator = replace.New(codec)
	}
	return c
}

// stationState is what one station accumulates while its files are visited.
type stationState struct {
	reference *schema.Reference
	grid      *vertical.Grid
}

// Run checks every station under root. The returned error is non-nil only
// when root cannot be listed or the run was canceled.
func (c *Checker) Run(ctx context.Context, root string) (*Result, error) {
	logger := logging.FromContext(ctx)
	opts := c.coordinator.Options()
	result := &Result{
		Root:      root,
		StartedAt: utc.Now(),
		DryRun:    opts.DryRun,
		Overwrite: opts.Overwrite,
	}
	defer func() { result.FinishedAt = utc.Now() }()

	logger.Info().Str("root", root).Bool("overwrite", opts.Overwrite).Msg("Starting consistency check of station files")

	stations, err := c.walker.Stations(ctx, root)
	if err != nil {
		return result, err
	}

	for _, st := range stations {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}
		result.Stations = append(result.Stations, c.Station(ctx, st))
	}

	logger.Info().
		Int("stations", len(result.Stations)).
		Int("failed", len(result.Failed())).
		Msg("Finished consistency check")
	return result, nil
}

// Station checks the files of one station in walker order.
func (c *Checker) Station(ctx context.Context, st archive.Station) *StationResult {
	ctx = logging.WithStation(ctx, st.Name)
	logger := logging.FromContext(ctx)
	logger.Info().Str("path", st.Path).Msg("Processing station")

	sr := &StationResult{Name: st.Name, Path: st.Path}

	files, err := st.Files()
	if err != nil {
		logger.Error().Err(err).Msg("Could not list station files")
		sr.Aborted = true
		sr.Err = err
		sr.Error = err.Error()
		return sr
	}

	state := &stationState{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			sr.Aborted = true
			sr.Err = fmt.Errorf("%w: %w", errors.ErrCanceled, err)
			sr.Error = sr.Err.Error()
			break
		}

		fr := c.file(logging.WithFile(ctx, f.Path), state, f)
		sr.Files = append(sr.Files, fr)
		if fr.Status == reconciler.StatusFatal {
			logger.Error().Err(fr.Err).Str("file", f.Path).Msg("File failed, skipping the rest of the station")
			sr.Aborted = true
			sr.Err = fr.Err
			sr.Error = fr.Error
			break
		}
	}

	if state.reference != nil {
		sr.Reference = state.reference.Source
	}
	sr.Grid = state.grid
	return sr
}

// file reconciles one file against the station state.
func (c *Checker) file(ctx context.Context, state *stationState, f archive.File) FileResult {
	logger := logging.FromContext(ctx)
	logger.Info().Msg("Processing file")

	fr := FileResult{
		Path:    f.Path,
		Status:  reconciler.StatusSuccess,
		Outcome: reconciler.Unchanged,
	}

	ds, err := c.codec.Load(f.Path)
	if err != nil {
		fr.fail(err)
		return fr
	}
	featureType, err := ds.FeatureType()
	if err != nil {
		fr.fail(err)
		return fr
	}

	// the grid is settled before the schema so a profile reference file
	// also fixes the canonical grid
	var rebuild bool
	if featureType == dataset.ProfileSeries {
		rebuild, err = c.compareGrid(ctx, state, ds)
		if err != nil {
			fr.fail(err)
			return fr
		}
	}

	if state.reference == nil {
		ref, err := schema.Capture(ds)
		if err != nil {
			fr.fail(err)
			return fr
		}
		state.reference = ref
		fr.Reference = true
		logger.Info().Int("variables", ref.Len()).Msg("Captured reference schema")
	} else {
		rr := reconciler.Reconcile(ctx, ds, state.reference)
		fr.Status = rr.Status
		fr.Outcome = rr.Outcome
		fr.Added = rr.Added
		fr.Extra = rr.Extra
		for _, d := range rr.Diagnostics {
			fr.Diagnostics = append(fr.Diagnostics, d.String())
		}
		if rr.Status == reconciler.StatusFatal {
			fr.fail(rr.Err)
			return fr
		}
	}

	switch {
	case rebuild:
		rebuilt, err := vertical.Rebuild(ctx, ds, *state.grid)
		if err != nil {
			fr.fail(err)
			return fr
		}
		action, err := c.coordinator.Replace(ctx, rebuilt, f.Path)
		fr.Action = action
		if err != nil {
			fr.fail(err)
			return fr
		}
		fr.Rebuilt = true
	case len(fr.Added) > 0:
		action, err := c.coordinator.Commit(ctx, ds, f.Path)
		fr.Action = action
		if err != nil {
			fr.fail(err)
			return fr
		}
	}

	return fr
}

// compareGrid fixes the canonical grid on the first profile file and
// reports whether a later file needs a rebuild.
func (c *Checker) compareGrid(ctx context.Context, state *stationState, ds *dataset.Dataset) (bool, error) {
	logger := logging.FromContext(ctx)

	grid, err := vertical.Detect(ds, c.profileVars)
	if err != nil {
		return false, err
	}
	if state.grid == nil {
		state.grid = &grid
		logger.Info().Str("axis", grid.Axis).Int("levels", grid.Count()).Msg("Canonical vertical grid set")
		return false, nil
	}

	switch verdict := state.grid.Compare(grid); verdict {
	case vertical.Match:
		return false, nil
	case vertical.ValuesDiffer:
		logger.Warn().
			Floats64("levels", grid.Levels).
			Floats64("canonical", state.grid.Levels).
			Msg("Vertical levels differ in value but not in count, leaving file as is")
		return false, nil
	case vertical.CountDiffers:
		logger.Warn().
			Int("levels", grid.Count()).
			Int("canonical", state.grid.Count()).
			Msg("Vertical level count differs from the station, file needs a rebuild")
		return true, nil
	default:
		return false, errors.NewGridRebuildError(ds.Path, grid.Axis,
			fmt.Sprintf("vertical axis %s does not match the station axis %s", grid.Axis, state.grid.Axis), nil)
	}
}
