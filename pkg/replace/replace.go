// Package replace writes reconciled datasets back into the archive.
//
// Every write goes to a temporary file next to the original and is then
// renamed over it, so a reader never sees a half-written file. Additive
// backfills are always committed; grid rebuilds, which change dimensions,
// replace the original only when overwriting is enabled.
package replace

import (
	"context"
	"fmt"
	"os"

	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
)

// Saver writes a dataset to a path.
type Saver interface {
	Save(ds *dataset.Dataset, path string) error
}

// Action is what the coordinator did with a dataset.
type Action string

// Actions reported by the coordinator.
const (
	Replaced  Action = "replaced"
	Committed Action = "committed"
	Rejected  Action = "rejected"
	Skipped   Action = "skipped" // dry run
)

// Coordinator swaps rewritten datasets into place.
type Coordinator struct {
	saver Saver
	opts  Options
}

// New creates a coordinator that writes with saver.
func New(saver Saver, opts ...Option) *Coordinator {
	return &Coordinator{
		saver: saver,
		opts:  *Defaults().Apply(opts...),
	}
}

// Options returns the coordinator's options.
func (c *Coordinator) Options() Options {
	return c.opts
}

// RebuildPath returns the temporary path of a rebuilt file.
func RebuildPath(original string) string {
	return original + constants.RebuildSuffix
}

// BackfillPath returns the temporary path of a backfilled file.
func BackfillPath(original string) string {
	return original + constants.BackfillSuffix
}

// Replace puts a rebuilt dataset in place of the original file. Without
// overwrite it returns an OverwriteRequiredError and leaves the original
// untouched; the rebuilt file is written to RebuildPath only when rejected
// rebuilds are kept.
func (c *Coordinator) Replace(ctx context.Context, rebuilt *dataset.Dataset, original string) (Action, error) {
	logger := logging.FromContext(ctx)
	tmp := RebuildPath(original)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	if !c.opts.Overwrite {
		if !c.opts.KeepRejected || c.opts.DryRun {
			logger.Error().
				Str("file", original).
				Msg("Rebuilding the vertical grid needs overwrite, file left unchanged")
			return Rejected, errors.NewOverwriteRequiredError(original, "")
		}
		if err := c.save(rebuilt, tmp); err != nil {
			return "", err
		}
		logger.Error().
			Str("file", original).
			Str("rebuilt", tmp).
			Msg("Rebuilding the vertical grid needs overwrite, rebuilt file kept for inspection")
		return Rejected, errors.NewOverwriteRequiredError(original, tmp)
	}

	if c.opts.DryRun {
		logger.Info().Str("file", original).Msg("Dry run, would replace file with rebuilt grid")
		return Skipped, nil
	}

	if err := c.swap(rebuilt, tmp, original); err != nil {
		return "", err
	}
	logger.Info().Str("file", original).Msg("Replaced file with rebuilt grid")
	return Replaced, nil
}

// Commit writes an additively changed dataset over the original file.
func (c *Coordinator) Commit(ctx context.Context, ds *dataset.Dataset, original string) (Action, error) {
	logger := logging.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	if c.opts.DryRun {
		logger.Info().Str("file", original).Msg("Dry run, would write backfilled variables")
		return Skipped, nil
	}

	if err := c.swap(ds, BackfillPath(original), original); err != nil {
		return "", err
	}
	logger.Info().Str("file", original).Msg("Wrote backfilled variables")
	return Committed, nil
}

// swap writes ds to tmp and renames it over original. The temporary file
// is removed when either step fails.
func (c *Coordinator) swap(ds *dataset.Dataset, tmp, original string) error {
	if err := c.save(ds, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, original); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("rename", original, err)
	}
	return nil
}

func (c *Coordinator) save(ds *dataset.Dataset, path string) error {
	if err := c.saver.Save(ds, path); err != nil {
		_ = os.Remove(path)
		if errors.IsIO(err) {
			return err
		}
		return errors.WrapIO("write", path, err)
	}
	return nil
}
