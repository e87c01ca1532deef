package ncml

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/ncreconcile/pkg/archive"
	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
)

// Loader reads dataset files.
type Loader interface {
	Load(path string) (*dataset.Dataset, error)
}

// Options controls how descriptors are written.
type Options struct {
	Overwrite bool // Rewrite existing descriptors, keeping their id
	EndTime   bool // Add an empty time_coverage_end marking an ongoing dataset
}

// Option is a function that configures Options.
type Option func(*Options)

// WithOverwrite sets whether existing descriptors are rewritten.
func WithOverwrite(enabled bool) Option {
	return func(o *Options) {
		o.Overwrite = enabled
	}
}

// WithEndTime sets whether an empty time_coverage_end is written.
func WithEndTime(enabled bool) Option {
	return func(o *Options) {
		o.EndTime = enabled
	}
}

// Writer creates station descriptors.
type Writer struct {
	loader Loader
	walker *archive.Walker
	opts   Options
}

// NewWriter creates a descriptor writer.
func NewWriter(loader Loader, walker *archive.Walker, opts ...Option) *Writer {
	w := &Writer{loader: loader, walker: walker}
	for _, opt := range opts {
		opt(&w.opts)
	}
	if w.walker == nil {
		w.walker = archive.New()
	}
	return w
}

// StationResult reports the descriptor written for one station.
type StationResult struct {
	Station string   `json:"station" yaml:"station"`
	Path    string   `json:"path" yaml:"path"`
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Start   utc.Time `json:"time_coverage_start,omitempty" yaml:"time_coverage_start,omitempty"`
	Files   int      `json:"files" yaml:"files"`
	Skipped bool     `json:"skipped" yaml:"skipped"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
	Err     error    `json:"-" yaml:"-"`
}

// Path returns the descriptor path of a station.
func Path(st archive.Station) string {
	return filepath.Join(st.Path, st.Name+constants.AggregationSuffix)
}

// DatasetID derives a stable identifier from the descriptor file name.
func DatasetID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(filepath.Base(path))).String()
}

// Run writes a descriptor for every station under root. A failing station
// is recorded and the others are still processed.
func (w *Writer) Run(ctx context.Context, root string) ([]StationResult, error) {
	stations, err := w.walker.Stations(ctx, root)
	if err != nil {
		return nil, err
	}
	results := make([]StationResult, 0, len(stations))
	for _, st := range stations {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}
		results = append(results, w.Station(logging.WithStation(ctx, st.Name), st))
	}
	return results, nil
}

// Station writes the descriptor of one station.
func (w *Writer) Station(ctx context.Context, st archive.Station) StationResult {
	logger := logging.FromContext(ctx)
	path := Path(st)
	res := StationResult{Station: st.Name, Path: path}
	fail := func(err error) StationResult {
		logger.Error().Err(err).Str("ncml", path).Msg("Could not write aggregation descriptor")
		res.Err = err
		res.Error = err.Error()
		return res
	}

	id := DatasetID(path)
	if _, err := os.Stat(path); err == nil {
		if !w.opts.Overwrite {
			logger.Warn().Str("ncml", path).Msg("Aggregation descriptor already exists, leaving it alone")
			res.Skipped = true
			return res
		}
		existing, err := w.read(path)
		if err != nil {
			return fail(err)
		}
		if prev, ok := existing.Get(AttrID); ok && prev != "" {
			id = prev
		}
	}

	files, err := st.Files()
	if err != nil {
		return fail(err)
	}
	start, err := w.earliest(files)
	if err != nil {
		return fail(err)
	}

	doc := New(st.Path)
	doc.Set(AttrTimeCoverageStart, start.Format(constants.TimeFormatCoverage))
	if w.opts.EndTime {
		doc.Set(AttrTimeCoverageEnd, "")
	}
	doc.Set(AttrID, id)

	if err := write(doc, path); err != nil {
		return fail(err)
	}

	res.ID = id
	res.Start = utc.Time{Time: start}
	res.Files = len(files)
	logger.Info().Str("ncml", path).Str("id", id).Int("files", len(files)).Msg("Wrote aggregation descriptor")
	return res
}

func (w *Writer) read(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	doc, err := Decode(f)
	if err != nil {
		return nil, errors.WrapParse("ncml", path, err)
	}
	return doc, nil
}

// earliest returns the smallest time value, in seconds since the epoch,
// across the files.
func (w *Writer) earliest(files []archive.File) (time.Time, error) {
	if len(files) == 0 {
		return time.Time{}, errors.NewNotFoundError("data files", "for aggregation")
	}
	var (
		first float64
		found bool
	)
	for _, f := range files {
		ds, err := w.loader.Load(f.Path)
		if err != nil {
			return time.Time{}, err
		}
		tv, ok := ds.Variable(constants.TimeDimension)
		if !ok {
			return time.Time{}, errors.NewNotFoundError("variable", constants.TimeDimension+" in "+f.Path)
		}
		values, err := dataset.Floats(tv.Values)
		if err != nil {
			return time.Time{}, errors.WrapValidation(constants.TimeDimension, err)
		}
		if len(values) == 0 {
			continue
		}
		if m := slices.Min(values); !found || m < first {
			first, found = m, true
		}
	}
	if !found {
		return time.Time{}, errors.NewNotFoundError("time values", "for aggregation")
	}
	return time.Unix(int64(first), 0).UTC(), nil
}

// write saves the document next to path and renames it into place.
func write(doc *Document, path string) error {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return errors.WrapIO("write", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), constants.FilePermissions); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
