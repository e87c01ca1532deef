// Package archive enumerates a station archive laid out as
//
//	ROOT/<station>/<year>/<file>.nc
//
// Stations are visited in ascending name order. Within a station, year
// directories and the files inside them are visited newest first (reverse
// lexicographic order), on the assumption that variables are more often
// added over time than removed.
package archive

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/logging"
)

// Walker finds stations and their data files.
type Walker struct {
	prefix string
	suffix string
}

// Option configures a Walker.
type Option func(*Walker)

// WithStationPrefix sets the name prefix of station directories.
func WithStationPrefix(prefix string) Option {
	return func(w *Walker) {
		if prefix != "" {
			w.prefix = prefix
		}
	}
}

// WithSuffix sets the suffix of data files.
func WithSuffix(suffix string) Option {
	return func(w *Walker) {
		if suffix != "" {
			w.suffix = suffix
		}
	}
}

// New creates a walker using the archive naming conventions.
func New(opts ...Option) *Walker {
	w := &Walker{
		prefix: constants.StationPrefix,
		suffix: constants.DatasetSuffix,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Station is one station directory.
type Station struct {
	Name string
	Path string

	suffix string
}

// File is one data file of a station.
type File struct {
	Station string
	Year    string
	Name    string
	Path    string
}

// Stations lists the station directories under root. Plain files are
// ignored; directories without the station prefix are logged and skipped.
func (w *Walker) Stations(ctx context.Context, root string) ([]Station, error) {
	logger := logging.FromContext(ctx)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.WrapIO("read", root, err)
	}

	var stations []Station
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, w.prefix) {
			logger.Warn().
				Str("directory", filepath.Join(root, name)).
				Str("prefix", w.prefix).
				Msg("Not a station directory, skipping")
			continue
		}
		stations = append(stations, Station{
			Name:   name,
			Path:   filepath.Join(root, name),
			suffix: w.suffix,
		})
	}

	slices.SortFunc(stations, func(a, b Station) int {
		return strings.Compare(a.Name, b.Name)
	})
	return stations, nil
}

// Files lists the data files of the station, newest year first and, within
// a year, in reverse name order. Temporary files derived from a data file
// never match the suffix.
func (s Station) Files() ([]File, error) {
	suffix := s.suffix
	if suffix == "" {
		suffix = constants.DatasetSuffix
	}

	years, err := readDirReverse(s.Path)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, year := range years {
		if !year.IsDir() {
			continue
		}
		dir := filepath.Join(s.Path, year.Name())
		entries, err := readDirReverse(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
				continue
			}
			files = append(files, File{
				Station: s.Name,
				Year:    year.Name(),
				Name:    entry.Name(),
				Path:    filepath.Join(dir, entry.Name()),
			})
		}
	}
	return files, nil
}

func readDirReverse(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	slices.Reverse(entries)
	return entries, nil
}
