package check

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/ncreconcile/pkg/reconciler"
	"github.com/agentstation/ncreconcile/pkg/replace"
	"github.com/agentstation/ncreconcile/pkg/vertical"
)

// Result represents the complete result of a check run.
type Result struct {
	Root       string           `json:"root" yaml:"root"`
	Stations   []*StationResult `json:"stations" yaml:"stations"`
	StartedAt  utc.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time         `json:"finished_at" yaml:"finished_at"`

	// Operation metadata
	DryRun    bool `json:"dry_run" yaml:"dry_run"`
	Overwrite bool `json:"overwrite" yaml:"overwrite"`
}

// StationResult represents the check of a single station.
type StationResult struct {
	Name      string         `json:"name" yaml:"name"`
	Path      string         `json:"path" yaml:"path"`
	Reference string         `json:"reference,omitempty" yaml:"reference,omitempty"` // file the schema was captured from
	Grid      *vertical.Grid `json:"grid,omitempty" yaml:"grid,omitempty"`           // canonical grid, profile stations only
	Files     []FileResult   `json:"files" yaml:"files"`

	// Aborted is set when a file failure stopped the station early.
	Aborted bool   `json:"aborted" yaml:"aborted"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Err     error  `json:"-" yaml:"-"`
}

// FileResult represents the check of one file.
type FileResult struct {
	Path        string             `json:"path" yaml:"path"`
	Status      reconciler.Status  `json:"status" yaml:"status"`
	Outcome     reconciler.Outcome `json:"outcome" yaml:"outcome"`
	Reference   bool               `json:"reference,omitempty" yaml:"reference,omitempty"`
	Added       []string           `json:"added,omitempty" yaml:"added,omitempty"`
	Extra       []string           `json:"extra,omitempty" yaml:"extra,omitempty"`
	Rebuilt     bool               `json:"rebuilt,omitempty" yaml:"rebuilt,omitempty"`
	Action      replace.Action     `json:"action,omitempty" yaml:"action,omitempty"`
	Diagnostics []string           `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
	Err         error              `json:"-" yaml:"-"`
}

// HasChanges returns true if the file was (or, in a dry run, would be) modified.
func (fr *FileResult) HasChanges() bool {
	return fr.Action == replace.Replaced || fr.Action == replace.Committed ||
		(fr.Action == replace.Skipped && (len(fr.Added) > 0 || fr.Rebuilt))
}

func (fr *FileResult) fail(err error) {
	fr.Status = reconciler.StatusFatal
	fr.Err = err
	fr.Error = err.Error()
}

// Status returns the worst file status of the station.
func (sr *StationResult) Status() reconciler.Status {
	if sr.Aborted || sr.Err != nil {
		return reconciler.StatusFatal
	}
	status := reconciler.StatusSuccess
	for _, f := range sr.Files {
		if f.Status == reconciler.StatusPartial {
			status = reconciler.StatusPartial
		}
	}
	return status
}

// Counts tallies the files of a station.
type Counts struct {
	Files     int `json:"files" yaml:"files"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Backfill  int `json:"backfilled" yaml:"backfilled"`
	Rebuilt   int `json:"rebuilt" yaml:"rebuilt"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Counts returns the file tallies of the station.
func (sr *StationResult) Counts() Counts {
	var c Counts
	for _, f := range sr.Files {
		c.Files++
		switch {
		case f.Status == reconciler.StatusFatal:
			c.Failed++
		case f.Rebuilt:
			c.Rebuilt++
		case f.Outcome == reconciler.Backfilled:
			c.Backfill++
		default:
			c.Unchanged++
		}
	}
	return c
}

// HasChanges returns true if any file of the station changed.
func (sr *StationResult) HasChanges() bool {
	for i := range sr.Files {
		if sr.Files[i].HasChanges() {
			return true
		}
	}
	return false
}

// Station returns the named station result.
func (r *Result) Station(name string) (*StationResult, bool) {
	for _, s := range r.Stations {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Totals sums the counts of every station.
func (r *Result) Totals() Counts {
	var t Counts
	for _, s := range r.Stations {
		c := s.Counts()
		t.Files += c.Files
		t.Unchanged += c.Unchanged
		t.Backfill += c.Backfill
		t.Rebuilt += c.Rebuilt
		t.Failed += c.Failed
	}
	return t
}

// Failed returns the stations that were aborted.
func (r *Result) Failed() []*StationResult {
	var failed []*StationResult
	for _, s := range r.Stations {
		if s.Status() == reconciler.StatusFatal {
			failed = append(failed, s)
		}
	}
	return failed
}

// HasChanges returns true if the run changed any file.
func (r *Result) HasChanges() bool {
	for _, s := range r.Stations {
		if s.HasChanges() {
			return true
		}
	}
	return false
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	t := r.Totals()
	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	parts = append(parts, fmt.Sprintf("%d stations, %d files:", len(r.Stations), t.Files))
	parts = append(parts, fmt.Sprintf("%d unchanged, %d backfilled, %d rebuilt, %d failed",
		t.Unchanged, t.Backfill, t.Rebuilt, t.Failed))
	if failed := r.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, s := range failed {
			names[i] = s.Name
		}
		parts = append(parts, fmt.Sprintf("(aborted: %s)", strings.Join(names, ", ")))
	}
	return strings.Join(parts, " ")
}
