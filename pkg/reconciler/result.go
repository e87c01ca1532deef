package reconciler

import (
	"fmt"
	"strings"
)

// Status is the overall state of a reconciliation.
type Status string

// Statuses shared by reconciliation and check results.
const (
	// StatusSuccess means every step completed.
	StatusSuccess Status = "success"
	// StatusPartial means some variables could not be backfilled.
	StatusPartial Status = "partial"
	// StatusFatal means the file could not be reconciled at all.
	StatusFatal Status = "fatal"
)

// Outcome is what reconciliation did to the file.
type Outcome string

// Outcomes of a reconciliation.
const (
	// Unchanged means the file already matched the reference names.
	Unchanged Outcome = "unchanged"
	// Backfilled means at least one missing variable was added.
	Backfilled Outcome = "backfilled"
)

// Diagnostic records a failure to backfill one variable.
type Diagnostic struct {
	Variable string
	Err      error
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Variable, d.Err)
}

// Result represents the outcome of reconciling one file.
type Result struct {
	Path    string
	Status  Status
	Outcome Outcome

	// Added lists the backfilled variables in reference order.
	Added []string
	// Extra lists variables the file has beyond the reference; they are kept.
	Extra []string

	// Diagnostics holds per-variable failures when Status is partial.
	Diagnostics []Diagnostic
	// Err is set when Status is fatal.
	Err error
}

// IsSuccess returns true if the reconciliation completed without failures.
func (r *Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// HasChanges returns true if the dataset was modified.
func (r *Result) HasChanges() bool {
	return len(r.Added) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	switch {
	case r.Status == StatusFatal:
		return fmt.Sprintf("reconciliation failed: %v", r.Err)
	case r.Status == StatusPartial:
		failed := make([]string, len(r.Diagnostics))
		for i, d := range r.Diagnostics {
			failed[i] = d.Variable
		}
		return fmt.Sprintf("backfilled %d variables, %d failed (%s)",
			len(r.Added), len(r.Diagnostics), strings.Join(failed, ", "))
	case r.Outcome == Backfilled:
		return fmt.Sprintf("backfilled %d variables (%s)", len(r.Added), strings.Join(r.Added, ", "))
	default:
		return "no changes"
	}
}

func fatal(path string, err error) Result {
	return Result{Path: path, Status: StatusFatal, Outcome: Unchanged, Err: err}
}
