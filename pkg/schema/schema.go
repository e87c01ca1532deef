// Package schema describes the variables of a station data file and compares
// files against the reference schema of their station.
//
// A Reference is captured once per station from the first file visited and
// never changes afterwards. Every later file is compared by variable name
// only, without regard to order.
package schema

import (
	"slices"
	"strings"

	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/dataset"
	"github.com/agentstation/ncreconcile/pkg/errors"
)

// Variable is the schema of one variable.
type Variable struct {
	Name         string              `json:"name" yaml:"name"`
	StandardName string              `json:"standard_name" yaml:"standard_name"`
	LongName     string              `json:"long_name" yaml:"long_name"`
	Units        string              `json:"units" yaml:"units"`
	Type         dataset.NumericType `json:"type" yaml:"type"`
	Dimensions   []string            `json:"dimensions" yaml:"dimensions"`

	// MissingValue is meaningful only when HasMissingValue is set.
	MissingValue    float64 `json:"missing_value,omitempty" yaml:"missing_value,omitempty"`
	HasMissingValue bool    `json:"-" yaml:"-"`
}

// FromVariable extracts the schema of v. The descriptive attributes are
// required for every variable; a missing value is required for every
// numeric, dimensioned variable that is not a coordinate variable.
func FromVariable(v *dataset.Variable) (Variable, error) {
	s := Variable{
		Name:       v.Name,
		Dimensions: slices.Clone(v.Dimensions),
	}

	var err error
	if s.StandardName, err = v.Attributes.String(constants.AttrStandardName); err != nil {
		return Variable{}, err
	}
	if s.LongName, err = v.Attributes.String(constants.AttrLongName); err != nil {
		return Variable{}, err
	}
	if s.Units, err = v.Attributes.String(constants.AttrUnits); err != nil {
		return Variable{}, err
	}
	if s.Type, err = v.Type(); err != nil {
		return Variable{}, err
	}

	if !s.Type.IsNumeric() {
		return s, nil
	}
	mv, err := v.MissingValue()
	switch {
	case err == nil:
		s.MissingValue = mv
		s.HasMissingValue = true
	case errors.IsMissingAttribute(err) && (v.IsCoordinate() || len(v.Dimensions) == 0):
		// coordinates and scalar station metadata carry no fill value
	default:
		return Variable{}, err
	}

	return s, nil
}

// Reference is the variable schema of a station, keyed by variable name.
type Reference struct {
	// Source is the path of the file the reference was captured from.
	Source string

	order []string
	vars  map[string]Variable
}

// Capture builds a reference from every variable of ds.
func Capture(ds *dataset.Dataset) (*Reference, error) {
	ref := &Reference{
		Source: ds.Path,
		vars:   make(map[string]Variable),
	}
	for _, v := range ds.Variables() {
		s, err := FromVariable(v)
		if err != nil {
			return nil, errors.WithPath(err, ds.Path)
		}
		ref.order = append(ref.order, s.Name)
		ref.vars[s.Name] = s
	}
	return ref, nil
}

// Names returns the variable names in the order they were captured.
func (r *Reference) Names() []string {
	return slices.Clone(r.order)
}

// Variable returns the schema of the named variable.
func (r *Reference) Variable(name string) (Variable, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// Variables returns every variable schema in capture order.
func (r *Reference) Variables() []Variable {
	out := make([]Variable, len(r.order))
	for i, name := range r.order {
		out[i] = r.vars[name]
	}
	return out
}

// Len returns the number of variables.
func (r *Reference) Len() int {
	return len(r.order)
}

// Diff is the difference between a file's variable names and a reference.
type Diff struct {
	// Missing lists reference variables absent from the file, in reference order.
	Missing []string
	// Extra lists file variables absent from the reference, in file order.
	Extra []string
}

// Equal reports whether the file and the reference have the same name set.
func (d Diff) Equal() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// String returns a short human-readable description.
func (d Diff) String() string {
	if d.Equal() {
		return "no differences"
	}
	var parts []string
	if len(d.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(d.Missing, ", "))
	}
	if len(d.Extra) > 0 {
		parts = append(parts, "extra: "+strings.Join(d.Extra, ", "))
	}
	return strings.Join(parts, "; ")
}

// Compare diffs the variable names of ds against the reference.
func (r *Reference) Compare(ds *dataset.Dataset) Diff {
	var d Diff
	for _, name := range r.order {
		if !ds.HasVariable(name) {
			d.Missing = append(d.Missing, name)
		}
	}
	for _, name := range ds.VariableNames() {
		if _, ok := r.vars[name]; !ok {
			d.Extra = append(d.Extra, name)
		}
	}
	return d
}
