package dataset

import (
	"fmt"
	"slices"

	"github.com/agentstation/ncreconcile/pkg/errors"
)

// Attributes is an ordered key-value set of NetCDF attributes. Values keep the
// Go type the codec produced (string, a numeric scalar or a numeric slice).
// Typed getters fail with a MissingAttributeError naming the owner when a
// required key is absent.
type Attributes struct {
	owner  string // variable name, empty for global attributes
	keys   []string
	values map[string]any
}

// NewAttributes creates an empty attribute set for the named owner.
// Use an empty owner for global attributes.
func NewAttributes(owner string) *Attributes {
	return &Attributes{owner: owner, values: make(map[string]any)}
}

// Owner returns the variable the attributes belong to.
func (a *Attributes) Owner() string {
	if a == nil {
		return ""
	}
	return a.owner
}

// Set adds or replaces an attribute, keeping the original position on replace.
func (a *Attributes) Set(key string, value any) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the raw attribute value.
func (a *Attributes) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Has reports whether the attribute exists.
func (a *Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Keys returns the attribute names in declaration order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// String returns a text attribute.
func (a *Attributes) String(key string) (string, error) {
	v, ok := a.Get(key)
	if !ok {
		return "", errors.NewMissingAttributeError(a.Owner(), key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Float64 returns a numeric attribute converted to float64. Single element
// slices are accepted since some readers do not unwrap them.
func (a *Attributes) Float64(key string) (float64, error) {
	v, ok := a.Get(key)
	if !ok {
		return 0, errors.NewMissingAttributeError(a.Owner(), key)
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, errors.NewValidationError(key, v, fmt.Sprintf("attribute of %q is not numeric", a.owner))
	}
	return f, nil
}

// Clone returns a deep copy owned by the given name.
func (a *Attributes) Clone(owner string) *Attributes {
	c := NewAttributes(owner)
	if a == nil {
		return c
	}
	for _, k := range a.keys {
		c.Set(k, a.values[k])
	}
	return c
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case []int8:
		return first(n)
	case []int16:
		return first(n)
	case []int32:
		return first(n)
	case []int64:
		return first(n)
	case []float32:
		return first(n)
	case []float64:
		return first(n)
	default:
		return 0, false
	}
}

func first[T int8 | int16 | int32 | int64 | float32 | float64](s []T) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return float64(s[0]), true
}
