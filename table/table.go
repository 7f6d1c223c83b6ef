// Package table turns sparse, author-written unit tables into resolved,
// immutable tables and derives the pattern used to recognise unit names.
//
// A table has exactly one base unit. Every other unit is related to it by
// an affine transform:
//
//	value_in_base = value*scale + bias
//
// Build is the usual entry point: it normalizes the raw table, derives the
// pattern and compiles it once.
package table

import (
	"regexp"
	"sort"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/term"
)

// Unit is the resolved form of a unit entry.
type Unit struct {
	Key    string
	IsBase bool
	Scale  float64
	Bias   float64
	Alias  string     // key of the mirrored unit, empty for primary units
	Minor  string     // key of the associated finer unit, empty when none
	Term   *term.Pair // nil when the author gave no name
}

// IsAlias reports whether the unit mirrors another entry.
func (u Unit) IsAlias() bool {
	return u.Alias != ""
}

// ToBase converts a value in this unit to the table's base unit.
func (u Unit) ToBase(value float64) float64 {
	return value*u.Scale + u.Bias
}

// FromBase converts a value in the table's base unit to this unit.
func (u Unit) FromBase(value float64) float64 {
	return (value - u.Bias) / u.Scale
}

func (u Unit) clone() Unit {
	if u.Term != nil {
		p := *u.Term
		u.Term = &p
	}
	return u
}

// Table is a normalized unit table. It is never mutated after Build or
// Normalize returns; re-registration replaces it wholesale.
type Table struct {
	name      string
	units     map[string]Unit
	base      string
	precision int
	pattern   string
	re        *regexp.Regexp
}

// Name returns the name the table was built under, possibly empty.
func (t *Table) Name() string { return t.name }

// Base returns the key of the base unit.
func (t *Table) Base() string { return t.base }

// Precision returns the number of decimal digits conversions in this
// table should be considered accurate to. Always within [6, 15].
func (t *Table) Precision() int { return t.precision }

// Pattern returns the derived unit pattern, empty until BuildPattern ran.
func (t *Table) Pattern() string { return t.pattern }

// Len returns the number of units.
func (t *Table) Len() int { return len(t.units) }

// Keys returns the unit keys in sorted order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.units))
	for k := range t.units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the unit stored under key without alias resolution.
func (t *Table) Lookup(key string) (Unit, bool) {
	u, ok := t.units[key]
	if !ok {
		return Unit{}, false
	}
	return u.clone(), true
}

// Units returns a copy of every unit keyed by unit key.
func (t *Table) Units() map[string]Unit {
	out := make(map[string]Unit, len(t.units))
	for k, u := range t.units {
		out[k] = u.clone()
	}
	return out
}

// Matcher returns the compiled unit pattern. Tables from Build carry it
// already; for tables from Normalize alone it is derived on each call.
func (t *Table) Matcher() (*regexp.Regexp, error) {
	if t.re != nil {
		return t.re, nil
	}
	pattern := t.pattern
	if pattern == "" {
		var err error
		if pattern, err = BuildPattern(t, t.name); err != nil {
			return nil, err
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile pattern for table %q", t.name)
	}
	return re, nil
}

// Find returns the unit stored under key, following exactly one level of
// alias indirection.
func (t *Table) Find(key string) (Unit, error) {
	return Find(key, t)
}

// Find looks up key in t. An alias resolves to its target; a target that
// is missing is reported as ErrAliasTarget rather than ErrUnitNotFound.
func Find(key string, t *Table) (Unit, error) {
	if t == nil {
		return Unit{}, errors.Wrapf(errors.ErrUnitNotFound, "%q", key)
	}
	u, ok := t.units[key]
	if !ok {
		return Unit{}, errors.Wrapf(errors.ErrUnitNotFound, "%q", key)
	}
	if u.Alias == "" {
		return u.clone(), nil
	}
	target, ok := t.units[u.Alias]
	if !ok {
		return Unit{}, errors.Wrapf(errors.ErrAliasTarget, "%q -> %q", key, u.Alias)
	}
	return target.clone(), nil
}
