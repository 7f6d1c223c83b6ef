// Package parser reads measurement strings such as "1p6", "10cm" or "72"
// against a unit table.
//
// The grammar is "<value> [<unit>] [<minor value>]". A missing unit means
// the table's base unit. A minor value is only accepted when the unit
// declares a minor unit, so "1p6" is one pica six points while "1in6" is
// rejected.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/table"
)

// Component is one measured quantity with the transform of its unit.
type Component struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
	Scale float64 `json:"scale"`
	Bias  float64 `json:"bias"`
}

// InBase returns the component's value in the table's base unit.
func (c Component) InBase() float64 {
	return c.Value*c.Scale + c.Bias
}

// Result is the structured form of a parsed input.
type Result struct {
	Main Component  `json:"main"`
	Sub  *Component `json:"sub"`
	Base string     `json:"base"`
}

// InBase returns the total quantity in the base unit. The minor component
// is added into the same accumulator with no carrying or rounding.
func (r *Result) InBase() float64 {
	total := r.Main.InBase()
	if r.Sub != nil {
		total += r.Sub.InBase()
	}
	return total
}

// Parse matches input against t's unit pattern and resolves the units it
// names. An alias is reported as its target, with the target's scale and
// bias. Every failure is a *ParseError wrapping errors.ErrNoMatch.
func Parse(input string, t *table.Table) (*Result, error) {
	if t == nil {
		return nil, errors.Wrap(errors.ErrTableNotFound, "parse without a table")
	}

	re, err := t.Matcher()
	if err != nil {
		return nil, err
	}

	m := re.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return nil, NewParseError(ErrorKindSyntax, input).
			WithTable(t.Name()).
			WithSuggestion(fmt.Sprintf("expected <value>[unit][minor value], e.g. 10%s", t.Base())).
			WithSuggestion("known units: " + strings.Join(t.Keys(), ", "))
	}

	value, err := strconv.ParseFloat(m[re.SubexpIndex(table.GroupMajorValue)], 64)
	if err != nil {
		return nil, NewParseError(ErrorKindSyntax, input).WithTable(t.Name())
	}

	key := m[re.SubexpIndex(table.GroupMajorUnit)]
	if key == "" {
		key = t.Base()
	}

	entry, ok := t.Lookup(key)
	if !ok {
		return nil, NewParseError(ErrorKindSyntax, input).WithTable(t.Name())
	}
	resolved := entry
	if entry.IsAlias() {
		if resolved, ok = t.Lookup(entry.Alias); !ok {
			return nil, NewParseError(ErrorKindAlias, input).
				WithTable(t.Name()).
				WithSuggestion(fmt.Sprintf("unit %q points at %q, which the table does not define", key, entry.Alias))
		}
	}

	res := &Result{
		Main: Component{Unit: resolved.Key, Value: value, Scale: resolved.Scale, Bias: resolved.Bias},
		Base: t.Base(),
	}

	minorText := m[re.SubexpIndex(table.GroupMinorValue)]
	if minorText == "" {
		return res, nil
	}

	if resolved.Minor == "" {
		return nil, NewParseError(ErrorKindMinor, input).
			WithTable(t.Name()).
			WithSuggestion(fmt.Sprintf("unit %q has no minor unit; drop the trailing %s", resolved.Key, minorText))
	}

	minorValue, err := strconv.ParseFloat(minorText, 64)
	if err != nil {
		return nil, NewParseError(ErrorKindSyntax, input).WithTable(t.Name())
	}

	sub := Component{Unit: resolved.Minor, Value: minorValue, Scale: 1}
	if minor, ok := t.Lookup(resolved.Minor); ok {
		sub.Scale = minor.Scale
		sub.Bias = minor.Bias
	}
	res.Sub = &sub

	return res, nil
}
