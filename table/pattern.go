package table

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// Capture group names in the derived pattern.
const (
	GroupMajorValue = "majorValue"
	GroupMajorUnit  = "majorUnit"
	GroupMinorValue = "minorValue"
)

// decimal is an unsigned number with an optional fraction. No sign,
// exponent or digit grouping.
const decimal = `\d+(?:\.\d+)?`

// BuildPattern derives the anchored pattern that recognises
// "<major value> [<major unit>] [<minor value>]" for the units of t.
//
// Unit names are tried longest first. Alternation takes the first branch
// that matches, so "c" listed before "cm" would claim the "c" of "10cm".
func BuildPattern(t *Table, name string) (string, error) {
	if t == nil || len(t.units) == 0 {
		return "", scoped(name, errors.WithStack(errors.ErrEmptyTable))
	}

	keys := OrderKeys(t.Keys())
	alternatives := make([]string, len(keys))
	for i, k := range keys {
		alternatives[i] = regexp.QuoteMeta(k)
	}

	return fmt.Sprintf(`^\s*(?P<%s>%s)\s*(?P<%s>%s)?\s*(?P<%s>%s)?\s*$`,
		GroupMajorValue, decimal,
		GroupMajorUnit, strings.Join(alternatives, "|"),
		GroupMinorValue, decimal,
	), nil
}

// OrderKeys sorts keys by descending length, breaking ties lexically so
// the pattern is stable between runs.
func OrderKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Build normalizes raw, derives its pattern and compiles it. The result is
// ready for parsing and never changes afterwards.
func Build(raw RawTable, name string) (*Table, error) {
	t, err := Normalize(raw, name)
	if err != nil {
		return nil, err
	}

	pattern, err := BuildPattern(t, name)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, scoped(name, errors.Wrap(err, "compile unit pattern"))
	}

	t.pattern = pattern
	t.re = re
	return t, nil
}
