package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/term"
)

// Precision bounds reported by Normalize.
const (
	MinPrecision = 6
	MaxPrecision = 15
)

// Normalize resolves a raw table: defaults are applied, aliases copy the
// fields of their target, scales are rounded to MaxPrecision decimals and
// terms are split. The returned table has no pattern yet; see Build.
//
// Entries are visited in sorted key order, so a duplicate base is always
// reported against the lexically first base key.
func Normalize(raw RawTable, name string) (*Table, error) {
	units := make(map[string]Unit, len(raw))
	base := ""
	digits := 0

	for _, key := range raw.Keys() {
		entry := raw[key]
		if strings.TrimSpace(key) == "" {
			return nil, malformed(name, "unit key cannot be empty")
		}

		if entry.Base {
			if base != "" {
				return nil, scoped(name, errors.Wrapf(errors.ErrDuplicateBase, "%q and %q", base, key))
			}
			if entry.Alias != "" {
				return nil, malformed(name, "base unit %q cannot be an alias", key)
			}
			base = key
		}

		src := entry
		if entry.Alias != "" {
			// One hop only: the target's raw fields are copied even when the
			// target is itself an alias. A missing target keeps defaults and
			// surfaces later through Find.
			if target, ok := raw[entry.Alias]; ok {
				src = target
			} else {
				src = RawUnit{Term: entry.Term}
			}
		}

		u := Unit{
			Key:    key,
			IsBase: entry.Base,
			Scale:  1,
			Alias:  entry.Alias,
			Minor:  src.Minor,
			Term:   term.Split(src.Term),
		}
		if src.Scale != nil {
			u.Scale = *src.Scale
		}
		if src.Bias != nil {
			u.Bias = *src.Bias
		}

		if entry.Base && (u.Scale != 1 || u.Bias != 0) {
			return nil, malformed(name, "base unit %q must have scale 1 and bias 0, got %v and %v", key, u.Scale, u.Bias)
		}
		if math.IsNaN(u.Scale) || math.IsInf(u.Scale, 0) {
			return nil, malformed(name, "unit %q has non-finite scale", key)
		}
		if math.IsNaN(u.Bias) || math.IsInf(u.Bias, 0) {
			return nil, malformed(name, "unit %q has non-finite bias", key)
		}

		u.Scale = roundScale(u.Scale)
		if u.Scale == 0 {
			return nil, malformed(name, "unit %q has zero scale", key)
		}
		if d := decimals(u.Scale); d > digits {
			digits = d
		}

		units[key] = u
	}

	if base == "" {
		return nil, scoped(name, errors.WithStack(errors.ErrNoBase))
	}

	for _, key := range raw.Keys() {
		u := units[key]
		if u.Minor == "" {
			continue
		}
		if _, ok := units[u.Minor]; !ok {
			return nil, malformed(name, "minor unit %q of %q is not in the table", u.Minor, key)
		}
	}

	return &Table{
		name:      name,
		units:     units,
		base:      base,
		precision: clampPrecision(digits),
	}, nil
}

// roundScale rounds v to MaxPrecision decimal digits through its decimal
// representation, which avoids the overflow of v*1e15 for large scales.
func roundScale(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', MaxPrecision, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// decimals counts the digits after the decimal point in the shortest
// representation of v.
func decimals(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

func clampPrecision(digits int) int {
	if digits < MinPrecision {
		return MinPrecision
	}
	if digits > MaxPrecision {
		return MaxPrecision
	}
	return digits
}

func scoped(name string, err error) error {
	if name == "" {
		return err
	}
	return errors.Wrapf(err, "table %q", name)
}

func malformed(name, format string, args ...interface{}) error {
	return scoped(name, errors.Wrapf(errors.ErrMalformedTable, format, args...))
}
