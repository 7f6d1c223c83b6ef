// Package term splits human-authored unit names into singular and plural forms.
//
// Three shapes are understood:
//
//	"Meter(s)"   -> Meter, Meters
//	"Foot/Feet"  -> Foot, Feet
//	"Celsius"    -> Celsius, Celsius
//
// Nothing else is attempted. Text that looks malformed ("Inch(es", "a/b/c")
// is kept verbatim as both forms.
package term

import (
	"regexp"
)

var (
	suffixForm = regexp.MustCompile(`^([^()]+)\(([^()]+)\)$`)
	slashForm  = regexp.MustCompile(`^([^/]+)/([^/]+)$`)
)

// Pair holds the singular and plural name of a unit.
type Pair [2]string

// Singular returns the first element of the pair.
func (p Pair) Singular() string { return p[0] }

// Plural returns the second element of the pair.
func (p Pair) Plural() string { return p[1] }

// For picks the singular form for exactly one and the plural otherwise.
func (p Pair) For(value float64) string {
	if value == 1 {
		return p[0]
	}
	return p[1]
}

// Spec is a term as written by a table author: either free text or an
// explicit pair.
type Spec struct {
	Text string
	Pair *Pair
}

// Text wraps s as a free-text term.
func Text(s string) *Spec {
	return &Spec{Text: s}
}

// Of builds an explicit singular/plural term.
func Of(singular, plural string) *Spec {
	return &Spec{Pair: &Pair{singular, plural}}
}

// Split resolves a term spec into a pair. It returns nil when there is
// no term.
func Split(spec *Spec) *Pair {
	if spec == nil {
		return nil
	}
	if spec.Pair != nil {
		p := *spec.Pair
		return &p
	}
	return SplitString(spec.Text)
}

// SplitString is Split for plain text.
func SplitString(s string) *Pair {
	if m := suffixForm.FindStringSubmatch(s); m != nil {
		return &Pair{m[1], m[1] + m[2]}
	}
	if m := slashForm.FindStringSubmatch(s); m != nil {
		return &Pair{m[1], m[2]}
	}
	if s == "" {
		return nil
	}
	return &Pair{s, s}
}

// Value returns the spec in its most compact serializable form: the text
// when set, otherwise the pair as a two-element slice.
func (s *Spec) Value() interface{} {
	if s == nil {
		return nil
	}
	if s.Pair != nil {
		return []string{s.Pair[0], s.Pair[1]}
	}
	return s.Text
}
