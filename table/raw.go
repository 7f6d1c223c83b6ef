package table

import (
	"sort"

	"github.com/smuchow1962/conversion-table-manager/term"
)

// RawUnit is a unit entry as written by a table author. Every field is
// optional; Normalize fills in the defaults.
type RawUnit struct {
	Base  bool       // reference unit of the table (at most one)
	Scale *float64   // factor to the base unit (default 1)
	Bias  *float64   // offset added after scaling (default 0)
	Alias string     // key of the unit this entry mirrors
	Minor string     // key of the finer unit used for "1p6"-style input
	Term  *term.Spec // display name, e.g. "Pica(s)"
}

// RawTable maps unit keys to their sparse definitions. Keys are
// case-sensitive.
type RawTable map[string]RawUnit

// Keys returns the table keys in sorted order.
func (r RawTable) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the raw table.
func (r RawTable) Clone() RawTable {
	out := make(RawTable, len(r))
	for k, u := range r {
		if u.Scale != nil {
			s := *u.Scale
			u.Scale = &s
		}
		if u.Bias != nil {
			b := *u.Bias
			u.Bias = &b
		}
		if u.Term != nil {
			t := *u.Term
			if t.Pair != nil {
				p := *t.Pair
				t.Pair = &p
			}
			u.Term = &t
		}
		out[k] = u
	}
	return out
}
