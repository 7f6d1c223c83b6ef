// Package tablefile reads and writes unit table documents.
//
// A document is a named, versioned unit table as authored on disk:
//
//	name = "typography"
//	version = "1.0.0"
//
//	[units.pt]
//	base = true
//	term = "Point(s)"
//
//	[units.p]
//	scale = 12
//	minor = "pt"
//	term = ["Pica", "Picas"]
//
// The same shape is accepted as YAML and JSON.
package tablefile

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/table"
	"github.com/smuchow1962/conversion-table-manager/tables"
	"github.com/smuchow1962/conversion-table-manager/term"
)

// Document is a unit table as stored in a file or the database.
type Document struct {
	Name        string          `toml:"name" yaml:"name" json:"name"`
	Version     string          `toml:"version,omitempty" yaml:"version,omitempty" json:"version,omitempty"`
	Description string          `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Units       map[string]Unit `toml:"units" yaml:"units" json:"units"`

	// Path is the file the document was loaded from, if any.
	Path string `toml:"-" yaml:"-" json:"-"`
}

// Unit is one authored unit entry. Term is either a string ("Inch(es)",
// "Foot/Feet") or a two-element list of singular and plural.
type Unit struct {
	Base  bool        `toml:"base,omitempty" yaml:"base,omitempty" json:"base,omitempty"`
	Scale *float64    `toml:"scale,omitempty" yaml:"scale,omitempty" json:"scale,omitempty"`
	Bias  *float64    `toml:"bias,omitempty" yaml:"bias,omitempty" json:"bias,omitempty"`
	Alias string      `toml:"alias,omitempty" yaml:"alias,omitempty" json:"alias,omitempty"`
	Minor string      `toml:"minor,omitempty" yaml:"minor,omitempty" json:"minor,omitempty"`
	Term  interface{} `toml:"term,omitempty" yaml:"term,omitempty" json:"term,omitempty"`
}

// Validate checks the document-level fields. Unit entries are checked
// when the table is built.
func (d *Document) Validate() error {
	if d.Name == "" {
		return errors.Wrap(errors.ErrMalformedTable, "document has no name")
	}
	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			return errors.WithHint(
				errors.Wrapf(errors.ErrMalformedTable, "table %q: invalid version %q", d.Name, d.Version),
				"use a semantic version such as 1.2.0",
			)
		}
	}
	if len(d.Units) == 0 {
		return errors.Wrapf(errors.ErrEmptyTable, "table %q", d.Name)
	}
	return nil
}

// SemVer returns the parsed version, or nil when none is set.
func (d *Document) SemVer() (*semver.Version, error) {
	if d.Version == "" {
		return nil, nil
	}
	return semver.NewVersion(d.Version)
}

// Raw converts the document into the raw table form accepted by
// table.Build.
func (d *Document) Raw() (table.RawTable, error) {
	raw := make(table.RawTable, len(d.Units))
	for key, u := range d.Units {
		spec, err := termSpec(u.Term)
		if err != nil {
			return nil, errors.Wrapf(err, "table %q: unit %q", d.Name, key)
		}
		raw[key] = table.RawUnit{
			Base:  u.Base,
			Scale: copyFloat(u.Scale),
			Bias:  copyFloat(u.Bias),
			Alias: u.Alias,
			Minor: u.Minor,
			Term:  spec,
		}
	}
	return raw, nil
}

// Build validates the document and builds its table.
func (d *Document) Build() (*table.Table, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	raw, err := d.Raw()
	if err != nil {
		return nil, err
	}
	return table.Build(raw, d.Name)
}

// Register validates the document and hands it to r under its own name.
func (d *Document) Register(r tables.Registrar, force bool) error {
	if err := d.Validate(); err != nil {
		return err
	}
	raw, err := d.Raw()
	if err != nil {
		return err
	}
	return r.Register(d.Name, raw, force)
}

// FromRaw wraps a raw table in a document.
func FromRaw(name string, raw table.RawTable) *Document {
	doc := &Document{Name: name, Units: make(map[string]Unit, len(raw))}
	for key, u := range raw {
		doc.Units[key] = Unit{
			Base:  u.Base,
			Scale: copyFloat(u.Scale),
			Bias:  copyFloat(u.Bias),
			Alias: u.Alias,
			Minor: u.Minor,
			Term:  u.Term.Value(),
		}
	}
	return doc
}

// FromTable exports a normalized table. Aliases are written as bare
// aliases; defaults (scale 1, bias 0) are omitted.
func FromTable(t *table.Table) *Document {
	units := t.Units()
	doc := &Document{Name: t.Name(), Units: make(map[string]Unit, len(units))}

	keys := make([]string, 0, len(units))
	for key := range units {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		u := units[key]
		if u.IsAlias() {
			doc.Units[key] = Unit{Alias: u.Alias}
			continue
		}
		out := Unit{Base: u.IsBase, Minor: u.Minor}
		if !u.IsBase && u.Scale != 1 {
			scale := u.Scale
			out.Scale = &scale
		}
		if !u.IsBase && u.Bias != 0 {
			bias := u.Bias
			out.Bias = &bias
		}
		if u.Term != nil {
			out.Term = []string{u.Term.Singular(), u.Term.Plural()}
		}
		doc.Units[key] = out
	}
	return doc
}

func termSpec(v interface{}) (*term.Spec, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return term.Text(t), nil
	case []string:
		if len(t) == 2 {
			return term.Of(t[0], t[1]), nil
		}
	case []interface{}:
		if len(t) == 2 {
			singular, ok1 := t[0].(string)
			plural, ok2 := t[1].(string)
			if ok1 && ok2 {
				return term.Of(singular, plural), nil
			}
		}
	}
	return nil, errors.Wrapf(errors.ErrMalformedTable, "term must be a string or [singular, plural], got %v", v)
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
