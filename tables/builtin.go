// Package tables holds the unit tables that ship with ctm.
package tables

import (
	"sort"

	"github.com/smuchow1962/conversion-table-manager/internal/util"
	"github.com/smuchow1962/conversion-table-manager/table"
	"github.com/smuchow1962/conversion-table-manager/term"
)

// Names of the built-in tables.
const (
	TypographyName  = "typography"
	LengthName      = "length"
	TemperatureName = "temperature"
)

// Typography relates picas, ciceros and friends to the PostScript point.
// "1p6" reads as one pica and six points, "1c4" as one cicero and four
// didots.
func Typography() table.RawTable {
	return table.RawTable{
		"c":  {Scale: util.Ptr(12.789065750000), Minor: "d", Term: term.Text("Cicero(s)")},
		"cm": {Scale: util.Ptr(28.346456692914), Term: term.Text("Centimeter(s)")},
		"d":  {Scale: util.Ptr(1.065543307019), Term: term.Text("Didot(s)")},
		"i":  {Alias: "in"},
		"in": {Scale: util.Ptr(72.0), Term: term.Text("Inch(es)")},
		"p":  {Scale: util.Ptr(12.0), Minor: "pt", Term: term.Text("Pica(s)")},
		"pt": {Base: true, Term: term.Text("Point(s)")},
	}
}

// Length is metric and imperial length based on the metre. "5ft6" reads
// as five feet six inches.
func Length() table.RawTable {
	return table.RawTable{
		"m":  {Base: true, Term: term.Text("Meter(s)")},
		"km": {Scale: util.Ptr(1000.0), Term: term.Text("Kilometer(s)")},
		"cm": {Scale: util.Ptr(0.01), Term: term.Text("Centimeter(s)")},
		"mm": {Scale: util.Ptr(0.001), Term: term.Text("Millimeter(s)")},
		"in": {Scale: util.Ptr(0.0254), Term: term.Text("Inch(es)")},
		"ft": {Scale: util.Ptr(0.3048), Minor: "in", Term: term.Of("Foot", "Feet")},
		"yd": {Scale: util.Ptr(0.9144), Minor: "ft", Term: term.Text("Yard(s)")},
		"mi": {Scale: util.Ptr(1609.344), Term: term.Text("Mile(s)")},
	}
}

// Temperature relates the common scales to Kelvin. Celsius and Fahrenheit
// need a bias on top of the scale.
func Temperature() table.RawTable {
	return table.RawTable{
		"K":    {Base: true, Term: term.Text("Kelvin")},
		"C":    {Bias: util.Ptr(273.15), Term: term.Text("Celsius")},
		"F":    {Scale: util.Ptr(5.0 / 9.0), Bias: util.Ptr(459.67 * 5.0 / 9.0), Term: term.Text("Fahrenheit")},
		"R":    {Scale: util.Ptr(5.0 / 9.0), Term: term.Text("Rankine")},
		"degC": {Alias: "C"},
		"degF": {Alias: "F"},
	}
}

// Builtin returns fresh copies of every built-in table keyed by name.
func Builtin() map[string]table.RawTable {
	return map[string]table.RawTable{
		TypographyName:  Typography(),
		LengthName:      Length(),
		TemperatureName: Temperature(),
	}
}

// Registrar is anything that can take a named raw table, such as
// *registry.Registry.
type Registrar interface {
	Register(name string, raw table.RawTable, force bool) error
}

// RegisterBuiltins installs every built-in table in name order.
func RegisterBuiltins(r Registrar, force bool) error {
	builtin := Builtin()
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Register(name, builtin[name], force); err != nil {
			return err
		}
	}
	return nil
}
