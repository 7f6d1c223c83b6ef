// Package convert turns measurement strings into values of another unit by
// way of the table's base unit.
package convert

import (
	"github.com/smuchow1962/conversion-table-manager/internal/util"
	"github.com/smuchow1962/conversion-table-manager/parser"
	"github.com/smuchow1962/conversion-table-manager/table"
)

// Conversion is a value expressed in a requested unit.
type Conversion struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// Round returns the value rounded to the given number of decimals,
// typically the table's Precision(). Convert itself never rounds.
func (c Conversion) Round(precision int) float64 {
	return util.RoundTo(c.Value, precision)
}

// Convert parses input against t and expresses it in unit. Parse errors
// are returned unchanged; an unknown unit is errors.ErrUnitNotFound.
//
// The arithmetic is affine in both directions:
//
//	base   = main.value*main.scale + main.bias [+ sub.value*sub.scale + sub.bias]
//	result = (base - unit.bias) / unit.scale
func Convert(input, unit string, t *table.Table) (Conversion, error) {
	res, err := parser.Parse(input, t)
	if err != nil {
		return Conversion{}, err
	}

	return FromBase(res.InBase(), unit, t)
}

// FromBase expresses a base-unit value in unit.
func FromBase(value float64, unit string, t *table.Table) (Conversion, error) {
	desired, err := table.Find(unit, t)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{Unit: unit, Value: desired.FromBase(value)}, nil
}

// ToBase expresses value, measured in unit, in the table's base unit.
func ToBase(value float64, unit string, t *table.Table) (Conversion, error) {
	from, err := table.Find(unit, t)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{Unit: t.Base(), Value: from.ToBase(value)}, nil
}
