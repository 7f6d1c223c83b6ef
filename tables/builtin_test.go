package tables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuchow1962/conversion-table-manager/convert"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/table"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

type recorder struct {
	names []string
	fail  string
}

func (r *recorder) Register(name string, raw table.RawTable, force bool) error {
	if name == r.fail {
		return errors.ErrTableExists
	}
	r.names = append(r.names, name)
	return nil
}

func TestBuiltinTablesBuild(t *testing.T) {
	for name, raw := range tables.Builtin() {
		t.Run(name, func(t *testing.T) {
			tbl, err := table.Build(raw, name)
			require.NoError(t, err)
			assert.Equal(t, name, tbl.Name())
			assert.NotEmpty(t, tbl.Pattern())
		})
	}
}

func TestTypographyPrecision(t *testing.T) {
	tbl, err := table.Build(tables.Typography(), tables.TypographyName)
	require.NoError(t, err)
	assert.Equal(t, "pt", tbl.Base())
	assert.Equal(t, 12, tbl.Precision())
}

func TestBuiltinReturnsFreshCopies(t *testing.T) {
	a := tables.Typography()
	delete(a, "pt")

	b := tables.Typography()
	assert.Contains(t, b, "pt")
}

func TestRegisterBuiltins_NameOrder(t *testing.T) {
	r := &recorder{}
	require.NoError(t, tables.RegisterBuiltins(r, false))
	assert.Equal(t, []string{tables.LengthName, tables.TemperatureName, tables.TypographyName}, r.names)
}

func TestRegisterBuiltins_StopsOnError(t *testing.T) {
	r := &recorder{fail: tables.TemperatureName}
	err := tables.RegisterBuiltins(r, false)
	assert.True(t, errors.Is(err, errors.ErrTableExists))
	assert.Equal(t, []string{tables.LengthName}, r.names)
}

func TestLengthScenarios(t *testing.T) {
	tbl, err := table.Build(tables.Length(), tables.LengthName)
	require.NoError(t, err)

	got, err := convert.Convert("1mi", "km", tbl)
	require.NoError(t, err)
	assert.InDelta(t, 1.609344, got.Value, 1e-12)

	got, err = convert.Convert("5ft6", "in", tbl)
	require.NoError(t, err)
	assert.InDelta(t, 66.0, got.Value, 1e-9)
}

func TestTemperatureScenarios(t *testing.T) {
	tbl, err := table.Build(tables.Temperature(), tables.TemperatureName)
	require.NoError(t, err)

	got, err := convert.Convert("100degC", "F", tbl)
	require.NoError(t, err)
	assert.InDelta(t, 212.0, got.Value, 1e-9)

	got, err = convert.Convert("0C", "K", tbl)
	require.NoError(t, err)
	assert.InDelta(t, 273.15, got.Value, 1e-9)
}
