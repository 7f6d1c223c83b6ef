package tablefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuchow1962/conversion-table-manager/convert"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/registry"
	"github.com/smuchow1962/conversion-table-manager/table"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

const typographyTOML = `
name = "typo"
version = "1.2.0"
description = "Picas and points"

[units.pt]
base = true
term = "Point(s)"

[units.p]
scale = 12
minor = "pt"
term = ["Pica", "Picas"]

[units.in]
scale = 72
term = "Inch(es)"

[units.i]
alias = "in"
`

const typographyYAML = `
name: typo
version: 1.2.0
units:
  pt:
    base: true
    term: Point(s)
  p:
    scale: 12
    minor: pt
    term: [Pica, Picas]
  in:
    scale: 72
  i:
    alias: in
`

const typographyJSON = `{
  "name": "typo",
  "units": {
    "pt": {"base": true, "term": "Point(s)"},
    "p": {"scale": 12, "minor": "pt", "term": ["Pica", "Picas"]},
    "in": {"scale": 72},
    "i": {"alias": "in"}
  }
}`

func TestDecode_AllFormats(t *testing.T) {
	cases := map[tablefile.Format]string{
		tablefile.FormatTOML: typographyTOML,
		tablefile.FormatYAML: typographyYAML,
		tablefile.FormatJSON: typographyJSON,
	}

	for format, data := range cases {
		t.Run(string(format), func(t *testing.T) {
			doc, err := tablefile.Decode([]byte(data), format)
			require.NoError(t, err)
			assert.Equal(t, "typo", doc.Name)
			require.Len(t, doc.Units, 4)

			tbl, err := doc.Build()
			require.NoError(t, err)
			assert.Equal(t, "pt", tbl.Base())

			p, ok := tbl.Lookup("p")
			require.True(t, ok)
			require.NotNil(t, p.Term)
			assert.Equal(t, "Pica", p.Term.Singular())
			assert.Equal(t, "Picas", p.Term.Plural())

			got, err := convert.Convert("1p6", "pt", tbl)
			require.NoError(t, err)
			assert.Equal(t, 18.0, got.Value)

			got, err = convert.Convert("1i", "pt", tbl)
			require.NoError(t, err)
			assert.Equal(t, 72.0, got.Value)
		})
	}
}

func TestDecode_UnknownKeys(t *testing.T) {
	_, err := tablefile.Decode([]byte("name = \"x\"\n[units.pt]\nbase = true\nscael = 2\n"), tablefile.FormatTOML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedTable))
	assert.Contains(t, err.Error(), "units.pt.scael")

	_, err = tablefile.Decode([]byte("name: x\nunits:\n  pt:\n    bsae: true\n"), tablefile.FormatYAML)
	assert.Error(t, err)

	_, err = tablefile.Decode([]byte(`{"name":"x","extra":1}`), tablefile.FormatJSON)
	assert.Error(t, err)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, err := tablefile.Decode([]byte("x"), tablefile.Format("ini"))
	assert.True(t, errors.Is(err, tablefile.ErrUnsupportedFormat))
}

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]tablefile.Format{
		"a.toml": tablefile.FormatTOML,
		"a.yaml": tablefile.FormatYAML,
		"a.YML":  tablefile.FormatYAML,
		"a.json": tablefile.FormatJSON,
	} {
		got, err := tablefile.FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := tablefile.FormatForPath("README")
	assert.True(t, errors.Is(err, tablefile.ErrUnsupportedFormat))
	assert.False(t, tablefile.IsTableFile("notes.txt"))
}

func TestValidate(t *testing.T) {
	doc := &tablefile.Document{Name: "x", Version: "one", Units: map[string]tablefile.Unit{"b": {Base: true}}}
	err := doc.Validate()
	assert.True(t, errors.Is(err, errors.ErrMalformedTable))
	assert.Contains(t, errors.FlattenHints(err), "semantic version")

	doc.Version = "2.0.1"
	require.NoError(t, doc.Validate())
	v, err := doc.SemVer()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Major())

	doc.Units = nil
	assert.True(t, errors.Is(doc.Validate(), errors.ErrEmptyTable))

	doc.Name = ""
	assert.True(t, errors.Is(doc.Validate(), errors.ErrMalformedTable))
}

func TestRaw_BadTerm(t *testing.T) {
	doc := &tablefile.Document{Name: "x", Units: map[string]tablefile.Unit{
		"b": {Base: true, Term: []interface{}{"one", "two", "three"}},
	}}
	_, err := doc.Raw()
	assert.True(t, errors.Is(err, errors.ErrMalformedTable))

	doc.Units["b"] = tablefile.Unit{Base: true, Term: 42}
	_, err = doc.Raw()
	assert.True(t, errors.Is(err, errors.ErrMalformedTable))
}

func TestBuild_PropagatesTableErrors(t *testing.T) {
	doc := &tablefile.Document{Name: "x", Units: map[string]tablefile.Unit{"a": {Alias: "b"}}}
	_, err := doc.Build()
	assert.True(t, errors.Is(err, errors.ErrNoBase))
}

func TestFromTable_RoundTrip(t *testing.T) {
	original, err := table.Build(tables.Typography(), tables.TypographyName)
	require.NoError(t, err)

	doc := tablefile.FromTable(original)
	assert.Equal(t, tables.TypographyName, doc.Name)
	assert.Equal(t, "in", doc.Units["i"].Alias)
	assert.Nil(t, doc.Units["i"].Scale)
	assert.Nil(t, doc.Units["pt"].Scale)

	for _, format := range tablefile.Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := tablefile.Encode(doc, format)
			require.NoError(t, err)

			decoded, err := tablefile.Decode(data, format)
			require.NoError(t, err)

			rebuilt, err := decoded.Build()
			require.NoError(t, err)
			assert.Equal(t, original.Keys(), rebuilt.Keys())
			assert.Equal(t, original.Precision(), rebuilt.Precision())
			assert.Equal(t, original.Pattern(), rebuilt.Pattern())

			got, err := convert.Convert("1c4", "pt", rebuilt)
			require.NoError(t, err)
			assert.InDelta(t, 17.051238978076, got.Value, 1e-9)
		})
	}
}

func TestFromRaw(t *testing.T) {
	doc := tablefile.FromRaw(tables.LengthName, tables.Length())
	assert.Equal(t, []string{"Foot", "Feet"}, doc.Units["ft"].Term)
	assert.Equal(t, "Meter(s)", doc.Units["m"].Term)

	tbl, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, "m", tbl.Base())
}

func TestRegister(t *testing.T) {
	doc, err := tablefile.Decode([]byte(typographyTOML), tablefile.FormatTOML)
	require.NoError(t, err)

	r := registry.New(nil)
	require.NoError(t, doc.Register(r, false))
	assert.True(t, r.Has("typo"))

	err = doc.Register(r, false)
	assert.True(t, errors.Is(err, errors.ErrTableExists))
	require.NoError(t, doc.Register(r, true))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_DefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "printing.yaml", "units:\n  pt:\n    base: true\n")

	doc, err := tablefile.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "printing", doc.Name)
	assert.Equal(t, path, doc.Path)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := tablefile.LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	empty := writeFile(t, dir, "empty.json", `{"name":"e"}`)
	_, err = tablefile.LoadFile(empty)
	assert.True(t, errors.Is(err, errors.ErrEmptyTable))
	assert.Contains(t, err.Error(), empty)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.toml", typographyTOML)
	writeFile(t, dir, "a.json", `{"units":{"m":{"base":true},"km":{"scale":1000}}}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.toml"), 0o755))

	docs, err := tablefile.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, "typo", docs[1].Name)

	writeFile(t, dir, "c.yaml", "units: [")
	_, err = tablefile.LoadDir(dir)
	assert.Error(t, err)
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, t.TempDir(), "single.toml", typographyTOML)
	writeFile(t, dir, "a.json", `{"units":{"m":{"base":true}}}`)

	docs, err := tablefile.LoadPaths([]string{dir, file})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	_, err = tablefile.LoadPaths([]string{filepath.Join(dir, "nope")})
	assert.Error(t, err)
}
