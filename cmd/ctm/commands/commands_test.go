package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/smuchow1962/conversion-table-manager/am"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
	"github.com/smuchow1962/conversion-table-manager/tables"
	"github.com/smuchow1962/conversion-table-manager/version"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

const agateTable = `name = "agate"
version = "1.0.0"

[units.ag]
base = true
term = "Agate(s)"

[units.pt]
scale = 0.388888888889
term = "Point(s)"
`

func testConfig(t *testing.T) *am.Config {
	t.Helper()
	return &am.Config{
		Database: am.DatabaseConfig{Path: filepath.Join(t.TempDir(), "ctm.db")},
		Tables:   am.TablesConfig{Builtin: true},
		Display:  am.DisplayConfig{Round: true, Format: am.FormatText},
	}
}

func newTestApp(t *testing.T, cfg *am.Config, opts AppOptions) *App {
	t.Helper()
	app, err := NewApp(context.Background(), cfg, opts, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewApp_Builtins(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	assert.Equal(t, []string{tables.LengthName, tables.TemperatureName, tables.TypographyName}, app.Registry.List())
	assert.Equal(t, SourceBuiltin, app.Sources[tables.TypographyName])
	assert.Nil(t, app.Store, "read-only commands must not open a missing database")
}

func TestNewApp_NoBuiltin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tables.Builtin = false
	app := newTestApp(t, cfg, AppOptions{})

	assert.Empty(t, app.Registry.List())
}

func TestNewApp_DoesNotCreateDatabase(t *testing.T) {
	cfg := testConfig(t)
	newTestApp(t, cfg, AppOptions{})

	_, err := os.Stat(cfg.Database.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewApp_RequireStore(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg, AppOptions{RequireStore: true})

	require.NotNil(t, app.Store)
	_, err := os.Stat(cfg.Database.Path)
	assert.NoError(t, err)
}

func TestNewApp_RequireStoreDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = ""

	_, err := NewApp(context.Background(), cfg, AppOptions{RequireStore: true}, nil)
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--db")
}

func TestNewApp_FilesOverrideStoreAndBuiltins(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)

	// Store a typography replacement first
	storeApp := newTestApp(t, cfg, AppOptions{RequireStore: true})
	storedPath := writeFile(t, dir, "stored.toml", strings.Replace(agateTable, `"agate"`, `"typography"`, 1))
	var out bytes.Buffer
	require.NoError(t, runTableAdd(context.Background(), &out, storeApp, storedPath, true))
	require.NoError(t, storeApp.Close())

	app := newTestApp(t, cfg, AppOptions{})
	assert.Equal(t, SourceStore, app.Sources[tables.TypographyName])
	assert.True(t, app.Registry.Has(tables.LengthName))

	// A file with the same name beats the store
	filesDir := filepath.Join(dir, "files")
	require.NoError(t, os.Mkdir(filesDir, 0755))
	filePath := writeFile(t, filesDir, "typography.toml", strings.Replace(agateTable, `"agate"`, `"typography"`, 1))
	cfg.Tables.Paths = []string{filesDir}

	app = newTestApp(t, cfg, AppOptions{})
	assert.Equal(t, filePath, app.Sources[tables.TypographyName])
	require.Len(t, app.Docs, 1)
}

func TestNewApp_BrokenTableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.toml", "name = \"broken\"\n[units.a]\nscale = 2.0\n")
	cfg := testConfig(t)
	cfg.Tables.Paths = []string{dir}

	_, err := NewApp(context.Background(), cfg, AppOptions{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err), "got %v", err)
}

func TestRunConvert(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	tests := []struct {
		name string
		opts convertOptions
		want string
	}{
		{"pica and points", convertOptions{Table: tables.TypographyName, Input: "1p6", Unit: "pt", Round: true}, "18 pt (Points)\n"},
		{"one inch", convertOptions{Table: tables.TypographyName, Input: "72pt", Unit: "in", Round: true}, "1 in (Inch)\n"},
		{"feet and inches", convertOptions{Table: tables.LengthName, Input: "5ft6", Unit: "in", Round: true}, "66 in (Inches)\n"},
		{"temperature alias", convertOptions{Table: tables.TemperatureName, Input: "0degC", Unit: "K", Round: true}, "273.15 K (Kelvin)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runConvert(&out, app, tt.opts))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunConvert_JSON(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	var out bytes.Buffer
	require.NoError(t, runConvert(&out, app, convertOptions{
		Table: tables.TypographyName, Input: "1c4", Unit: "pt", Round: true, JSON: true,
	}))

	var got convertOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "pt", got.Unit)
	assert.Equal(t, 12, got.Precision)
	assert.InDelta(t, 17.051238978076, got.Value, 1e-12)
}

func TestRunConvert_Errors(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})
	var out bytes.Buffer

	err := runConvert(&out, app, convertOptions{Table: "nope", Input: "1p", Unit: "pt"})
	assert.True(t, errors.Is(err, errors.ErrTableNotFound))

	err = runConvert(&out, app, convertOptions{Table: tables.TypographyName, Input: "12 parsecs", Unit: "pt"})
	assert.True(t, errors.Is(err, errors.ErrNoMatch))

	err = runConvert(&out, app, convertOptions{Table: tables.TypographyName, Input: "1p", Unit: "furlong"})
	assert.True(t, errors.Is(err, errors.ErrUnitNotFound))

	assert.Empty(t, out.String())
}

func TestRunParse(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	var out bytes.Buffer
	require.NoError(t, runParse(&out, app, tables.TypographyName, "1p6", true))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "pt", got["base"])
	assert.Equal(t, 18.0, got["in_base"])
	main := got["main"].(map[string]interface{})
	assert.Equal(t, "p", main["unit"])
	sub := got["sub"].(map[string]interface{})
	assert.Equal(t, "pt", sub["unit"])
	assert.Equal(t, 6.0, sub["value"])

	out.Reset()
	require.NoError(t, runParse(&out, app, tables.TypographyName, "1p6", false))
	assert.Contains(t, out.String(), "minor")
	assert.Contains(t, out.String(), "18 pt")
}

func TestRunFind(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	var out bytes.Buffer
	require.NoError(t, runFind(&out, app, tables.TemperatureName, "degF", true))

	var got unitOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "F", got.Key)
	assert.Equal(t, "Fahrenheit", got.Singular)

	out.Reset()
	require.NoError(t, runFind(&out, app, tables.LengthName, "ft", false))
	assert.Contains(t, out.String(), "Foot/Feet")

	err := runFind(&out, app, tables.LengthName, "league", false)
	assert.True(t, errors.Is(err, errors.ErrUnitNotFound))
}

func TestReadBatch(t *testing.T) {
	in := strings.NewReader("# sizes\n1p6\n\n'2 in' mm\n10cm in\n")
	lines, err := readBatch(in, "pt")
	require.NoError(t, err)

	assert.Equal(t, []batchLine{
		{Line: 2, Input: "1p6", Unit: "pt"},
		{Line: 4, Input: "2 in", Unit: "mm"},
		{Line: 5, Input: "10cm", Unit: "in"},
	}, lines)
}

func TestReadBatch_Errors(t *testing.T) {
	_, err := readBatch(strings.NewReader("1p6\n"), "")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--unit")

	_, err = readBatch(strings.NewReader("1 p 6 pt\n"), "pt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = readBatch(strings.NewReader("'unterminated\n"), "pt")
	require.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	var out bytes.Buffer
	err := runBatch(strings.NewReader("1p6\n2in\n"), &out, app, batchOptions{
		Table: tables.TypographyName, Unit: "pt", Round: true, JSON: true,
	})
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 18.0, got[0]["result"].(map[string]interface{})["value"].(map[string]interface{})["value"])
	assert.Equal(t, 144.0, got[1]["result"].(map[string]interface{})["value"].(map[string]interface{})["value"])
}

func TestRunBatch_PartialFailure(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})

	var out bytes.Buffer
	err := runBatch(strings.NewReader("1p6\nbogus\n2in furlong\n"), &out, app, batchOptions{
		Table: tables.TypographyName, Unit: "pt", Round: true,
	})
	require.Error(t, err)
	assert.Equal(t, "2 of 3 inputs failed", err.Error())
	assert.Contains(t, out.String(), "18")
	assert.Contains(t, out.String(), "bogus")
}

func TestTableCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "agate.toml", agateTable)
	app := newTestApp(t, testConfig(t), AppOptions{RequireStore: true})

	var out bytes.Buffer
	require.NoError(t, runTableAdd(ctx, &out, app, path, false))
	assert.Contains(t, out.String(), `"agate"`)
	assert.Equal(t, SourceStore, app.Sources["agate"])

	// Adding again needs force
	err := runTableAdd(ctx, &out, app, path, false)
	assert.True(t, errors.Is(err, errors.ErrTableExists))
	require.NoError(t, runTableAdd(ctx, &out, app, path, true))

	out.Reset()
	require.NoError(t, runTableList(&out, app, true))
	var summaries []tableSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summaries))
	require.Len(t, summaries, 4)
	assert.Equal(t, tableSummary{Name: "agate", Base: "ag", Units: 2, Precision: 12, Source: SourceStore}, summaries[0])

	out.Reset()
	require.NoError(t, runTableList(&out, app, false))
	assert.Contains(t, out.String(), "agate")
	assert.Contains(t, out.String(), SourceBuiltin)

	out.Reset()
	require.NoError(t, runTableShow(&out, app, "agate", tablefile.FormatYAML))
	doc, err := tablefile.Decode(out.Bytes(), tablefile.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "agate", doc.Name)

	out.Reset()
	require.NoError(t, runTableRemove(ctx, &out, app, "agate"))
	assert.False(t, app.Registry.Has("agate"))

	err = runTableRemove(ctx, &out, app, "agate")
	assert.True(t, errors.Is(err, errors.ErrTableNotFound))
}

func TestRunTableShow_FileDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agate.toml", agateTable)
	cfg := testConfig(t)
	cfg.Tables.Paths = []string{dir}
	app := newTestApp(t, cfg, AppOptions{})

	var out bytes.Buffer
	require.NoError(t, runTableShow(&out, app, "agate", tablefile.FormatTOML))
	assert.Contains(t, out.String(), "1.0.0")
	assert.Contains(t, out.String(), "Agate(s)")
}

func TestRunTableRemove_NoStore(t *testing.T) {
	app := newTestApp(t, testConfig(t), AppOptions{})
	err := runTableRemove(context.Background(), &bytes.Buffer{}, app, tables.TypographyName)
	require.Error(t, err)
	assert.True(t, app.Registry.Has(tables.TypographyName))
}

func TestRunAmShow(t *testing.T) {
	cfg := testConfig(t)
	port := 9000
	cfg.Server.Port = &port

	for _, format := range []string{"toml", "yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runAmShow(&out, cfg, format))
			assert.Contains(t, out.String(), "9000")
			assert.Contains(t, out.String(), cfg.Database.Path)
		})
	}

	err := runAmShow(&bytes.Buffer{}, cfg, "ini")
	assert.True(t, errors.Is(err, tablefile.ErrUnsupportedFormat))
}

func TestRunAmValidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agate.toml", agateTable)
	cfg := testConfig(t)
	cfg.Tables.Paths = []string{dir}

	var out bytes.Buffer
	require.NoError(t, runAmValidate(&out, cfg))
	assert.Contains(t, out.String(), "1 table files")

	writeFile(t, dir, "dup.toml", "name = \"dup\"\n[units.a]\nbase = true\n[units.b]\nbase = true\n")
	err := runAmValidate(&out, cfg)
	assert.True(t, errors.Is(err, errors.ErrDuplicateBase))
}

func TestRunAmWhere(t *testing.T) {
	in := &am.ConfigIntrospection{
		ConfigFiles: []string{"/etc/ctm.toml"},
		Settings: []am.SettingInfo{
			{Key: "server.port", Value: 9000, Source: am.SourceProject, SourcePath: "/etc/ctm.toml"},
		},
	}

	var out bytes.Buffer
	require.NoError(t, runAmWhere(&out, in, false))
	assert.Contains(t, out.String(), "Config file: /etc/ctm.toml")
	assert.Contains(t, out.String(), "server.port")
	assert.Contains(t, out.String(), string(am.SourceProject))

	out.Reset()
	require.NoError(t, runAmWhere(&out, in, true))
	var got am.ConfigIntrospection
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, in.ConfigFiles, got.ConfigFiles)
}

func TestRunVersion(t *testing.T) {
	info := version.Info{Version: "1.2.0", CommitHash: "abc1234", BuildTime: "now", GoVersion: "go1.24", Platform: "linux/amd64"}

	var out bytes.Buffer
	require.NoError(t, runVersion(&out, info, false))
	assert.Contains(t, out.String(), "ctm 1.2.0")

	out.Reset()
	require.NoError(t, runVersion(&out, info, true))
	var got version.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, info, got)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "17.051238978076", formatValue(17.0512389780761234, 12, true))
	assert.Equal(t, "0.1", formatValue(0.1, 12, false))
	assert.Equal(t, "18", formatValue(18.0000000000001, 12, true))
}
