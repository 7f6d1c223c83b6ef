package commands

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smuchow1962/conversion-table-manager/am"
	"github.com/smuchow1962/conversion-table-manager/db"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/registry"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// Where a registered table came from, when it is not a file path
const (
	SourceBuiltin = "builtin"
	SourceStore   = "store"
)

// Global flags shared by every command
var (
	globalConfigPath string
	globalDBPath     string
	globalNoBuiltin  bool
	globalTablePaths []string
)

// AddGlobalFlags registers the persistent flags on the root command
func AddGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	pf.StringVar(&globalConfigPath, "config", "", "Config file (default: nearest ctm.toml, then ~/.ctm/ctm.toml)")
	pf.StringVar(&globalDBPath, "db", "", "Database path (overrides database.path)")
	pf.BoolVar(&globalNoBuiltin, "no-builtin", false, "Do not register the built-in tables")
	pf.StringSliceVar(&globalTablePaths, "tables", nil, "Extra table files or directories")
}

// LoadConfig loads the configuration and applies the global flag overrides
func LoadConfig() (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	if globalConfigPath != "" {
		cfg, err = am.LoadFromFile(globalConfigPath)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	// Copy so flag overrides never leak into the cached config
	out := *cfg
	out.Tables.Paths = append([]string(nil), cfg.Tables.Paths...)

	if globalDBPath != "" {
		out.Database.Path = globalDBPath
	}
	if globalNoBuiltin {
		out.Tables.Builtin = false
	}
	out.Tables.Paths = append(out.Tables.Paths, globalTablePaths...)

	if err := out.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &out, nil
}

// AppOptions tunes how an App is assembled
type AppOptions struct {
	// RequireStore opens (and creates) the database even when the file does
	// not exist yet; commands that write tables need it
	RequireStore bool
}

// App is the registry assembled from built-ins, the store and table files.
// Later sources replace earlier ones: built-in < store < files.
type App struct {
	Config   *am.Config
	Registry *registry.Registry
	Store    *db.TableStore
	Docs     []*tablefile.Document
	Sources  map[string]string

	conn   *sql.DB
	logger *zap.SugaredLogger
}

// NewApp assembles the registry described by cfg
func NewApp(ctx context.Context, cfg *am.Config, opts AppOptions, l *zap.SugaredLogger) (*App, error) {
	l = logger.OrNop(l)
	app := &App{
		Config:   cfg,
		Registry: registry.New(l.Named("registry")),
		Sources:  make(map[string]string),
		logger:   l,
	}

	if cfg.Tables.Builtin {
		if err := tables.RegisterBuiltins(app.Registry, false); err != nil {
			return nil, err
		}
		for name := range tables.Builtin() {
			app.Sources[name] = SourceBuiltin
		}
	}

	if err := app.openStore(ctx, opts); err != nil {
		app.Close()
		return nil, err
	}

	docs, err := tablefile.LoadPaths(cfg.Tables.Paths)
	if err != nil {
		app.Close()
		return nil, err
	}
	for _, doc := range docs {
		if err := doc.Register(app.Registry, true); err != nil {
			app.Close()
			return nil, errors.Wrapf(err, "table file %s", doc.Path)
		}
		app.Sources[doc.Name] = doc.Path
	}
	app.Docs = docs

	return app, nil
}

func (a *App) openStore(ctx context.Context, opts AppOptions) error {
	path := a.Config.Database.Path
	if path == "" {
		if opts.RequireStore {
			return errors.WithHint(
				errors.New("table store is disabled"),
				"set database.path or pass --db",
			)
		}
		return nil
	}

	if _, err := os.Stat(path); err != nil && !opts.RequireStore {
		// Read-only commands never create a database
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), am.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	conn, err := db.OpenWithMigrations(path, a.logger.Named("db"))
	if err != nil {
		return err
	}
	a.conn = conn
	a.Store = db.NewTableStore(conn, a.logger.Named("store"))

	names, err := a.Store.RegisterAll(ctx, a.Registry, true)
	if err != nil {
		return err
	}
	for _, name := range names {
		a.Sources[name] = SourceStore
	}
	return nil
}

// Close releases the database, if one was opened
func (a *App) Close() error {
	if a == nil || a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

// openApp loads configuration and assembles the app for a command
func openApp(cmd *cobra.Command, opts AppOptions) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewApp(cmd.Context(), cfg, opts, logger.Logger)
}
