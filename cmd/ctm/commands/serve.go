package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/server"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
)

// ServeCmd runs the HTTP API
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Long: `Start the JSON HTTP API on localhost.

With tables.watch enabled, edits to the files in tables.paths are picked
up without a restart. A file that fails to load keeps its previous table.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

var (
	servePort int
	serveHost string
)

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default: server.port)")
	ServeCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to bind")
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := openApp(cmd, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	port := app.Config.ServerPort()
	if servePort != 0 {
		port = servePort
	}
	return runServe(ctx, app, fmt.Sprintf("%s:%d", serveHost, port), logger.Named("serve"))
}

func runServe(ctx context.Context, app *App, addr string, l *zap.SugaredLogger) error {
	l = logger.OrNop(l)

	if app.Config.Tables.Watch {
		w, err := tablefile.NewWatcher(app.Registry, app.Config.Tables.Paths, l.Named("watch"))
		if err != nil {
			return err
		}
		defer w.Close()

		for _, doc := range app.Docs {
			w.Track(doc)
		}
		w.OnReload(func(path string, doc *tablefile.Document, err error) {
			if err != nil {
				l.Warnw("Table reload failed, keeping previous table",
					logger.FieldPath, path,
					logger.FieldError, err)
				return
			}
			if doc != nil {
				l.Infow("Table reloaded", logger.FieldPath, path, logger.FieldTable, doc.Name)
			}
		})
		w.Start(ctx)
	}

	srv := server.New(app.Registry, server.Options{
		Store:     app.Store,
		RateLimit: app.Config.Server.RateLimit,
		Burst:     app.Config.Server.Burst,
		Logger:    l.Named("http"),
	})
	return srv.ListenAndServe(ctx, addr)
}
