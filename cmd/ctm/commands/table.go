package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
)

// TableCmd groups the table management subcommands
var TableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage unit tables",
	Long: `List, inspect, store and remove unit tables.

Tables come from three places, later ones replacing earlier ones:
  builtin   tables compiled into ctm
  store     tables saved with "ctm table add"
  files     tables.paths and --tables`,
}

var tableLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()
		return runTableList(cmd.OutOrStdout(), app, wantJSON(tableJSON, app.Config.Display.Format))
	},
}

var tableShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a table as a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := tablefile.ParseFormat(tableFormat)
		if err != nil {
			return err
		}
		app, err := openApp(cmd, AppOptions{})
		if err != nil {
			return err
		}
		defer app.Close()
		return runTableShow(cmd.OutOrStdout(), app, args[0], format)
	},
}

var tableAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Validate a table file and save it to the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, AppOptions{RequireStore: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return runTableAdd(cmd.Context(), cmd.OutOrStdout(), app, args[0], tableForce)
	},
}

var tableRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a table from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, AppOptions{RequireStore: true})
		if err != nil {
			return err
		}
		defer app.Close()
		return runTableRemove(cmd.Context(), cmd.OutOrStdout(), app, args[0])
	},
}

var (
	tableJSON   bool
	tableFormat string
	tableForce  bool
)

func init() {
	tableLsCmd.Flags().BoolVarP(&tableJSON, "json", "j", false, "Output as JSON")
	tableShowCmd.Flags().StringVarP(&tableFormat, "format", "f", "toml", "Document format (toml, yaml, json)")
	tableAddCmd.Flags().BoolVar(&tableForce, "force", false, "Replace a stored table with the same name")

	TableCmd.AddCommand(tableLsCmd, tableShowCmd, tableAddCmd, tableRmCmd)
}

type tableSummary struct {
	Name      string `json:"name"`
	Base      string `json:"base"`
	Units     int    `json:"units"`
	Precision int    `json:"precision"`
	Source    string `json:"source"`
}

func runTableList(w io.Writer, app *App, asJSON bool) error {
	var summaries []tableSummary
	for _, name := range app.Registry.List() {
		t, err := app.Registry.Get(name)
		if err != nil {
			// Removed concurrently
			continue
		}
		summaries = append(summaries, tableSummary{
			Name:      name,
			Base:      t.Base(),
			Units:     t.Len(),
			Precision: t.Precision(),
			Source:    app.Sources[name],
		})
	}

	if asJSON {
		return printJSON(w, summaries)
	}
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No tables registered")
		return err
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name, s.Base, strconv.Itoa(s.Units), strconv.Itoa(s.Precision), s.Source,
		})
	}
	return renderTable(w, []string{"Name", "Base", "Units", "Precision", "Source"}, rows)
}

func runTableShow(w io.Writer, app *App, name string, format tablefile.Format) error {
	t, err := app.Registry.Get(name)
	if err != nil {
		return err
	}
	doc := tablefile.FromTable(t)
	for _, d := range app.Docs {
		if d.Name == name {
			doc = d
		}
	}

	data, err := tablefile.Encode(doc, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func runTableAdd(ctx context.Context, w io.Writer, app *App, path string, force bool) error {
	doc, err := tablefile.LoadFile(path)
	if err != nil {
		return err
	}
	if app.Store == nil {
		return errors.New("table store is not available")
	}

	stored, err := app.Store.Save(ctx, doc, force)
	if err != nil {
		return err
	}
	if err := doc.Register(app.Registry, true); err != nil {
		return err
	}
	app.Sources[doc.Name] = SourceStore

	pterm.Success.WithWriter(w).Printfln("Stored table %q (revision %s)", stored.Name, stored.Revision)
	return nil
}

func runTableRemove(ctx context.Context, w io.Writer, app *App, name string) error {
	if app.Store == nil {
		return errors.New("table store is not available")
	}
	if err := app.Store.Delete(ctx, name); err != nil {
		return err
	}
	if app.Sources[name] == SourceStore {
		if err := app.Registry.Unregister(name); err != nil {
			return err
		}
		delete(app.Sources, name)
	}

	pterm.Success.WithWriter(w).Printfln("Removed table %q", name)
	return nil
}
