package commands

import (
	"encoding/json"
	"fmt"
	"io"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smuchow1962/conversion-table-manager/am"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
)

// AmCmd inspects the configuration
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Inspect ctm configuration",
	Long: `Show, validate and explain the effective configuration.

Sources, lowest precedence first:
  defaults, ~/.ctm/ctm.toml, nearest ctm.toml, CTM_* environment variables`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		return runAmShow(cmd.OutOrStdout(), cfg, amFormat)
	},
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and every configured table file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		return runAmValidate(cmd.OutOrStdout(), cfg)
	},
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := LoadConfig(); err != nil {
			return err
		}
		return runAmWhere(cmd.OutOrStdout(), am.GetConfigIntrospection(), amJSON)
	},
}

var (
	amFormat string
	amJSON   bool
)

func init() {
	amShowCmd.Flags().StringVarP(&amFormat, "format", "f", "toml", "Output format (toml, yaml, json)")
	amWhereCmd.Flags().BoolVarP(&amJSON, "json", "j", false, "Output as JSON")

	AmCmd.AddCommand(amShowCmd, amValidateCmd, amWhereCmd)
}

func runAmShow(w io.Writer, cfg *am.Config, format string) error {
	f, err := tablefile.ParseFormat(format)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case tablefile.FormatTOML:
		data, err = gotoml.Marshal(cfg)
	case tablefile.FormatYAML:
		data, err = yaml.Marshal(cfg)
	case tablefile.FormatJSON:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// runAmValidate loads every configured table file so schema errors show up
// before a server start
func runAmValidate(w io.Writer, cfg *am.Config) error {
	docs, err := tablefile.LoadPaths(cfg.Tables.Paths)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if _, err := doc.Build(); err != nil {
			return err
		}
	}

	pterm.Success.WithWriter(w).Printfln("Configuration valid (%d table files)", len(docs))
	return nil
}

func runAmWhere(w io.Writer, in *am.ConfigIntrospection, asJSON bool) error {
	if asJSON {
		return printJSON(w, in)
	}

	if len(in.ConfigFiles) == 0 {
		if _, err := fmt.Fprintln(w, "No config files found; using defaults"); err != nil {
			return err
		}
	}
	for _, f := range in.ConfigFiles {
		if _, err := fmt.Fprintf(w, "Config file: %s\n", f); err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(in.Settings))
	for _, s := range in.Settings {
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return renderTable(w, []string{"Key", "Value", "Source", "From"}, rows)
}
