package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/am"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// ConvertCmd converts one measurement
var ConvertCmd = &cobra.Command{
	Use:   "convert <input> <unit>",
	Short: "Convert a measurement to another unit",
	Long: `Convert a measurement such as "1p6" or "10cm" to another unit of the same table.

Examples:
  ctm convert 1c4 pt                  # Ciceros and didots to points
  ctm convert 2in pt                  # 144
  ctm convert 5ft6 cm -t length       # Feet and inches to centimeters
  ctm convert 100degC F -t temperature`,
	Args: cobra.ExactArgs(2),
	RunE: runConvertCmd,
}

var (
	convertTable string
	convertRaw   bool
	convertJSON  bool
)

func init() {
	ConvertCmd.Flags().StringVarP(&convertTable, "table", "t", tables.TypographyName, "Unit table to use")
	ConvertCmd.Flags().BoolVar(&convertRaw, "raw", false, "Do not round to the table precision")
	ConvertCmd.Flags().BoolVarP(&convertJSON, "json", "j", false, "Output as JSON")
}

type convertOptions struct {
	Table string
	Input string
	Unit  string
	Round bool
	JSON  bool
}

type convertOutput struct {
	Table     string  `json:"table"`
	Input     string  `json:"input"`
	Unit      string  `json:"unit"`
	Value     float64 `json:"value"`
	Precision int     `json:"precision"`
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	return runConvert(cmd.OutOrStdout(), app, convertOptions{
		Table: convertTable,
		Input: args[0],
		Unit:  args[1],
		Round: displayRound(app.Config, convertRaw),
		JSON:  wantJSON(convertJSON, app.Config.Display.Format),
	})
}

func runConvert(w io.Writer, app *App, opts convertOptions) error {
	t, err := app.Registry.Get(opts.Table)
	if err != nil {
		return err
	}
	got, err := app.Registry.Convert(opts.Table, opts.Input, opts.Unit)
	if err != nil {
		return err
	}

	value := got.Value
	if opts.Round {
		value = got.Round(t.Precision())
	}

	if opts.JSON {
		return printJSON(w, convertOutput{
			Table:     opts.Table,
			Input:     opts.Input,
			Unit:      got.Unit,
			Value:     value,
			Precision: t.Precision(),
		})
	}

	line := formatValue(value, t.Precision(), false) + " " + got.Unit
	if u, ok := t.Lookup(got.Unit); ok && u.Term != nil {
		line += " (" + u.Term.For(value) + ")"
	}
	_, err = fmt.Fprintln(w, line)
	return err
}

// displayRound is display.round unless --raw was given
func displayRound(cfg *am.Config, raw bool) bool {
	return cfg.Display.Round && !raw
}
