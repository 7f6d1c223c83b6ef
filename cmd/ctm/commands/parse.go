package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/parser"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// ParseCmd shows how an input string splits into components
var ParseCmd = &cobra.Command{
	Use:   "parse <input>",
	Short: "Parse a measurement into its components",
	Long: `Parse a measurement and show each component with its scale and bias.

Examples:
  ctm parse 1p6          # 1 pica, 6 points
  ctm parse "5ft 6" -t length`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

var (
	parseTable string
	parseJSON  bool
)

func init() {
	ParseCmd.Flags().StringVarP(&parseTable, "table", "t", tables.TypographyName, "Unit table to use")
	ParseCmd.Flags().BoolVarP(&parseJSON, "json", "j", false, "Output as JSON")
}

type parseOutput struct {
	Table  string  `json:"table"`
	Input  string  `json:"input"`
	InBase float64 `json:"in_base"`
	*parser.Result
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	return runParse(cmd.OutOrStdout(), app, parseTable, args[0], wantJSON(parseJSON, app.Config.Display.Format))
}

func runParse(w io.Writer, app *App, tableName, input string, asJSON bool) error {
	t, err := app.Registry.Get(tableName)
	if err != nil {
		return err
	}
	res, err := app.Registry.Parse(tableName, input)
	if err != nil {
		return err
	}
	round := app.Config.Display.Round

	if asJSON {
		return printJSON(w, parseOutput{
			Table:  tableName,
			Input:  input,
			InBase: res.InBase(),
			Result: res,
		})
	}

	rows := [][]string{componentRow("main", res.Main, t.Precision(), round)}
	if res.Sub != nil {
		rows = append(rows, componentRow("minor", *res.Sub, t.Precision(), round))
	}
	if err := renderTable(w, []string{"Part", "Value", "Unit", "Scale", "Bias"}, rows); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", formatValue(res.InBase(), t.Precision(), round), res.Base)
	return err
}

func componentRow(part string, c parser.Component, precision int, round bool) []string {
	return []string{
		part,
		formatValue(c.Value, precision, round),
		c.Unit,
		formatValue(c.Scale, precision, round),
		formatValue(c.Bias, precision, round),
	}
}
