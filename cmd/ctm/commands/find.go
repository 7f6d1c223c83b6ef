package commands

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/table"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// FindCmd looks up a unit definition
var FindCmd = &cobra.Command{
	Use:   "find <unit>",
	Short: "Show a unit definition",
	Long: `Show a unit as the table defines it. Aliases resolve to the unit they mirror.

Examples:
  ctm find pt
  ctm find F -t temperature`,
	Args: cobra.ExactArgs(1),
	RunE: runFindCmd,
}

var (
	findTable string
	findJSON  bool
)

func init() {
	FindCmd.Flags().StringVarP(&findTable, "table", "t", tables.TypographyName, "Unit table to use")
	FindCmd.Flags().BoolVarP(&findJSON, "json", "j", false, "Output as JSON")
}

type unitOutput struct {
	Key      string  `json:"key"`
	Base     bool    `json:"base"`
	Scale    float64 `json:"scale"`
	Bias     float64 `json:"bias"`
	Minor    string  `json:"minor,omitempty"`
	Singular string  `json:"singular,omitempty"`
	Plural   string  `json:"plural,omitempty"`
}

func newUnitOutput(u table.Unit) unitOutput {
	out := unitOutput{
		Key:   u.Key,
		Base:  u.IsBase,
		Scale: u.Scale,
		Bias:  u.Bias,
		Minor: u.Minor,
	}
	if u.Term != nil {
		out.Singular = u.Term.Singular()
		out.Plural = u.Term.Plural()
	}
	return out
}

func runFindCmd(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	return runFind(cmd.OutOrStdout(), app, findTable, args[0], wantJSON(findJSON, app.Config.Display.Format))
}

func runFind(w io.Writer, app *App, tableName, key string, asJSON bool) error {
	u, err := app.Registry.Find(tableName, key)
	if err != nil {
		return err
	}
	out := newUnitOutput(u)
	if asJSON {
		return printJSON(w, out)
	}

	return renderTable(w, []string{"Key", "Base", "Scale", "Bias", "Minor", "Term"}, [][]string{{
		out.Key,
		strconv.FormatBool(out.Base),
		strconv.FormatFloat(out.Scale, 'g', -1, 64),
		strconv.FormatFloat(out.Bias, 'g', -1, 64),
		out.Minor,
		termLabel(out.Singular, out.Plural),
	}})
}

func termLabel(singular, plural string) string {
	if singular == plural {
		return singular
	}
	return singular + "/" + plural
}
