package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/convert"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/result"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// BatchCmd converts a list of measurements read from a file or stdin
var BatchCmd = &cobra.Command{
	Use:   "batch [file|-]",
	Short: "Convert many measurements at once",
	Long: `Convert one measurement per line. Each line is "<input> [unit]"; the unit
falls back to --unit. Quote inputs containing spaces. Blank lines and lines
starting with # are skipped.

Examples:
  ctm batch sizes.txt --unit pt
  printf '1p6\n"2 in" mm\n' | ctm batch --unit pt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatchCmd,
}

var (
	batchTable string
	batchUnit  string
	batchRaw   bool
	batchJSON  bool
)

func init() {
	BatchCmd.Flags().StringVarP(&batchTable, "table", "t", tables.TypographyName, "Unit table to use")
	BatchCmd.Flags().StringVarP(&batchUnit, "unit", "u", "", "Target unit for lines that do not name one")
	BatchCmd.Flags().BoolVar(&batchRaw, "raw", false, "Do not round to the table precision")
	BatchCmd.Flags().BoolVarP(&batchJSON, "json", "j", false, "Output as JSON")
}

// batchLine is one parsed input line
type batchLine struct {
	Line  int    `json:"line"`
	Input string `json:"input"`
	Unit  string `json:"unit"`
}

type batchEntry struct {
	batchLine
	Result result.Result[convert.Conversion] `json:"result"`
}

type batchOptions struct {
	Table string
	Unit  string
	Round bool
	JSON  bool
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", args[0])
		}
		defer f.Close()
		in = f
	}

	app, err := openApp(cmd, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	return runBatch(in, cmd.OutOrStdout(), app, batchOptions{
		Table: batchTable,
		Unit:  batchUnit,
		Round: displayRound(app.Config, batchRaw),
		JSON:  wantJSON(batchJSON, app.Config.Display.Format),
	})
}

// readBatch splits r into input lines. The unit is optional per line and
// defaults to defaultUnit.
func readBatch(r io.Reader, defaultUnit string) ([]batchLine, error) {
	var lines []batchLine
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		words, err := shellquote.Split(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		line := batchLine{Line: n, Unit: defaultUnit}
		switch len(words) {
		case 1:
			line.Input = words[0]
		case 2:
			line.Input, line.Unit = words[0], words[1]
		default:
			return nil, errors.WithHint(
				errors.Newf("line %d: expected <input> [unit], got %d fields", n, len(words)),
				"quote inputs that contain spaces",
			)
		}
		if line.Unit == "" {
			return nil, errors.WithHint(
				errors.Newf("line %d: no target unit", n),
				"name a unit on the line or pass --unit",
			)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read batch input")
	}
	return lines, nil
}

func runBatch(r io.Reader, w io.Writer, app *App, opts batchOptions) error {
	lines, err := readBatch(r, opts.Unit)
	if err != nil {
		return err
	}
	t, err := app.Registry.Get(opts.Table)
	if err != nil {
		return err
	}

	entries := make([]batchEntry, len(lines))
	results := make([]result.Result[convert.Conversion], len(lines))
	for i, line := range lines {
		c, err := convert.Convert(line.Input, line.Unit, t)
		if err == nil && opts.Round {
			c.Value = c.Round(t.Precision())
		}
		results[i] = result.Of(c, err)
		entries[i] = batchEntry{batchLine: line, Result: results[i]}
	}

	if opts.JSON {
		if err := printJSON(w, entries); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			row := []string{fmt.Sprint(e.Line), e.Input, "", e.Unit, ""}
			if c, err := e.Result.Unwrap(); err != nil {
				row[4] = err.Error()
			} else {
				row[2] = formatValue(c.Value, t.Precision(), false)
			}
			rows = append(rows, row)
		}
		if err := renderTable(w, []string{"Line", "Input", "Value", "Unit", "Error"}, rows); err != nil {
			return err
		}
	}

	_, errs := result.Partition(results)
	if len(errs) > 0 {
		return errors.Newf("%d of %d inputs failed", len(errs), len(results))
	}
	return nil
}
