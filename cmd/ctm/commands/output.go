package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/smuchow1962/conversion-table-manager/am"
	"github.com/smuchow1962/conversion-table-manager/internal/util"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable writes rows under header as a pterm table
func renderTable(w io.Writer, header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// formatValue prints v, rounded to precision decimals when round is set,
// without trailing zeros
func formatValue(v float64, precision int, round bool) string {
	if round {
		v = util.RoundTo(v, precision)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// wantJSON resolves --json against display.format
func wantJSON(flag bool, format string) bool {
	return flag || format == am.FormatJSON
}
