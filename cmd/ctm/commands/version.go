package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/version"
)

// VersionCmd prints build information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd.OutOrStdout(), version.Get(), versionJSON)
	},
}

var versionJSON bool

func init() {
	VersionCmd.Flags().BoolVarP(&versionJSON, "json", "j", false, "Output as JSON")
}

func runVersion(w io.Writer, info version.Info, asJSON bool) error {
	if asJSON {
		return printJSON(w, info)
	}
	if _, err := fmt.Fprintln(w, info.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s\n", info.GoVersion, info.Platform)
	return err
}
