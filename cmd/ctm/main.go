package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smuchow1962/conversion-table-manager/cmd/ctm/commands"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/parser"
)

var rootCmd = &cobra.Command{
	Use:   "ctm",
	Short: "ctm - Conversion table manager",
	Long: `ctm - Parse and convert measurements against unit tables.

A unit table declares one base unit and how every other unit scales to it.
Measurements may combine a unit with its minor unit, as in "1p6" (one pica,
six points) or "5ft6" (five feet, six inches).

Available commands:
  convert - Convert a measurement to another unit
  parse   - Show how a measurement is read
  find    - Show a unit definition
  batch   - Convert many measurements at once
  table   - Manage unit tables
  am      - Inspect configuration ("I am")
  serve   - Serve conversions over HTTP

Examples:
  ctm convert 1p6 pt              # 18
  ctm convert 5ft6 in -t length   # 66
  ctm table ls                    # List registered tables
  ctm serve                       # Start the HTTP API`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commands.LoadConfig()
		if err != nil {
			return err
		}

		verbosity, _ := cmd.Flags().GetCount("verbose")
		if verbosity == 0 {
			verbosity = cfg.Log.Verbosity
		}
		if err := logger.InitializeWithVerbosity(cfg.Log.JSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	commands.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.FindCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.TableCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, parser.Format(err, parser.ErrorContextTerminal))
		os.Exit(1)
	}
}
