package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `             _              _
  ___  _ __ __| | ___ _ __ _ __ (_)_ __   ___
 / _ \| '__/ _` + "`" + ` |/ _ \ '__| '_ \| | '_ \ / _ \
| (_) | | | (_| |  __/ |  | |_) | | |_) |  __/
 \___/|_|  \__,_|\___|_|  | .__/|_| .__/ \___|
                          |_|     |_|`

var rootCmd = &cobra.Command{
	Use:   "orderpipe",
	Short: "Order document ETL for PostgreSQL",
	Long: asciiLogo + `

orderpipe reads per-order JSON documents from a directory, normalizes them
into relational rows (customers, merchants, drivers, addresses, orders,
payments, tracking, items, actions, notes, metadata), and loads everything
into PostgreSQL in a single all-or-nothing transaction.

Shared entities are deduplicated within a run, addresses by content hash,
and a re-run of the same directory upserts instead of duplicating.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - Extraction failed (missing or malformed documents)
  13 - Transformation failed (dates, types, or key resolution)
  14 - Load failed (transaction rolled back)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for orderpipe")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
