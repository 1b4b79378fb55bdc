// Package cli handles the command-line interface logic
// using the Cobra library.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dataflow",
		Short: "dataflow - a linear extract, transform, load runner",
		Long: `dataflow extracts a batch of records from a source, validates, cleans,
enriches and normalizes each record, then loads the accepted records to a
destination. Invalid records are logged and skipped.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewRunCmd())

	return rootCmd
}
