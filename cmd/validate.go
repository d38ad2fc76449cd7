package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <trials.csv>",
		Short: "Check that every row of a trials file parses",
		Long:  "Parse the whole file and report the first malformed row with its line number, or the record and group counts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := aggregateFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records in %d groups\n", args[0], agg.Records(), agg.Len())
			return nil
		},
	}
}
