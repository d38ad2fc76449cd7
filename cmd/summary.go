package cmd

import (
	"github.com/signalnine/rabinstat/internal/report"
	"github.com/spf13/cobra"
)

var flagSummaryFormat string

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <trials.csv>",
		Short: "Aggregate trials and print the derived series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := aggregateFile(args[0])
			if err != nil {
				return err
			}
			return report.Write(report.Build(agg), flagSummaryFormat, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&flagSummaryFormat, "format", "series", "output format (table, markdown, json, series)")
	return cmd
}
