package cmd

import (
	"fmt"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/config"
	"github.com/signalnine/rabinstat/internal/trial"
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rabinstat",
		Short:        "Summarize and plot Rabin automaton emptiness-check timings",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "rabinstat.yaml", "config file path")
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newPlotCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newServeCmd())
	return root
}

// loadConfig falls back to defaults when the default config file is absent,
// but not when --config names a file explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadOrDefault(cfgFile, cmd.Flags().Changed("config"))
}

// aggregateFile consumes every trial in path. The first malformed row aborts.
func aggregateFile(path string) (*aggregate.Aggregator, error) {
	f, err := trial.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	agg := aggregate.New()
	if _, err := agg.Consume(f); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return agg, nil
}
