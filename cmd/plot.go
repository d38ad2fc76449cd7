package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/chart"
	"github.com/signalnine/rabinstat/internal/report"
	"github.com/signalnine/rabinstat/internal/result"
	"github.com/spf13/cobra"
)

var (
	flagOut         string
	flagBackend     string
	flagChartFormat string
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <trials.csv>",
		Short: "Print the derived series and render them as a line chart",
		Long: "Aggregate the trials, print the nonempty, combined and empty series, and render\n" +
			"a chart. Without --out a run directory is created under results.dir holding the\n" +
			"chart, summary.json and meta.json.",
		Args: cobra.ExactArgs(1),
		RunE: runPlot,
	}
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "write the chart to this path instead of a run directory")
	cmd.Flags().StringVar(&flagBackend, "backend", "", "chart backend (gonum, gochart)")
	cmd.Flags().StringVar(&flagChartFormat, "chart-format", "", "chart format (png, svg); inferred from --out when unset")
	return cmd
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := chart.FromConfig(cfg.Chart)
	if flagBackend != "" {
		opts.Backend = flagBackend
	}
	switch {
	case flagChartFormat != "":
		opts.Format = flagChartFormat
	case flagOut != "":
		if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(flagOut)), "."); ext == "png" || ext == "svg" {
			opts.Format = ext
		}
	}
	renderer, err := chart.New(opts)
	if err != nil {
		return err
	}

	input := args[0]
	agg, err := aggregateFile(input)
	if err != nil {
		return err
	}
	summary := report.Build(agg)
	if err := report.WriteSeries(cmd.OutOrStdout(), summary.Series); err != nil {
		return err
	}

	plottable := !summary.Series.IsEmpty()
	if !plottable {
		log.Printf("warning: %s has no plottable averages, skipping chart", input)
	}

	if flagOut != "" {
		if !plottable {
			return nil
		}
		return renderFile(renderer, flagOut, summary.Series)
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	meta := result.NewRunMeta(input)
	meta.Records = summary.Records
	meta.Groups = len(summary.Groups)
	meta.Backend = opts.Backend
	if plottable {
		meta.Chart = "chart." + opts.Format
		if err := renderFile(renderer, filepath.Join(runDir, meta.Chart), summary.Series); err != nil {
			return err
		}
	}
	if err := result.WriteSummary(runDir, summary); err != nil {
		return err
	}
	if err := result.WriteRunMeta(runDir, meta); err != nil {
		return err
	}
	log.Printf("run directory: %s", runDir)
	return nil
}

func renderFile(r chart.Renderer, path string, set aggregate.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := r.Render(f, set); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("rendering chart: %w", err)
	}
	return f.Close()
}
