package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/signalnine/rabinstat/internal/chart"
	"github.com/signalnine/rabinstat/internal/report"
	"github.com/signalnine/rabinstat/internal/result"
	"github.com/signalnine/rabinstat/internal/sink"
	"github.com/spf13/cobra"
)

var flagParallel int

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <trials.csv>",
		Short: "Push the derived series to the sinks enabled in the config",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "max concurrent sinks (default from config)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	input := args[0]
	agg, err := aggregateFile(input)
	if err != nil {
		return err
	}

	meta := result.NewRunMeta(input)
	payload := &sink.Payload{
		RunID:     meta.ID,
		Input:     input,
		CreatedAt: meta.CreatedAt,
		Summary:   report.Build(agg),
	}
	if !payload.Summary.Series.IsEmpty() {
		opts := chart.FromConfig(cfg.Chart)
		renderer, err := chart.New(opts)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := renderer.Render(&buf, payload.Summary.Series); err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}
		payload.Chart = buf.Bytes()
		payload.ChartExt = opts.Format
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, err := sink.FromConfig(ctx, cfg.Sinks)
	if err != nil {
		return err
	}
	if len(sinks) == 0 {
		return errors.New("no sinks enabled in config")
	}
	defer func() {
		if err := sink.Close(sinks); err != nil {
			log.Printf("warning: %v", err)
		}
	}()

	parallel := cfg.Sinks.Parallel
	if flagParallel > 0 {
		parallel = flagParallel
	}
	out := cmd.OutOrStdout()
	errs := sink.Export(ctx, sinks, payload, parallel)
	for _, err := range errs {
		fmt.Fprintf(out, "  ERROR: %v\n", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d sinks failed", len(errs), len(sinks))
	}
	fmt.Fprintf(out, "Exported run %s to %d sinks\n", payload.RunID, len(sinks))
	return nil
}
