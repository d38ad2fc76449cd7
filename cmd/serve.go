package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/signalnine/rabinstat/internal/chart"
	"github.com/signalnine/rabinstat/internal/report"
	"github.com/signalnine/rabinstat/internal/server"
	"github.com/spf13/cobra"
)

var flagListen string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <trials.csv>",
		Short: "Serve the derived series and chart over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := chart.FromConfig(cfg.Chart)
			if _, err := chart.New(opts); err != nil {
				return err
			}
			agg, err := aggregateFile(args[0])
			if err != nil {
				return err
			}
			addr := cfg.Server.ListenAddr
			if flagListen != "" {
				addr = flagListen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(report.Build(agg), opts).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&flagListen, "listen", "", "listen address (default from config)")
	return cmd
}
