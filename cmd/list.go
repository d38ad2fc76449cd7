package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/signalnine/rabinstat/internal/result"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			metas, err := listRuns(filepath.Join(cfg.Results.Dir, "runs"))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tINPUT\tRECORDS\tGROUPS\tCHART")
			for _, m := range metas {
				chartName := m.Chart
				if chartName == "" {
					chartName = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					m.dir, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Input, m.Records, m.Groups, chartName)
			}
			return tw.Flush()
		},
	}
}

type storedRun struct {
	*result.RunMeta
	dir string
}

// listRuns reads meta.json from every run directory, oldest first. Runs
// without readable metadata are skipped.
func listRuns(runsDir string) ([]storedRun, error) {
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading runs dir: %w", err)
	}
	var runs []storedRun
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := result.ReadRunMeta(filepath.Join(runsDir, e.Name(), result.MetaFile))
		if err != nil {
			log.Printf("skipping %s: %v", e.Name(), err)
			continue
		}
		runs = append(runs, storedRun{RunMeta: meta, dir: e.Name()})
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
	return runs, nil
}
