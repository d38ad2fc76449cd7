package result

import (
	"time"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/trial"
)

// RunMeta describes one stored run.
type RunMeta struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Records   int       `json:"records"`
	Groups    int       `json:"groups"`
	Backend   string    `json:"backend,omitempty"`
	Chart     string    `json:"chart,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupRow is the reported view of one states group. Averages are nil when
// the group has no trials of that kind.
type GroupRow struct {
	trial.Params
	NonemptyTrials int      `json:"nonempty_trials"`
	EmptyTrials    int      `json:"empty_trials"`
	NonemptyAvg    *float64 `json:"nonempty_avg_s"`
	EmptyAvg       *float64 `json:"empty_avg_s"`
	CombinedAvg    *float64 `json:"combined_avg_s"`
}

type Summary struct {
	Records int           `json:"records"`
	Groups  []GroupRow    `json:"groups"`
	Series  aggregate.Set `json:"series"`
}
