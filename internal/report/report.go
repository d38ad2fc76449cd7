package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/result"
)

// Formats lists the accepted output formats.
var Formats = []string{"table", "markdown", "json", "series"}

// Build turns the aggregator's current state into a summary.
func Build(agg *aggregate.Aggregator) *result.Summary {
	groups := agg.Groups()
	rows := make([]result.GroupRow, 0, len(groups))
	for _, g := range groups {
		avg := g.Averages()
		rows = append(rows, result.GroupRow{
			Params:         g.Params,
			NonemptyTrials: g.NonemptyCount,
			EmptyTrials:    g.EmptyCount,
			NonemptyAvg:    optional(avg.Nonempty),
			EmptyAvg:       optional(avg.Empty),
			CombinedAvg:    optional(avg.Combined),
		})
	}
	return &result.Summary{
		Records: agg.Records(),
		Groups:  rows,
		Series:  agg.Series(),
	}
}

func optional(m aggregate.Mean) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

// Generate reads a stored run and writes its summary.
func Generate(runDir, format string, w io.Writer) error {
	s, err := result.ReadSummary(filepath.Join(runDir, result.SummaryFile))
	if err != nil {
		return err
	}
	return Write(s, format, w)
}

// Write renders s in the given format; unknown formats fall back to table.
func Write(s *result.Summary, format string, w io.Writer) error {
	switch format {
	case "markdown":
		return writeMarkdown(s, w)
	case "json":
		return writeJSON(s, w)
	case "series":
		return WriteSeries(w, s.Series)
	default:
		return writeTable(s, w)
	}
}

// WriteSeries prints the y values of the three series as bracketed lists,
// nonempty first, then combined, then empty, separated by blank lines.
func WriteSeries(w io.Writer, set aggregate.Set) error {
	_, err := fmt.Fprintf(w, "%s\n\n%s\n\n%s\n",
		formatList(set.Nonempty.Values()),
		formatList(set.Combined.Values()),
		formatList(set.Empty.Values()))
	return err
}

func formatList(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatFloat prints the shortest representation that round-trips, keeping
// a trailing ".0" on integral values.
func formatFloat(v float64) string {
	fmtc := byte('f')
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		fmtc = 'g'
	}
	s := strconv.FormatFloat(v, fmtc, -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

func writeTable(s *result.Summary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATES\tTRANSITIONS\tACCEPTANCES\tACC ELEMS\tNONEMPTY\tAVG NONEMPTY\tEMPTY\tAVG EMPTY\tAVG COMBINED")
	fmt.Fprintln(tw, strings.Repeat("-", 100))
	for _, g := range s.Groups {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s\t%d\t%s\t%s\n",
			g.States, g.Transitions, g.Acceptances, g.AccElems,
			g.NonemptyTrials, cell(g.NonemptyAvg), g.EmptyTrials, cell(g.EmptyAvg), cell(g.CombinedAvg))
	}
	fmt.Fprintf(tw, "\n%d records in %d groups\n", s.Records, len(s.Groups))
	return tw.Flush()
}

func writeMarkdown(s *result.Summary, w io.Writer) error {
	fmt.Fprintln(w, "| States | Transitions | Acceptances | Acc Elems | Nonempty | Avg Nonempty (s) | Empty | Avg Empty (s) | Avg Combined (s) |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|---|")
	for _, g := range s.Groups {
		fmt.Fprintf(w, "| %d | %d | %d | %d | %d | %s | %d | %s | %s |\n",
			g.States, g.Transitions, g.Acceptances, g.AccElems,
			g.NonemptyTrials, cell(g.NonemptyAvg), g.EmptyTrials, cell(g.EmptyAvg), cell(g.CombinedAvg))
	}
	return nil
}

func writeJSON(s *result.Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
