// Package aggregate groups trial records by automaton size and derives the
// averaged timing series that get reported and plotted.
//
// An Aggregator is owned by a single caller and is not safe for concurrent
// use. Records are folded in one at a time with Add; Series can be called at
// any point and reflects what has been added so far.
package aggregate

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/signalnine/rabinstat/internal/trial"
)

// NoData is the legacy sentinel written in place of an undefined average.
const NoData = -1.0

// Mean is an average that may be undefined because its denominator is zero.
type Mean struct {
	Value float64
	Valid bool
}

// Sentinel returns the value, or NoData when the mean is undefined.
func (m Mean) Sentinel() float64 {
	if !m.Valid {
		return NoData
	}
	return m.Value
}

// plottable is the filter applied when building series: undefined means are
// dropped, and so is any mean that is not strictly positive.
func (m Mean) plottable() bool {
	return m.Sentinel() > 0
}

// mean divides sum by n. A zero count or a sum that overflowed to infinity
// gives an undefined mean.
func mean(sum float64, n int) Mean {
	if n == 0 {
		return Mean{}
	}
	v := sum / float64(n)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Mean{}
	}
	return Mean{Value: v, Valid: true}
}

// Averages holds the three per-group means.
type Averages struct {
	Nonempty Mean
	Empty    Mean
	Combined Mean
}

// Group accumulates the trials sharing one states value. Params is a
// snapshot of the first record seen for the key and is never updated.
type Group struct {
	Params        trial.Params
	NonemptyCount int
	NonemptyTime  float64
	EmptyCount    int
	EmptyTime     float64
}

// States is the group key.
func (g *Group) States() int { return g.Params.States }

// Count is the number of trials in the group.
func (g *Group) Count() int { return g.NonemptyCount + g.EmptyCount }

func (g *Group) add(r trial.Record) {
	if r.Nonempty {
		g.NonemptyTime += r.Elapsed
		g.NonemptyCount++
	} else {
		g.EmptyTime += r.Elapsed
		g.EmptyCount++
	}
}

// Averages computes the group's means. The combined mean is only defined
// when the group holds both empty and nonempty trials; the nonempty check is
// nested under the empty one.
func (g *Group) Averages() Averages {
	var a Averages
	if g.NonemptyCount > 0 {
		a.Nonempty = mean(g.NonemptyTime, g.NonemptyCount)
	}
	if g.EmptyCount > 0 {
		a.Empty = mean(g.EmptyTime, g.EmptyCount)
		if g.NonemptyCount > 0 {
			a.Combined = mean(g.NonemptyTime+g.EmptyTime, g.NonemptyCount+g.EmptyCount)
		}
	}
	return a
}

// Point is one chart coordinate.
type Point struct {
	States  int     `json:"states"`
	Seconds float64 `json:"seconds"`
}

// Series is ordered by ascending States.
type Series []Point

// Values returns the y coordinates in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Seconds
	}
	return out
}

// Set bundles the three derived series.
type Set struct {
	Nonempty Series `json:"nonempty"`
	Empty    Series `json:"empty"`
	Combined Series `json:"combined"`
}

// IsEmpty reports whether no series has any point.
func (s Set) IsEmpty() bool {
	return len(s.Nonempty) == 0 && len(s.Empty) == 0 && len(s.Combined) == 0
}

// Source yields records until io.EOF.
type Source interface {
	Next() (trial.Record, error)
}

// Aggregator maps states to its group.
type Aggregator struct {
	groups  map[int]*Group
	records int
}

func New() *Aggregator {
	return &Aggregator{groups: make(map[int]*Group)}
}

// Add folds one record into its group, creating the group on first sight.
func (a *Aggregator) Add(r trial.Record) {
	g, ok := a.groups[r.States]
	if !ok {
		g = &Group{Params: r.Params}
		a.groups[r.States] = g
	}
	g.add(r)
	a.records++
}

// Consume drains src into the aggregator and returns how many records were
// added. Records read before an error stay accumulated.
func (a *Aggregator) Consume(src Source) (int, error) {
	n := 0
	for {
		r, err := src.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("after %d records: %w", n, err)
		}
		a.Add(r)
		n++
	}
}

// Len is the number of distinct states values seen.
func (a *Aggregator) Len() int { return len(a.groups) }

// Records is the number of records added.
func (a *Aggregator) Records() int { return a.records }

// Lookup returns a copy of the group for states.
func (a *Aggregator) Lookup(states int) (Group, bool) {
	g, ok := a.groups[states]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Groups returns copies of every group in ascending states order.
func (a *Aggregator) Groups() []Group {
	out := make([]Group, 0, len(a.groups))
	for _, k := range a.keys() {
		out = append(out, *a.groups[k])
	}
	return out
}

func (a *Aggregator) keys() []int {
	keys := make([]int, 0, len(a.groups))
	for k := range a.groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Series derives the three averaged series. It does not modify the
// aggregator and returns fresh slices on every call.
func (a *Aggregator) Series() Set {
	set := Set{
		Nonempty: Series{},
		Empty:    Series{},
		Combined: Series{},
	}
	for _, k := range a.keys() {
		avg := a.groups[k].Averages()
		if avg.Nonempty.plottable() {
			set.Nonempty = append(set.Nonempty, Point{States: k, Seconds: avg.Nonempty.Value})
		}
		if avg.Empty.plottable() {
			set.Empty = append(set.Empty, Point{States: k, Seconds: avg.Empty.Value})
		}
		if avg.Combined.plottable() {
			set.Combined = append(set.Combined, Point{States: k, Seconds: avg.Combined.Value})
		}
	}
	return set
}
