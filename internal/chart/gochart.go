package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/signalnine/rabinstat/internal/aggregate"
)

type goChartRenderer struct {
	opts Options
}

func (r *goChartRenderer) Render(w io.Writer, set aggregate.Set) error {
	lines := r.opts.lines(set)
	if len(lines) == 0 {
		return ErrNoData
	}

	var series []gochart.Series
	xMin, xMax := float64(lines[0].series[0].States), float64(lines[0].series[0].States)
	yMax := 0.0
	for _, l := range lines {
		xs := make([]float64, len(l.series))
		ys := make([]float64, len(l.series))
		for i, pt := range l.series {
			xs[i] = float64(pt.States)
			ys[i] = pt.Seconds
			xMin = min(xMin, xs[i])
			xMax = max(xMax, xs[i])
			yMax = max(yMax, ys[i])
		}
		stroke := toDrawing(l.style.Color)
		series = append(series, gochart.ContinuousSeries{
			Name:    l.style.Label,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: stroke,
				StrokeWidth: 2,
				DotColor:    stroke,
				DotWidth:    2,
			},
		})
	}
	// go-chart refuses a zero-width range, which a single states value
	// would produce.
	if xMin == xMax {
		xMin, xMax = xMin-1, xMax+1
	}

	graph := gochart.Chart{
		Title:  r.opts.Title,
		Width:  int(r.opts.WidthIn * gochart.DefaultDPI),
		Height: int(r.opts.HeightIn * gochart.DefaultDPI),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20},
		},
		XAxis: gochart.XAxis{
			Name:  XLabel,
			Range: &gochart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:  YLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	provider := gochart.PNG
	if r.opts.Format == "svg" {
		provider = gochart.SVG
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
