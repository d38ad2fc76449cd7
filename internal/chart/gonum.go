package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // registers png
	_ "gonum.org/v1/plot/vg/vgsvg" // registers svg

	"github.com/signalnine/rabinstat/internal/aggregate"
)

type gonumRenderer struct {
	opts Options
}

func (r *gonumRenderer) Render(w io.Writer, set aggregate.Set) error {
	lines := r.opts.lines(set)
	if len(lines) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = r.opts.Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Add(plotter.NewGrid())

	for _, l := range lines {
		pts := make(plotter.XYs, len(l.series))
		for i, pt := range l.series {
			pts[i].X = float64(pt.States)
			pts[i].Y = pt.Seconds
		}
		ln, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("building %s line: %w", l.style.Label, err)
		}
		ln.Color = l.style.Color
		ln.Width = vg.Points(1.5)
		p.Add(ln)
		p.Legend.Add(l.style.Label, ln)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	wt, err := p.WriterTo(vg.Length(r.opts.WidthIn)*vg.Inch, vg.Length(r.opts.HeightIn)*vg.Inch, r.opts.Format)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
