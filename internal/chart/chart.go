// Package chart draws the averaged timing series as a line chart of
// seconds against states.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/config"
)

const (
	XLabel = "states"
	YLabel = "seconds"
)

var ErrNoData = errors.New("no data to plot")

// Style is the legend label and stroke color of one line.
type Style struct {
	Label string
	Color color.Color
}

type Options struct {
	Backend  string
	Format   string
	Title    string
	WidthIn  float64
	HeightIn float64
	Nonempty Style
	Combined Style
	Empty    Style
}

// Renderer writes a chart of the set to w.
type Renderer interface {
	Render(w io.Writer, set aggregate.Set) error
}

// FromConfig converts the chart section of the config file.
func FromConfig(c config.Chart) Options {
	return Options{
		Backend:  c.Backend,
		Format:   c.Format,
		Title:    c.Title,
		WidthIn:  c.WidthIn,
		HeightIn: c.HeightIn,
		Nonempty: Style{Label: c.Nonempty.Label, Color: hexColor(c.Nonempty.Color)},
		Combined: Style{Label: c.Combined.Label, Color: hexColor(c.Combined.Color)},
		Empty:    Style{Label: c.Empty.Label, Color: hexColor(c.Empty.Color)},
	}
}

// DefaultOptions matches the built-in config defaults.
func DefaultOptions() Options {
	return FromConfig(config.Default().Chart)
}

func New(opts Options) (Renderer, error) {
	if opts.Format != "png" && opts.Format != "svg" {
		return nil, fmt.Errorf("unsupported chart format %q", opts.Format)
	}
	switch opts.Backend {
	case "gonum":
		return &gonumRenderer{opts: opts}, nil
	case "gochart":
		return &goChartRenderer{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown chart backend %q", opts.Backend)
	}
}

// ContentType is the MIME type for a chart format.
func ContentType(format string) string {
	if format == "svg" {
		return "image/svg+xml"
	}
	return "image/png"
}

type line struct {
	style  Style
	series aggregate.Series
}

// lines returns the non-empty series in drawing order: nonempty, combined,
// empty.
func (o Options) lines(set aggregate.Set) []line {
	all := []line{
		{o.Nonempty, set.Nonempty},
		{o.Combined, set.Combined},
		{o.Empty, set.Empty},
	}
	out := all[:0]
	for _, l := range all {
		if len(l.series) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// hexColor parses #rrggbb; anything else draws black.
func hexColor(hex string) drawing.Color {
	if !config.ValidColor(hex) {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func toDrawing(c color.Color) drawing.Color {
	if c == nil {
		return drawing.ColorBlack
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
