package chart_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/chart"
	"github.com/signalnine/rabinstat/internal/config"
)

var sampleSet = aggregate.Set{
	Nonempty: aggregate.Series{{States: 3, Seconds: 2}, {States: 5, Seconds: 4}, {States: 8, Seconds: 9.5}},
	Empty:    aggregate.Series{{States: 3, Seconds: 2}, {States: 8, Seconds: 3}},
	Combined: aggregate.Series{{States: 3, Seconds: 2}, {States: 8, Seconds: 6}},
}

func TestRenderBackends(t *testing.T) {
	for _, backend := range config.Backends {
		for _, format := range config.Formats {
			t.Run(backend+"/"+format, func(t *testing.T) {
				opts := chart.DefaultOptions()
				opts.Backend = backend
				opts.Format = format
				opts.Title = "test"
				r, err := chart.New(opts)
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				var buf bytes.Buffer
				if err := r.Render(&buf, sampleSet); err != nil {
					t.Fatalf("Render: %v", err)
				}
				switch format {
				case "png":
					if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
						t.Errorf("output is not a PNG (%d bytes)", buf.Len())
					}
				case "svg":
					if !bytes.Contains(buf.Bytes(), []byte("<svg")) {
						t.Errorf("output is not an SVG (%d bytes)", buf.Len())
					}
				}
			})
		}
	}
}

func TestRenderSinglePoint(t *testing.T) {
	set := aggregate.Set{Nonempty: aggregate.Series{{States: 4, Seconds: 1.5}}}
	for _, backend := range config.Backends {
		t.Run(backend, func(t *testing.T) {
			opts := chart.DefaultOptions()
			opts.Backend = backend
			r, err := chart.New(opts)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, set); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("expected output")
			}
		})
	}
}

func TestRenderNoData(t *testing.T) {
	for _, backend := range config.Backends {
		opts := chart.DefaultOptions()
		opts.Backend = backend
		r, err := chart.New(opts)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		err = r.Render(&bytes.Buffer{}, aggregate.Set{})
		if !errors.Is(err, chart.ErrNoData) {
			t.Errorf("%s: got %v, want ErrNoData", backend, err)
		}
	}
}

func TestNewRejectsUnknown(t *testing.T) {
	opts := chart.DefaultOptions()
	opts.Backend = "matplotlib"
	if _, err := chart.New(opts); err == nil {
		t.Error("expected error for unknown backend")
	}
	opts = chart.DefaultOptions()
	opts.Format = "gif"
	if _, err := chart.New(opts); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDefaultStyles(t *testing.T) {
	opts := chart.DefaultOptions()
	tests := []struct {
		name    string
		style   chart.Style
		label   string
		r, g, b uint32
	}{
		{"nonempty", opts.Nonempty, "nonempty", 0x00, 0x80, 0x00},
		{"combined", opts.Combined, "average", 0xff, 0xa5, 0x00},
		{"empty", opts.Empty, "empty", 0xff, 0x00, 0x00},
	}
	for _, tt := range tests {
		if tt.style.Label != tt.label {
			t.Errorf("%s label: got %q, want %q", tt.name, tt.style.Label, tt.label)
		}
		r, g, b, _ := tt.style.Color.RGBA()
		if r>>8 != tt.r || g>>8 != tt.g || b>>8 != tt.b {
			t.Errorf("%s color: got %02x%02x%02x", tt.name, r>>8, g>>8, b>>8)
		}
	}
}

func TestContentType(t *testing.T) {
	if chart.ContentType("svg") != "image/svg+xml" {
		t.Error("svg content type")
	}
	if chart.ContentType("png") != "image/png" {
		t.Error("png content type")
	}
}
