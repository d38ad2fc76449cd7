// Package sink exports a run's derived series to external stores.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/config"
	"github.com/signalnine/rabinstat/internal/pool"
	"github.com/signalnine/rabinstat/internal/result"
)

// Payload is what every sink receives. Chart is optional rendered output.
type Payload struct {
	RunID     string          `json:"run_id"`
	Input     string          `json:"input"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   *result.Summary `json:"summary"`
	Chart     []byte          `json:"-"`
	ChartExt  string          `json:"-"`
}

type Sink interface {
	Name() string
	Write(ctx context.Context, p *Payload) error
	Close() error
}

// point is one series coordinate tagged with its series name.
type point struct {
	Series string
	aggregate.Point
}

// points flattens the three series in reporting order.
func points(set aggregate.Set) []point {
	var out []point
	for _, s := range []struct {
		name   string
		series aggregate.Series
	}{
		{"nonempty", set.Nonempty},
		{"combined", set.Combined},
		{"empty", set.Empty},
	} {
		for _, p := range s.series {
			out = append(out, point{Series: s.name, Point: p})
		}
	}
	return out
}

// FromConfig connects every enabled sink. If one fails, the ones already
// opened are closed.
func FromConfig(ctx context.Context, cfg config.Sinks) ([]Sink, error) {
	var sinks []Sink
	fail := func(err error) ([]Sink, error) {
		Close(sinks)
		return nil, err
	}
	if cfg.InfluxDB.Enabled {
		sinks = append(sinks, NewInflux(cfg.InfluxDB))
	}
	if cfg.ClickHouse.Enabled {
		s, err := NewClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.NATS.Enabled {
		s, err := NewNATS(cfg.NATS)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if cfg.S3.Enabled {
		s, err := NewS3(ctx, cfg.S3)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// Export writes p to every sink, at most parallel at a time. A failing sink
// does not stop the others; all errors are returned.
func Export(ctx context.Context, sinks []Sink, p *Payload, parallel int) []error {
	jobs := make([]pool.Job, len(sinks))
	for i, s := range sinks {
		s := s
		jobs[i] = func(ctx context.Context) error {
			if err := s.Write(ctx, p); err != nil {
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		}
	}
	return pool.Run(ctx, parallel, jobs)
}

func Close(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
