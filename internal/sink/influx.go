package sink

import (
	"context"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/signalnine/rabinstat/internal/config"
)

// Influx writes one point per series coordinate.
type Influx struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	measurement string
}

func NewInflux(cfg config.InfluxDB) *Influx {
	options := influxdb2.DefaultOptions()
	options.SetRetryInterval(5000)
	options.SetMaxRetries(5)
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)
	return &Influx{
		client:      client,
		writeAPI:    client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		measurement: cfg.Measurement,
	}
}

func (s *Influx) Name() string { return "influxdb" }

func (s *Influx) Write(ctx context.Context, p *Payload) error {
	pts := influxPoints(s.measurement, p)
	if len(pts) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, pts...)
}

func (s *Influx) Close() error {
	s.client.Close()
	return nil
}

// influxPoints tags each point with its run, series and states value so
// points of one run never overwrite each other.
func influxPoints(measurement string, p *Payload) []*write.Point {
	var out []*write.Point
	for _, pt := range points(p.Summary.Series) {
		out = append(out, influxdb2.NewPoint(
			measurement,
			map[string]string{
				"run_id": p.RunID,
				"series": pt.Series,
				"states": strconv.Itoa(pt.States),
			},
			map[string]interface{}{
				"seconds": pt.Seconds,
			},
			p.CreatedAt,
		))
	}
	return out
}
