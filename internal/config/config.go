package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Chart   Chart   `yaml:"chart"`
	Results Results `yaml:"results"`
	Server  Server  `yaml:"server"`
	Sinks   Sinks   `yaml:"sinks"`
}

type Chart struct {
	Backend  string      `yaml:"backend"`
	Format   string      `yaml:"format"`
	Title    string      `yaml:"title"`
	WidthIn  float64     `yaml:"width_in"`
	HeightIn float64     `yaml:"height_in"`
	Nonempty SeriesStyle `yaml:"nonempty"`
	Combined SeriesStyle `yaml:"combined"`
	Empty    SeriesStyle `yaml:"empty"`
}

// SeriesStyle is the legend label and hex color of one plotted line.
type SeriesStyle struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

type Server struct {
	ListenAddr string `yaml:"listen_addr"`
}

type Sinks struct {
	Parallel   int        `yaml:"parallel"`
	InfluxDB   InfluxDB   `yaml:"influxdb"`
	ClickHouse ClickHouse `yaml:"clickhouse"`
	NATS       NATS       `yaml:"nats"`
	S3         S3         `yaml:"s3"`
}

type InfluxDB struct {
	Enabled     bool   `yaml:"enabled"`
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
}

type ClickHouse struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Table    string `yaml:"table"`
}

type NATS struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type S3 struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
}

var (
	Backends = []string{"gonum", "gochart"}
	Formats  = []string{"png", "svg"}
)

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Chart: Chart{
			Backend:  "gonum",
			Format:   "png",
			WidthIn:  8,
			HeightIn: 6,
			Nonempty: SeriesStyle{Label: "nonempty", Color: "#008000"},
			Combined: SeriesStyle{Label: "average", Color: "#ffa500"},
			Empty:    SeriesStyle{Label: "empty", Color: "#ff0000"},
		},
		Results: Results{Dir: "results"},
		Server:  Server{ListenAddr: "localhost:8080"},
		Sinks: Sinks{
			Parallel:   1,
			InfluxDB:   InfluxDB{Measurement: "rabin_emptiness"},
			ClickHouse: ClickHouse{Port: 9000, Database: "default", Table: "emptiness_series"},
			NATS:       NATS{Subject: "rabinstat.summary"},
			S3:         S3{Region: "us-east-1", Prefix: "rabinstat"},
		},
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing file yields the
// defaults unless the caller named the file explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func validate(cfg *Config) error {
	c := &cfg.Chart
	if !oneOf(c.Backend, Backends) {
		return fmt.Errorf("chart.backend %q: must be one of %s", c.Backend, strings.Join(Backends, ", "))
	}
	if !oneOf(c.Format, Formats) {
		return fmt.Errorf("chart.format %q: must be one of %s", c.Format, strings.Join(Formats, ", "))
	}
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %vx%v", c.WidthIn, c.HeightIn)
	}
	for name, s := range map[string]SeriesStyle{"nonempty": c.Nonempty, "combined": c.Combined, "empty": c.Empty} {
		if !ValidColor(s.Color) {
			return fmt.Errorf("chart.%s.color %q: want #rrggbb", name, s.Color)
		}
	}
	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	if cfg.Sinks.Parallel < 1 {
		cfg.Sinks.Parallel = 1
	}

	s := &cfg.Sinks
	if s.InfluxDB.Enabled {
		if s.InfluxDB.URL == "" || s.InfluxDB.Org == "" || s.InfluxDB.Bucket == "" {
			return fmt.Errorf("sinks.influxdb: url, org and bucket are required")
		}
	}
	if s.ClickHouse.Enabled && s.ClickHouse.Host == "" {
		return fmt.Errorf("sinks.clickhouse: host is required")
	}
	if s.NATS.Enabled && s.NATS.URL == "" {
		return fmt.Errorf("sinks.nats: url is required")
	}
	if s.S3.Enabled {
		if s.S3.Endpoint == "" || s.S3.Bucket == "" {
			return fmt.Errorf("sinks.s3: endpoint and bucket are required")
		}
		if s.S3.AccessKeyID == "" || s.S3.SecretAccessKey == "" {
			return fmt.Errorf("sinks.s3: access_key_id and secret_access_key are required")
		}
	}
	return nil
}

// ValidColor reports whether c looks like #rrggbb.
func ValidColor(c string) bool {
	hex, ok := strings.CutPrefix(c, "#")
	if !ok || len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
