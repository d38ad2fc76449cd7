package sink

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/signalnine/rabinstat/internal/config"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS %s (
    Timestamp DateTime,
    RunID     String,
    Input     String,
    Series    LowCardinality(String),
    States    UInt64,
    Seconds   Float64
) ENGINE = MergeTree()
ORDER BY (RunID, Series, States);
`

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ClickHouse inserts every series point as a row.
type ClickHouse struct {
	conn  driver.Conn
	table string
}

func NewClickHouse(ctx context.Context, cfg config.ClickHouse) (*ClickHouse, error) {
	if !identRe.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", cfg.Table)
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging clickhouse: %w", err)
	}
	if err := conn.Exec(ctx, fmt.Sprintf(createTableStatement, cfg.Table)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating table %s: %w", cfg.Table, err)
	}
	log.Printf("connected to clickhouse at %s:%d, table %s", cfg.Host, cfg.Port, cfg.Table)
	return &ClickHouse{conn: conn, table: cfg.Table}, nil
}

func (s *ClickHouse) Name() string { return "clickhouse" }

type clickhouseRow struct {
	Timestamp time.Time
	RunID     string
	Input     string
	Series    string
	States    uint64
	Seconds   float64
}

func clickhouseRows(p *Payload) []clickhouseRow {
	var rows []clickhouseRow
	for _, pt := range points(p.Summary.Series) {
		rows = append(rows, clickhouseRow{
			Timestamp: p.CreatedAt,
			RunID:     p.RunID,
			Input:     p.Input,
			Series:    pt.Series,
			States:    uint64(pt.States),
			Seconds:   pt.Seconds,
		})
	}
	return rows
}

func (s *ClickHouse) Write(ctx context.Context, p *Payload) error {
	rows := clickhouseRows(p)
	if len(rows) == 0 {
		return nil
	}
	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+s.table)
	if err != nil {
		return fmt.Errorf("preparing batch: %w", err)
	}
	if err := appendRows(batch, rows); err != nil {
		return err
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("sending batch: %w", err)
	}
	log.Printf("wrote %d points to clickhouse for run %s", len(rows), p.RunID)
	return nil
}

// rowAppender is the part of driver.Batch used to fill a batch.
type rowAppender interface {
	Append(v ...any) error
	Abort() error
}

// appendRows aborts the batch on the first failed row.
func appendRows(b rowAppender, rows []clickhouseRow) error {
	for _, r := range rows {
		if err := b.Append(r.Timestamp, r.RunID, r.Input, r.Series, r.States, r.Seconds); err != nil {
			if abortErr := b.Abort(); abortErr != nil {
				log.Printf("warning: aborting clickhouse batch: %v", abortErr)
			}
			return fmt.Errorf("appending row: %w", err)
		}
	}
	return nil
}

func (s *ClickHouse) Close() error {
	return s.conn.Close()
}
