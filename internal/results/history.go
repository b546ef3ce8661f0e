package results

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
)

// HistoryConfig addresses the ClickHouse database runs are appended to.
type HistoryConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// History appends every record to a ClickHouse table.
type History struct {
	conn driver.Conn
}

func NewHistory(ctx context.Context, cfg HistoryConfig) (*History, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	h := &History{conn: conn}
	if err := h.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + constants.ClickHouseTable + ` (
			run_id      String,
			scenario    String,
			group_name  LowCardinality(String),
			passed      Bool,
			check_name  String,
			error       String,
			duration_ms UInt64,
			started_at  DateTime64(3)
		) ENGINE = MergeTree
		ORDER BY (scenario, started_at)
	`
	if err := h.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", constants.ClickHouseTable, err)
	}
	return nil
}

func (h *History) Record(ctx context.Context, r Record) error {
	query := `
		INSERT INTO ` + constants.ClickHouseTable + ` (
			run_id, scenario, group_name, passed, check_name,
			error, duration_ms, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := h.conn.Exec(ctx, query,
		r.RunID,
		r.Scenario,
		r.Group,
		r.Passed,
		r.Check,
		r.Error,
		uint64(r.Duration.Milliseconds()),
		r.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// PassRate returns the fraction of passing runs of scenario since a point
// in time, and how many runs that covers.
func (h *History) PassRate(ctx context.Context, scenario string, since time.Time) (float64, uint64, error) {
	query := `
		SELECT countIf(passed), count()
		FROM ` + constants.ClickHouseTable + `
		WHERE scenario = ? AND started_at >= ?
	`

	var passed, total uint64
	if err := h.conn.QueryRow(ctx, query, scenario, since).Scan(&passed, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to query pass rate: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(passed) / float64(total), total, nil
}

func (h *History) Close() error {
	return h.conn.Close()
}
