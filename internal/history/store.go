// Package history records calculate/export cycles in ClickHouse so past
// experiments can be audited and replayed. The workflow runs fine
// without it; recording is opt-in.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"smartsteel/pkg/api"
)

// Run is one recorded calculate cycle.
type Run struct {
	ID              uuid.UUID
	RunAt           time.Time
	Composition     api.Composition
	MeltMassTons    float64
	TensileStrength float64
	Hardness        float64
	CorrosionRate   float64
	Density         float64
	DosingRows      int32
	Exported        bool
}

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns default development configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "smartsteel",
		Username: "default",
		Password: "",
	}
}

// Store is the ClickHouse-backed experiment log.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore connects to ClickHouse.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// EnsureSchema creates the experiment_runs table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS experiment_runs (
			id               UUID,
			run_at           DateTime64(3),
			composition      String,
			melt_mass_tons   Float64,
			tensile_strength Float64,
			hardness         Float64,
			corrosion_rate   Float64,
			density          Float64,
			dosing_rows      Int32,
			exported         UInt8
		)
		ENGINE = MergeTree
		ORDER BY run_at
	`
	if err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create experiment_runs table: %w", err)
	}
	return nil
}

// Record inserts a run. A zero ID or RunAt is filled in.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.RunAt.IsZero() {
		run.RunAt = time.Now()
	}
	compJSON, err := json.Marshal(run.Composition)
	if err != nil {
		return fmt.Errorf("encode composition: %w", err)
	}

	const query = `
		INSERT INTO experiment_runs (
			id, run_at, composition, melt_mass_tons,
			tensile_strength, hardness, corrosion_rate, density,
			dosing_rows, exported
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return s.conn.Exec(ctx, query,
		run.ID,
		run.RunAt,
		string(compJSON),
		run.MeltMassTons,
		run.TensileStrength,
		run.Hardness,
		run.CorrosionRate,
		run.Density,
		run.DosingRows,
		boolToUInt8(run.Exported),
	)
}

// Recent lists the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	const query = `
		SELECT id, run_at, composition, melt_mass_tons,
			   tensile_strength, hardness, corrosion_rate, density,
			   dosing_rows, exported
		FROM experiment_runs
		ORDER BY run_at DESC
		LIMIT ?
	`
	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query experiment runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			compJSON string
			exported uint8
		)
		err := rows.Scan(
			&run.ID, &run.RunAt, &compJSON, &run.MeltMassTons,
			&run.TensileStrength, &run.Hardness, &run.CorrosionRate, &run.Density,
			&run.DosingRows, &exported,
		)
		if err != nil {
			return nil, fmt.Errorf("scan experiment run: %w", err)
		}
		if err := json.Unmarshal([]byte(compJSON), &run.Composition); err != nil {
			return nil, fmt.Errorf("decode composition: %w", err)
		}
		run.Exported = exported == 1
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
