// Package store persists runs and their per-tick metrics in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cyclario/internal/sims/cyclario"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    preset      TEXT NOT NULL,
    pattern     TEXT NOT NULL,
    seed        INTEGER NOT NULL,
    rows        TEXT NOT NULL,
    cols        TEXT NOT NULL,
    started_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tick_metrics (
    run_id            TEXT NOT NULL REFERENCES runs(id),
    tick              INTEGER NOT NULL,
    prediction_error  REAL NOT NULL,
    latency_ns        INTEGER NOT NULL,
    invariance        REAL NOT NULL,
    sync_delta        REAL NOT NULL,
    delta_swastika    REAL NOT NULL,
    reversibility     REAL NOT NULL,
    calibration_drift REAL NOT NULL,
    phase_continuity  REAL NOT NULL,
    active_cells      INTEGER NOT NULL,
    changed_cells     INTEGER NOT NULL,
    PRIMARY KEY (run_id, tick)
);
`

// ErrUnknownRun is returned when a run id is not in the store.
var ErrUnknownRun = errors.New("unknown run")

// Run describes one recorded session.
type Run struct {
	ID        string
	Preset    string
	Pattern   string
	Seed      int64
	Rows      string
	Cols      string
	StartedAt time.Time
}

// TickRecord is one stored tick.
type TickRecord struct {
	Tick    uint64
	Metrics cyclario.Metrics
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema. Use
// ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// BeginRun inserts a run row with a fresh id. ID and StartedAt are filled in
// when empty.
func (s *Store) BeginRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, preset, pattern, seed, rows, cols, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Preset, r.Pattern, r.Seed, r.Rows, r.Cols, r.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return r, fmt.Errorf("begin run: %w", err)
	}
	return r, nil
}

// RecordMetrics stores the metrics of one tick.
func (s *Store) RecordMetrics(ctx context.Context, runID string, tick uint64, m cyclario.Metrics) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tick_metrics (run_id, tick, prediction_error, latency_ns, invariance, sync_delta,
		 delta_swastika, reversibility, calibration_drift, phase_continuity, active_cells, changed_cells)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, int64(tick), m.PredictionError, int64(m.Latency), m.Invariance, m.SyncDelta,
		m.DeltaSwastika, m.Reversibility, m.CalibrationDrift, m.PhaseContinuity, m.ActiveCells, m.ChangedCells,
	)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", tick, err)
	}
	return nil
}

// Runs lists runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, preset, pattern, seed, rows, cols, started_at FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Preset, &r.Pattern, &r.Seed, &r.Rows, &r.Cols, &started); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunMetrics returns the ticks of one run in order.
func (s *Store) RunMetrics(ctx context.Context, runID string) ([]TickRecord, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, prediction_error, latency_ns, invariance, sync_delta, delta_swastika, reversibility,
		 calibration_drift, phase_continuity, active_cells, changed_cells
		 FROM tick_metrics WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("run metrics: %w", err)
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var rec TickRecord
		var tick, latency int64
		m := &rec.Metrics
		if err := rows.Scan(&tick, &m.PredictionError, &latency, &m.Invariance, &m.SyncDelta, &m.DeltaSwastika,
			&m.Reversibility, &m.CalibrationDrift, &m.PhaseContinuity, &m.ActiveCells, &m.ChangedCells); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		rec.Tick = uint64(tick)
		m.Latency = time.Duration(latency)
		out = append(out, rec)
	}
	return out, rows.Err()
}
