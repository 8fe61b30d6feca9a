package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 50

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pricing_runs (
			id                   TEXT PRIMARY KEY,
			timestamp            INTEGER NOT NULL,
			variable_cost        REAL,
			fixed_cost           REAL,
			current_price        REAL,
			current_volume       REAL,
			competitor_price     REAL,
			elasticity           REAL,
			unit_margin          REAL,
			revenue              REAL,
			profit               REAL,
			breakeven_units      REAL,
			margin_positive      INTEGER,
			optimal_price        REAL,
			optimal_volume       REAL,
			optimal_profit       REAL,
			sample_count         INTEGER,
			report_status        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pricing_runs_ts ON pricing_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts run; an existing run with the same ID is replaced.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	marginPositive := 0
	if run.Baseline.MarginPositive {
		marginPositive = 1
	}

	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO pricing_runs
		(id, timestamp, variable_cost, fixed_cost, current_price, current_volume,
		 competitor_price, elasticity, unit_margin, revenue, profit, breakeven_units,
		 margin_positive, optimal_price, optimal_volume, optimal_profit,
		 sample_count, report_status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, createdAt.UnixNano(),
		run.Inputs.VariableCostPerUnit, run.Inputs.FixedCostPerPeriod,
		run.Inputs.CurrentPrice, run.Inputs.CurrentVolume,
		run.Inputs.CompetitorAvgPrice, run.Inputs.Elasticity,
		run.Baseline.UnitMargin, run.Baseline.Revenue, run.Baseline.Profit, run.Baseline.BreakevenUnits,
		marginPositive, run.Optimal.Price, run.Optimal.SimulatedVolume, run.Optimal.SimulatedProfit,
		run.SampleCount, run.ReportStatus,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
		id, timestamp, variable_cost, fixed_cost, current_price, current_volume,
		competitor_price, elasticity, unit_margin, revenue, profit, breakeven_units,
		margin_positive, optimal_price, optimal_volume, optimal_profit,
		sample_count, report_status
		FROM pricing_runs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []Run
	for rows.Next() {
		var (
			run            Run
			timestamp      int64
			marginPositive int
			reportStatus   sql.NullString
		)
		if err := rows.Scan(
			&run.ID, &timestamp,
			&run.Inputs.VariableCostPerUnit, &run.Inputs.FixedCostPerPeriod,
			&run.Inputs.CurrentPrice, &run.Inputs.CurrentVolume,
			&run.Inputs.CompetitorAvgPrice, &run.Inputs.Elasticity,
			&run.Baseline.UnitMargin, &run.Baseline.Revenue, &run.Baseline.Profit, &run.Baseline.BreakevenUnits,
			&marginPositive, &run.Optimal.Price, &run.Optimal.SimulatedVolume, &run.Optimal.SimulatedProfit,
			&run.SampleCount, &reportStatus,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.Unix(0, timestamp).UTC()
		run.Baseline.MarginPositive = marginPositive == 1
		run.ReportStatus = reportStatus.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
