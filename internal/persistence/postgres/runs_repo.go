// Package postgres implements the runs repository on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/risklab/xolsim/internal/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id                TEXT PRIMARY KEY,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	config                JSONB NOT NULL,
	trials                INTEGER NOT NULL,
	seed                  BIGINT NOT NULL,
	elapsed_ms            BIGINT NOT NULL,
	base_expected_loss    DOUBLE PRECISION NOT NULL,
	base_std_dev          DOUBLE PRECISION NOT NULL,
	base_var_99           DOUBLE PRECISION NOT NULL,
	base_tvar_99          DOUBLE PRECISION NOT NULL,
	base_trigger_prob     DOUBLE PRECISION NOT NULL,
	base_value_for_money  DOUBLE PRECISION NOT NULL,
	str_expected_loss     DOUBLE PRECISION NOT NULL,
	str_std_dev           DOUBLE PRECISION NOT NULL,
	str_var_99            DOUBLE PRECISION NOT NULL,
	str_tvar_99           DOUBLE PRECISION NOT NULL,
	str_trigger_prob      DOUBLE PRECISION NOT NULL,
	str_value_for_money   DOUBLE PRECISION NOT NULL
)`

// runsRepo implements persistence.RunsRepo for PostgreSQL. Writes and
// reads go through a circuit breaker so a struggling database degrades
// the serve surface instead of hanging it.
type runsRepo struct {
	db      *sqlx.DB
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewRunsRepo creates a PostgreSQL runs repository.
func NewRunsRepo(db *sqlx.DB, timeout time.Duration) persistence.RunsRepo {
	return &runsRepo{
		db:      db,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "postgres-runs",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// EnsureSchema creates the runs table when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure analysis_runs schema: %w", err)
	}
	return nil
}

// Save inserts a completed run.
func (r *runsRepo) Save(ctx context.Context, run persistence.AnalysisRun) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO analysis_runs
		(run_id, created_at, config, trials, seed, elapsed_ms,
		 base_expected_loss, base_std_dev, base_var_99, base_tvar_99,
		 base_trigger_prob, base_value_for_money,
		 str_expected_loss, str_std_dev, str_var_99, str_tvar_99,
		 str_trigger_prob, str_value_for_money)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.breaker.Execute(func() (interface{}, error) {
		return r.db.ExecContext(ctx, query,
			run.RunID, run.CreatedAt, run.ConfigJSON, run.Trials, run.Seed, run.ElapsedMS,
			run.Baseline.ExpectedLoss, run.Baseline.StdDev, run.Baseline.VaR99,
			run.Baseline.TVaR99, run.Baseline.TriggerProbability, run.Baseline.ValueForMoney,
			run.Stressed.ExpectedLoss, run.Stressed.StdDev, run.Stressed.VaR99,
			run.Stressed.TVaR99, run.Stressed.TriggerProbability, run.Stressed.ValueForMoney,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to save analysis run %s: %w", run.RunID, err)
	}
	return nil
}

// Get returns a run by ID.
func (r *runsRepo) Get(ctx context.Context, runID string) (*persistence.AnalysisRun, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := selectColumns + ` WHERE run_id = $1`

	result, err := r.breaker.Execute(func() (interface{}, error) {
		row := r.db.QueryRowxContext(ctx, query, runID)
		return scanRun(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run %s: %w", runID, err)
	}
	return result.(*persistence.AnalysisRun), nil
}

// ListRecent returns up to limit runs, newest first.
func (r *runsRepo) ListRecent(ctx context.Context, limit int) ([]persistence.AnalysisRun, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := selectColumns + ` ORDER BY created_at DESC LIMIT $1`

	result, err := r.breaker.Execute(func() (interface{}, error) {
		rows, err := r.db.QueryxContext(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var runs []persistence.AnalysisRun
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				return nil, err
			}
			runs = append(runs, *run)
		}
		return runs, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return result.([]persistence.AnalysisRun), nil
}

const selectColumns = `
	SELECT run_id, created_at, config, trials, seed, elapsed_ms,
	       base_expected_loss, base_std_dev, base_var_99, base_tvar_99,
	       base_trigger_prob, base_value_for_money,
	       str_expected_loss, str_std_dev, str_var_99, str_tvar_99,
	       str_trigger_prob, str_value_for_money
	FROM analysis_runs`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*persistence.AnalysisRun, error) {
	var run persistence.AnalysisRun
	err := row.Scan(
		&run.RunID, &run.CreatedAt, &run.ConfigJSON, &run.Trials, &run.Seed, &run.ElapsedMS,
		&run.Baseline.ExpectedLoss, &run.Baseline.StdDev, &run.Baseline.VaR99,
		&run.Baseline.TVaR99, &run.Baseline.TriggerProbability, &run.Baseline.ValueForMoney,
		&run.Stressed.ExpectedLoss, &run.Stressed.StdDev, &run.Stressed.VaR99,
		&run.Stressed.TVaR99, &run.Stressed.TriggerProbability, &run.Stressed.ValueForMoney,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
