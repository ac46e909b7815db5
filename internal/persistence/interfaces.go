// Package persistence stores completed analysis runs. The simulation
// core never touches storage; the serve surface records finished
// reports here for later retrieval.
package persistence

import (
	"context"
	"time"
)

// AnalysisRun is one stored analysis: the config that produced it plus
// both scenarios' metrics, flattened into queryable columns.
type AnalysisRun struct {
	RunID      string    `json:"run_id" db:"run_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ConfigJSON []byte    `json:"-" db:"config"`
	Trials     int       `json:"trials" db:"trials"`
	Seed       int64     `json:"seed" db:"seed"`
	ElapsedMS  int64     `json:"elapsed_ms" db:"elapsed_ms"`

	Baseline ScenarioRow `json:"baseline"`
	Stressed ScenarioRow `json:"stressed"`
}

// ScenarioRow holds one scenario's metric columns.
type ScenarioRow struct {
	ExpectedLoss       float64 `json:"expected_loss"`
	StdDev             float64 `json:"std_dev"`
	VaR99              float64 `json:"var_99"`
	TVaR99             float64 `json:"tvar_99"`
	TriggerProbability float64 `json:"trigger_probability"`
	ValueForMoney      float64 `json:"value_for_money"`
}

// RunsRepo provides analysis run persistence.
type RunsRepo interface {
	// Save inserts a completed run. Run IDs are unique; saving the same
	// ID twice is an error.
	Save(ctx context.Context, run AnalysisRun) error

	// Get returns a run by ID.
	Get(ctx context.Context, runID string) (*AnalysisRun, error)

	// ListRecent returns up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]AnalysisRun, error)
}
