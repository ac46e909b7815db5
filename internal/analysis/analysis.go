// Package analysis orchestrates full treaty analyses: one baseline
// scenario, one inflation-stressed scenario, each reduced to risk
// metrics.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/risklab/xolsim/internal/risk"
	"github.com/risklab/xolsim/internal/sim"
	"github.com/risklab/xolsim/internal/telemetry"
)

// Report is the result of one full analysis run.
type Report struct {
	RunID       string        `json:"run_id"`
	Config      sim.Config    `json:"config"`
	Baseline    *risk.Metrics `json:"baseline"`
	Stressed    *risk.Metrics `json:"stressed"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// RunAnalysis is the core entry point: validate once, simulate the
// baseline and stressed scenarios, reduce each to metrics. Both error
// kinds (*sim.ConfigError, *sim.ComputationError) surface unchanged;
// no metrics are ever built from an incomplete distribution.
func RunAnalysis(ctx context.Context, cfg sim.Config) (baseline, stressed *risk.Metrics, err error) {
	engine, err := sim.NewEngine(cfg)
	if err != nil {
		telemetry.RecordError(errorKind(err))
		return nil, nil, err
	}
	calc := risk.NewCalculator(cfg.Premium)

	for _, scenario := range []sim.ScenarioID{sim.ScenarioBaseline, sim.ScenarioStressed} {
		start := time.Now()
		dist, runErr := engine.Run(ctx, scenario)
		if runErr != nil {
			telemetry.RecordError(errorKind(runErr))
			return nil, nil, runErr
		}
		metrics, calcErr := calc.Reduce(dist)
		if calcErr != nil {
			telemetry.RecordError(errorKind(calcErr))
			return nil, nil, calcErr
		}
		elapsed := time.Since(start)
		telemetry.ObserveScenario(scenario.String(), dist.Len(), elapsed)
		log.Debug().
			Str("scenario", scenario.String()).
			Int("trials", dist.Len()).
			Dur("elapsed", elapsed).
			Float64("expected_loss", metrics.ExpectedLoss).
			Msg("scenario complete")

		if scenario == sim.ScenarioBaseline {
			baseline = metrics
		} else {
			stressed = metrics
		}
	}
	return baseline, stressed, nil
}

// Run wraps RunAnalysis in a report envelope with a fresh run ID.
func Run(ctx context.Context, cfg sim.Config) (*Report, error) {
	start := time.Now()
	baseline, stressed, err := RunAnalysis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	telemetry.AnalysesTotal.Inc()
	return &Report{
		RunID:       uuid.NewString(),
		Config:      cfg,
		Baseline:    baseline,
		Stressed:    stressed,
		Elapsed:     time.Since(start),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// errorKind maps an error to its telemetry label.
func errorKind(err error) string {
	var cfgErr *sim.ConfigError
	if errors.As(err, &cfgErr) {
		return "config"
	}
	var compErr *sim.ComputationError
	if errors.As(err, &compErr) {
		return "computation"
	}
	return "other"
}
