package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/risk"
)

// FromReport flattens a finished report into its storage row.
func FromReport(r *analysis.Report) (AnalysisRun, error) {
	cfgJSON, err := json.Marshal(r.Config)
	if err != nil {
		return AnalysisRun{}, fmt.Errorf("failed to marshal run config: %w", err)
	}
	return AnalysisRun{
		RunID:      r.RunID,
		CreatedAt:  r.GeneratedAt,
		ConfigJSON: cfgJSON,
		Trials:     r.Config.Trials,
		Seed:       r.Config.SeedValue(),
		ElapsedMS:  r.Elapsed.Milliseconds(),
		Baseline:   scenarioRow(r.Baseline),
		Stressed:   scenarioRow(r.Stressed),
	}, nil
}

func scenarioRow(m *risk.Metrics) ScenarioRow {
	return ScenarioRow{
		ExpectedLoss:       m.ExpectedLoss,
		StdDev:             m.StdDev,
		VaR99:              m.VaR99,
		TVaR99:             m.TVaR99,
		TriggerProbability: m.TriggerProbability,
		ValueForMoney:      m.ValueForMoney,
	}
}
