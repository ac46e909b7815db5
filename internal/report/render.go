// Package report renders completed analyses for humans and machines.
// The engine itself never prints; everything user-facing lives here.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/risk"
)

// RenderText formats a report as the two-scenario console summary.
func RenderText(r *analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "XoL Treaty Analysis  (run %s)\n", r.RunID)
	fmt.Fprintf(&b, "Trials: %d  Seed: %d  Inflation stress: +%.1f%%\n",
		r.Config.Trials, r.Config.SeedValue(), r.Config.InflationValue()*100)
	layer := r.Config.Layer()
	if layer.Unlimited() {
		fmt.Fprintf(&b, "Layer: retention %s, unlimited\n", money(layer.Retention))
	} else {
		fmt.Fprintf(&b, "Layer: %s xs %s\n", money(layer.Limit), money(layer.Retention))
	}
	b.WriteString("\n")

	writeScenario(&b, "Baseline", r.Baseline)
	b.WriteString("\n")
	writeScenario(&b, "Stressed", r.Stressed)
	return b.String()
}

func writeScenario(b *strings.Builder, title string, m *risk.Metrics) {
	fmt.Fprintf(b, "== %s ==\n", title)
	fmt.Fprintf(b, "  Expected Ceded Loss:  %s\n", money(m.ExpectedLoss))
	fmt.Fprintf(b, "  Risk (Std Dev):       %s\n", money(m.StdDev))
	fmt.Fprintf(b, "  VaR 99%%:              %s\n", money(m.VaR99))
	fmt.Fprintf(b, "  TVaR 99%%:             %s\n", money(m.TVaR99))
	fmt.Fprintf(b, "  Trigger Probability:  %.4f\n", m.TriggerProbability)
	fmt.Fprintf(b, "  Value for Money:      %.4f\n", m.ValueForMoney)
}

// RenderComparisonText formats a layer-option comparison table.
func RenderComparisonText(results []analysis.OptionResult) string {
	var b strings.Builder
	b.WriteString("XoL Layer Comparison\n\n")
	for _, res := range results {
		opt := res.Option
		if opt.Unlimited {
			fmt.Fprintf(&b, "-- Retention %s, unlimited (premium %s)\n",
				money(opt.Retention), money(opt.Premium))
		} else {
			fmt.Fprintf(&b, "-- %s xs %s (premium %s)\n",
				money(opt.Limit), money(opt.Retention), money(opt.Premium))
		}
		writeScenario(&b, "Baseline", res.Report.Baseline)
		writeScenario(&b, "Stressed", res.Report.Stressed)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderJSON marshals a report with stable field names for downstream
// tooling.
func RenderJSON(r *analysis.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

func money(v float64) string {
	if math.IsInf(v, 1) {
		return "unlimited"
	}
	return fmt.Sprintf("%.2f", v)
}
