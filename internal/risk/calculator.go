// Package risk reduces a simulated ceded-loss distribution into the
// treaty's risk metrics.
package risk

import (
	"math"

	"github.com/risklab/xolsim/internal/sim"
)

// Metrics is the immutable per-scenario result record.
type Metrics struct {
	ExpectedLoss       float64 `json:"expected_loss"`
	StdDev             float64 `json:"std_dev"`
	VaR99              float64 `json:"var_99"`
	TVaR99             float64 `json:"tvar_99"`
	TriggerProbability float64 `json:"trigger_probability"`
	ValueForMoney      float64 `json:"value_for_money"`
}

// Calculator reduces ceded-loss distributions against a fixed premium.
//
// Conventions, applied consistently:
//   - StdDev is the population standard deviation.
//   - VaR uses linear interpolation between order statistics at
//     index p*(n-1).
//   - TVaR is the mean of all observations at or above VaR; the max
//     always qualifies, so degenerate distributions stay well-defined
//     and TVaR >= VaR holds.
//   - ValueForMoney is expected ceded loss divided by the premium.
type Calculator struct {
	premium    float64
	confidence float64
}

// NewCalculator builds a calculator for the given reinsurance premium
// at the standard 99% confidence level.
func NewCalculator(premium float64) *Calculator {
	return &Calculator{premium: premium, confidence: 0.99}
}

// Reduce computes the metrics for one scenario's distribution. An
// empty distribution or any non-finite value is a *sim.ComputationError.
func (c *Calculator) Reduce(dist sim.CededLossDistribution) (*Metrics, error) {
	n := dist.Len()
	if n == 0 {
		return nil, &sim.ComputationError{Stage: "metric reduction", Reason: "empty ceded-loss distribution"}
	}

	var sum float64
	triggered := 0
	for _, v := range dist {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &sim.ComputationError{Stage: "metric reduction", Reason: "non-finite ceded loss"}
		}
		sum += v
		if v > 0 {
			triggered++
		}
	}
	mean := sum / float64(n)

	var sumSq float64
	for _, v := range dist {
		d := v - mean
		sumSq += d * d
	}

	sorted := dist.Sorted()
	varAt := interpolate(sorted, c.confidence)

	var tailSum float64
	tailCount := 0
	for i := n - 1; i >= 0 && sorted[i] >= varAt; i-- {
		tailSum += sorted[i]
		tailCount++
	}

	return &Metrics{
		ExpectedLoss:       mean,
		StdDev:             math.Sqrt(sumSq / float64(n)),
		VaR99:              varAt,
		TVaR99:             tailSum / float64(tailCount),
		TriggerProbability: float64(triggered) / float64(n),
		ValueForMoney:      mean / c.premium,
	}, nil
}

// interpolate returns the p-quantile of an ascending slice by linear
// interpolation between the order statistics at index p*(n-1).
func interpolate(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
