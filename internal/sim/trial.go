package sim

import (
	"math"
	"math/rand"
)

// Trial holds the state of one simulated period. It is created fresh
// per iteration and discarded after contributing its ceded loss to the
// distribution; no state crosses trials.
type Trial struct {
	Claims     int
	Severities []float64
	Gross      float64
	Ceded      float64
	Retained   float64
}

// simulateTrial runs one full trial on its own substream: frequency
// draw, severity draws, aggregation, layer application.
func simulateTrial(rng *rand.Rand, lambda float64, sev Severity, layer Layer) Trial {
	t := Trial{}
	t.Claims = PoissonCount(rng, lambda)
	if t.Claims > 0 {
		t.Severities = sev.DrawN(rng, t.Claims)
	}
	t.Gross = GrossLoss(t.Severities)
	t.Ceded, t.Retained = layer.Apply(t.Gross)
	return t
}

// finite reports whether the trial produced only usable numbers.
func (t Trial) finite() bool {
	return !math.IsNaN(t.Gross) && !math.IsInf(t.Gross, 0) && !math.IsNaN(t.Ceded)
}
