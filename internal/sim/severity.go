package sim

import (
	"math"
	"math/rand"
)

// Severity is the lognormal claim-size model, parameterized by the
// mean and standard deviation of the underlying normal.
type Severity struct {
	Mu    float64
	Sigma float64
}

// LognormalFromMoments converts business inputs (mean and standard
// deviation of the lognormal itself) into the underlying normal's
// (mu, sigma):
//
//	sigma^2 = ln(1 + std^2/mean^2)
//	mu      = ln(mean) - sigma^2/2
func LognormalFromMoments(mean, std float64) Severity {
	sigma2 := math.Log(1 + (std*std)/(mean*mean))
	return Severity{
		Mu:    math.Log(mean) - sigma2/2,
		Sigma: math.Sqrt(sigma2),
	}
}

// Inflated returns the model with every severity scaled by (1+r).
// Scaling a lognormal shifts mu by ln(1+r); the shape is untouched.
func (s Severity) Inflated(r float64) Severity {
	return Severity{Mu: s.Mu + math.Log1p(r), Sigma: s.Sigma}
}

// Draw samples one strictly positive claim severity.
func (s Severity) Draw(rng *rand.Rand) float64 {
	return math.Exp(s.Mu + s.Sigma*rng.NormFloat64())
}

// DrawN samples n severities from the trial's substream.
func (s Severity) DrawN(rng *rand.Rand, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Draw(rng)
	}
	return out
}
