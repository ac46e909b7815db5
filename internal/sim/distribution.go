package sim

import "sort"

// CededLossDistribution is the per-trial ceded losses of one completed
// scenario run, indexed by trial number. Its length always equals the
// configured trial count. Treat it as immutable once the run returns.
type CededLossDistribution []float64

// Len returns the number of trials in the distribution.
func (d CededLossDistribution) Len() int { return len(d) }

// Sorted returns an ascending copy, leaving the trial-ordered original
// untouched for callers that still need positional access.
func (d CededLossDistribution) Sorted() []float64 {
	out := make([]float64, len(d))
	copy(out, d)
	sort.Float64s(out)
	return out
}
