package sim

import "math/rand"

// PoissonCount draws a Poisson(lambda) claim count by counting unit
// exponential inter-arrivals until they exceed lambda. O(lambda) per
// draw, which is fine for per-period claim counts. lambda=0 always
// yields zero claims.
func PoissonCount(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	count := 0
	sum := 0.0
	for {
		sum += rng.ExpFloat64()
		if sum >= lambda {
			return count
		}
		count++
	}
}
