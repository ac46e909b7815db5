package sim

// GrossLoss aggregates a trial's claim severities into the single gross
// portfolio loss. A trial with no claims has zero gross loss.
func GrossLoss(severities []float64) float64 {
	total := 0.0
	for _, s := range severities {
		total += s
	}
	return total
}
