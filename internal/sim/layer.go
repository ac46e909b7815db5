package sim

import "math"

// Layer is a single excess-of-loss layer: the reinsurer pays the slice
// of gross loss between retention and retention+limit. An unlimited
// layer has no upper clamp.
type Layer struct {
	Retention float64
	Limit     float64
}

// NewLayer builds a layer; unlimited layers carry Limit = +Inf.
func NewLayer(retention, limit float64, unlimited bool) Layer {
	if unlimited {
		limit = math.Inf(1)
	}
	return Layer{Retention: retention, Limit: limit}
}

// Unlimited reports whether the layer has no upper clamp.
func (l Layer) Unlimited() bool {
	return math.IsInf(l.Limit, 1)
}

// Apply splits a gross loss into ceded and retained parts:
//
//	ceded    = clamp(gross - retention, 0, limit)
//	retained = gross - ceded
//
// so retained+ceded == gross exactly for every trial. Ceded is
// monotonic non-decreasing in gross, flat at 0 below the retention and
// flat at the limit above retention+limit.
func (l Layer) Apply(gross float64) (ceded, retained float64) {
	ceded = gross - l.Retention
	if ceded < 0 {
		ceded = 0
	}
	if ceded > l.Limit {
		ceded = l.Limit
	}
	return ceded, gross - ceded
}
