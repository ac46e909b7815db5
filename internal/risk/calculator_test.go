package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risklab/xolsim/internal/sim"
)

func TestCalculator_Reduce_KnownDistribution(t *testing.T) {
	// 1..100 in shuffled trial order; the calculator must sort itself.
	values := make(sim.CededLossDistribution, 100)
	for i := range values {
		values[i] = float64((i*37)%100 + 1)
	}

	m, err := NewCalculator(500).Reduce(values)
	require.NoError(t, err)

	assert.InDelta(t, 50.5, m.ExpectedLoss, 1e-9)
	// Population std dev of 1..100: sqrt((100^2-1)/12).
	assert.InDelta(t, math.Sqrt(9999.0/12.0), m.StdDev, 1e-9)
	// Linear interpolation at index 0.99*99 = 98.01 between 99 and 100.
	assert.InDelta(t, 99.01, m.VaR99, 1e-9)
	// Only the max is at or above 99.01.
	assert.InDelta(t, 100.0, m.TVaR99, 1e-9)
	assert.Equal(t, 1.0, m.TriggerProbability)
	assert.InDelta(t, 50.5/500, m.ValueForMoney, 1e-12)
}

func TestCalculator_Reduce_SingleTrial(t *testing.T) {
	m, err := NewCalculator(100).Reduce(sim.CededLossDistribution{7250.0})
	require.NoError(t, err)

	assert.Equal(t, 7250.0, m.ExpectedLoss)
	assert.Zero(t, m.StdDev)
	assert.Equal(t, 7250.0, m.VaR99, "a single observation is its own VaR")
	assert.Equal(t, 7250.0, m.TVaR99, "a single observation is its own TVaR")
	assert.Equal(t, 1.0, m.TriggerProbability)
}

func TestCalculator_Reduce_AllZeros(t *testing.T) {
	m, err := NewCalculator(100).Reduce(make(sim.CededLossDistribution, 50))
	require.NoError(t, err)

	assert.Zero(t, m.ExpectedLoss)
	assert.Zero(t, m.StdDev)
	assert.Zero(t, m.VaR99)
	assert.Zero(t, m.TVaR99)
	assert.Zero(t, m.TriggerProbability, "a layer that never attaches never triggers")
	assert.Zero(t, m.ValueForMoney)
}

func TestCalculator_Reduce_TVaRNeverBelowVaR(t *testing.T) {
	distributions := []sim.CededLossDistribution{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{0, 0, 0, 0, 100},
		{5, 5, 5, 5, 5},
		{0.1, 1000, 2, 33.3, 7, 7, 7},
	}

	for _, dist := range distributions {
		m, err := NewCalculator(10).Reduce(dist)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.TVaR99, m.VaR99)
	}
}

func TestCalculator_Reduce_TriggerProbability(t *testing.T) {
	m, err := NewCalculator(10).Reduce(sim.CededLossDistribution{0, 0, 0, 4, 9, 0, 1, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.3, m.TriggerProbability)
}

func TestCalculator_Reduce_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		dist sim.CededLossDistribution
	}{
		{"empty", sim.CededLossDistribution{}},
		{"nil", nil},
		{"nan", sim.CededLossDistribution{1, math.NaN(), 3}},
		{"positive inf", sim.CededLossDistribution{1, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCalculator(10).Reduce(tt.dist)
			require.Error(t, err)

			var compErr *sim.ComputationError
			assert.True(t, errors.As(err, &compErr), "must be a ComputationError, got %T", err)
		})
	}
}
