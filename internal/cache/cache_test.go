package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/risklab/xolsim/internal/sim"
)

func cacheConfig() sim.Config {
	return sim.Config{
		Trials:    50000,
		Lambda:    2.0,
		Severity:  sim.SeverityParams{Mean: 10000, StdDev: 5000},
		Retention: 20000,
		Limit:     50000,
		Premium:   1500,
	}
}

func TestKey_Stable(t *testing.T) {
	assert.Equal(t, Key(cacheConfig()), Key(cacheConfig()))
}

func TestKey_FoldsDefaults(t *testing.T) {
	implicit := cacheConfig()

	explicit := cacheConfig()
	seed := sim.DefaultSeed
	explicit.Seed = &seed
	rate := sim.DefaultInflation
	explicit.Inflation = &rate

	assert.Equal(t, Key(implicit), Key(explicit),
		"explicit defaults must hit the same cache entry as implicit ones")
}

func TestKey_SensitiveToParameters(t *testing.T) {
	base := Key(cacheConfig())

	trials := cacheConfig()
	trials.Trials = 60000
	assert.NotEqual(t, base, Key(trials))

	seed := cacheConfig()
	s := int64(7)
	seed.Seed = &s
	assert.NotEqual(t, base, Key(seed))

	layer := cacheConfig()
	layer.Retention = 25000
	assert.NotEqual(t, base, Key(layer))
}
