package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 0

	_, err := NewEngine(cfg)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestEngine_Run_DistributionLengthEqualsTrials(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 537 // deliberately not a multiple of the worker count

	dist, err := newTestEngine(t, cfg).Run(context.Background(), ScenarioBaseline)
	require.NoError(t, err)
	assert.Equal(t, cfg.Trials, dist.Len())
}

func TestEngine_Run_CededWithinLayerBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 5000

	dist, err := newTestEngine(t, cfg).Run(context.Background(), ScenarioBaseline)
	require.NoError(t, err)

	for i, ceded := range dist {
		require.GreaterOrEqual(t, ceded, 0.0, "trial %d", i)
		require.LessOrEqual(t, ceded, cfg.Limit, "trial %d", i)
	}
}

func TestEngine_Run_DeterministicAcrossWorkerCounts(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 2000

	sequential := newTestEngine(t, cfg)
	sequential.SetWorkers(1)
	parallel := newTestEngine(t, cfg)
	parallel.SetWorkers(8)

	distSeq, err := sequential.Run(context.Background(), ScenarioBaseline)
	require.NoError(t, err)
	distPar, err := parallel.Run(context.Background(), ScenarioBaseline)
	require.NoError(t, err)

	assert.Equal(t, distSeq, distPar, "scheduling must never perturb results")
}

func TestEngine_Run_ScenariosUseDistinctStreams(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 500

	engine := newTestEngine(t, cfg)
	baseline, err := engine.Run(context.Background(), ScenarioBaseline)
	require.NoError(t, err)
	stressed, err := engine.Run(context.Background(), ScenarioStressed)
	require.NoError(t, err)

	assert.NotEqual(t, baseline, stressed)
}

func TestEngine_Run_ZeroLambdaYieldsZeroLosses(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 200
	cfg.Lambda = 0

	dist, err := newTestEngine(t, cfg).Run(context.Background(), ScenarioBaseline)
	require.NoError(t, err)

	for _, ceded := range dist {
		assert.Zero(t, ceded)
	}
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	cfg := validConfig()
	cfg.Trials = 100000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dist, err := newTestEngine(t, cfg).Run(ctx, ScenarioBaseline)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, dist, "a cancelled run must not expose partial results")
}
