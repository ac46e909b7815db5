package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Engine runs the configured number of independent trials for one
// scenario and collects the ceded-loss distribution. Trials are pure
// CPU work with no shared mutable state: each one owns a substream and
// a write-once slot in the result vector, so any worker count produces
// the same distribution.
type Engine struct {
	cfg     Config
	streams *Streams
	workers int
}

// NewEngine validates the config and builds an engine for it. A
// *ConfigError here means no simulation work has been done.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		streams: NewStreams(cfg.SeedValue()),
		workers: runtime.NumCPU(),
	}, nil
}

// SetWorkers overrides the worker count (mainly for tests; results do
// not depend on it).
func (e *Engine) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// Run executes one scenario. The stressed scenario scales severity by
// (1+inflation) while frequency and layer terms stay fixed. Returns a
// *ComputationError if any trial produced a non-finite loss, or the
// context error if cancelled between trials; either way no partial
// distribution escapes.
func (e *Engine) Run(ctx context.Context, scenario ScenarioID) (CededLossDistribution, error) {
	sev := e.cfg.SeverityModel()
	if scenario == ScenarioStressed {
		sev = sev.Inflated(e.cfg.InflationValue())
	}
	layer := e.cfg.Layer()

	results := make([]float64, e.cfg.Trials)

	workers := e.workers
	if workers > e.cfg.Trials {
		workers = e.cfg.Trials
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	// Static block partitioning: worker w owns trials [w*size, ...).
	// Assignment never depends on completion order.
	size := (e.cfg.Trials + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * size
		hi := lo + size
		if hi > e.cfg.Trials {
			hi = e.cfg.Trials
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					fail(err)
					return
				}
				if failed() {
					return
				}
				t := simulateTrial(e.streams.Trial(scenario, i), e.cfg.Lambda, sev, layer)
				if !t.finite() {
					fail(&ComputationError{
						Stage:  scenario.String() + " scenario",
						Reason: "non-finite loss drawn",
					})
					return
				}
				results[i] = t.Ceded
			}
		}(lo, hi)
	}
	wg.Wait()

	if firstErr != nil {
		log.Debug().Err(firstErr).Str("scenario", scenario.String()).Msg("scenario run discarded")
		return nil, firstErr
	}
	return CededLossDistribution(results), nil
}
