// Package cache memoizes analysis reports in Redis. A seeded config is
// fully deterministic, so a cached report for the same config hash is
// exact, not approximate.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/sim"
)

// ErrMiss is returned when no report is cached for a config.
var ErrMiss = errors.New("analysis cache miss")

// AnalysisCache stores rendered reports keyed by config hash.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache on an existing Redis client.
func New(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// Key derives the cache key for a config. Seed defaults are folded in
// first so explicit and implicit default seeds share an entry.
func Key(cfg sim.Config) string {
	seed := cfg.SeedValue()
	cfg.Seed = &seed
	inflation := cfg.InflationValue()
	cfg.Inflation = &inflation

	data, _ := json.Marshal(cfg)
	sum := sha256.Sum256(data)
	return "xolsim:analysis:" + hex.EncodeToString(sum[:16])
}

// Get returns the cached report for a config, or ErrMiss.
func (c *AnalysisCache) Get(ctx context.Context, cfg sim.Config) (*analysis.Report, error) {
	data, err := c.client.Get(ctx, Key(cfg)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis cache: %w", err)
	}

	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, nil
}

// Put stores a finished report under its config's key. Cache failures
// are logged, not fatal: the report is already computed.
func (c *AnalysisCache) Put(ctx context.Context, report *analysis.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode report for cache")
		return
	}
	if err := c.client.Set(ctx, Key(report.Config), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache analysis report")
	}
}
