// Package config loads xolsim's YAML configuration files. Simulation
// parameter validation itself belongs to the sim package; this layer
// only gets bytes off disk into typed structs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/risklab/xolsim/internal/analysis"
	"github.com/risklab/xolsim/internal/sim"
)

// File is the full on-disk configuration.
type File struct {
	Simulation   sim.Config             `yaml:"simulation"`
	LayerOptions []analysis.LayerOption `yaml:"layer_options"`
	Output       OutputConfig           `yaml:"output"`
	Server       ServerConfig           `yaml:"server"`
}

// OutputConfig controls where and how the run command writes reports.
type OutputConfig struct {
	Dir    string `yaml:"dir"`    // artifact directory ("" disables writing)
	Format string `yaml:"format"` // "text" or "json"
}

// ServerConfig controls the serve command's HTTP surface and its
// optional persistence/cache backends.
type ServerConfig struct {
	Addr            string  `yaml:"addr"`
	PostgresDSN     string  `yaml:"postgres_dsn"` // "" disables the runs store
	RedisAddr       string  `yaml:"redis_addr"`   // "" disables the result cache
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	RateRPS         float64 `yaml:"rate_rps"`
	RateBurst       int     `yaml:"rate_burst"`
}

// CacheTTL returns the configured cache TTL as a duration.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// Default returns the configuration used when no file is given: the
// example treaty from the engine's reference scenario.
func Default() *File {
	return &File{
		Simulation: sim.Config{
			Trials:    100000,
			Lambda:    2.0,
			Severity:  sim.SeverityParams{Mean: 10000, StdDev: 5000},
			Retention: 20000,
			Limit:     50000,
			Premium:   1500,
		},
		Output: OutputConfig{Format: "text"},
		Server: ServerConfig{
			Addr:            ":8090",
			CacheTTLSeconds: 86400,
			RateRPS:         5,
			RateBurst:       10,
		},
	}
}

// Load reads and parses a config file, filling unset server fields
// from defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	cfg.Simulation = sim.Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8090"
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 86400
	}
	if cfg.Server.RateRPS <= 0 {
		cfg.Server.RateRPS = 5
	}
	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = 10
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	return cfg, nil
}

// DefaultPath is where the run command looks when --config is not set.
func DefaultPath() string {
	return filepath.Join("config", "treaty.yaml")
}
