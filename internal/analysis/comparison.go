package analysis

import (
	"context"

	"github.com/risklab/xolsim/internal/sim"
)

// LayerOption is one candidate excess-of-loss structure with its quoted
// premium. Frequency, severity, and inflation assumptions come from
// the shared config; only layer terms and premium vary per option.
type LayerOption struct {
	Retention float64 `yaml:"retention" json:"retention"`
	Limit     float64 `yaml:"limit" json:"limit"`
	Unlimited bool    `yaml:"unlimited" json:"unlimited"`
	Premium   float64 `yaml:"premium" json:"premium"`
}

// OptionResult pairs an option with its baseline and stressed reports.
type OptionResult struct {
	Option LayerOption `json:"option"`
	Report *Report     `json:"report"`
}

// RunComparison evaluates each candidate layer under the same portfolio
// assumptions, the way a cedent compares quoted retention options. Any
// option's error aborts the whole comparison.
func RunComparison(ctx context.Context, cfg sim.Config, options []LayerOption) ([]OptionResult, error) {
	if len(options) == 0 {
		return nil, &sim.ConfigError{Field: "layer_options", Reason: "must name at least one option"}
	}

	results := make([]OptionResult, 0, len(options))
	for _, opt := range options {
		optCfg := cfg
		optCfg.Retention = opt.Retention
		optCfg.Limit = opt.Limit
		optCfg.Unlimited = opt.Unlimited
		optCfg.Premium = opt.Premium

		report, err := Run(ctx, optCfg)
		if err != nil {
			return nil, err
		}
		results = append(results, OptionResult{Option: opt, Report: report})
	}
	return results, nil
}
