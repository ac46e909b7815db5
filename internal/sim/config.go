package sim

import "math"

// DefaultSeed is used when a config omits the seed, so repeated runs of
// the same file stay reproducible.
const DefaultSeed int64 = 42

// DefaultInflation is the severity stress applied when the config does
// not name one (+8%).
const DefaultInflation = 0.08

// SeverityParams describes the lognormal claim-size distribution.
// Exactly one parameterization must be set: the underlying normal's
// (mu, sigma), or the business-facing (mean, std_dev) of the lognormal
// itself, which is converted internally.
type SeverityParams struct {
	Mu    float64 `yaml:"mu" json:"mu"`
	Sigma float64 `yaml:"sigma" json:"sigma"`

	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
}

// Config holds every input one analysis needs. Validation happens once,
// up front; the engine never reads an unvalidated config.
type Config struct {
	Trials    int            `yaml:"trials" json:"trials"`
	Lambda    float64        `yaml:"lambda" json:"lambda"`
	Severity  SeverityParams `yaml:"severity" json:"severity"`
	Retention float64        `yaml:"retention" json:"retention"`
	Limit     float64        `yaml:"limit" json:"limit"`
	Unlimited bool           `yaml:"unlimited" json:"unlimited"`
	Inflation *float64       `yaml:"inflation" json:"inflation,omitempty"`
	Premium   float64        `yaml:"premium" json:"premium"`
	Seed      *int64         `yaml:"seed" json:"seed,omitempty"`
}

// SeedValue returns the configured seed or DefaultSeed.
func (c Config) SeedValue() int64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return DefaultSeed
}

// InflationValue returns the configured inflation rate or DefaultInflation.
func (c Config) InflationValue() float64 {
	if c.Inflation != nil {
		return *c.Inflation
	}
	return DefaultInflation
}

// SeverityModel resolves the configured parameterization into the
// (mu, sigma) form the engine draws from. Call only after Validate.
func (c Config) SeverityModel() Severity {
	if c.Severity.Mu != 0 || c.Severity.Sigma != 0 {
		return Severity{Mu: c.Severity.Mu, Sigma: c.Severity.Sigma}
	}
	return LognormalFromMoments(c.Severity.Mean, c.Severity.StdDev)
}

// Layer resolves the configured layer terms. Call only after Validate.
func (c Config) Layer() Layer {
	return NewLayer(c.Retention, c.Limit, c.Unlimited)
}

// Validate checks every field and returns a *ConfigError on the first
// violation. No simulation work happens before this passes.
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return &ConfigError{Field: "trials", Reason: "must be a positive integer"}
	}
	if math.IsNaN(c.Lambda) || math.IsInf(c.Lambda, 0) || c.Lambda < 0 {
		return &ConfigError{Field: "lambda", Reason: "must be finite and >= 0"}
	}
	if err := c.Severity.validate(); err != nil {
		return err
	}
	if math.IsNaN(c.Retention) || math.IsInf(c.Retention, 0) || c.Retention < 0 {
		return &ConfigError{Field: "retention", Reason: "must be finite and >= 0"}
	}
	if !c.Unlimited {
		if math.IsNaN(c.Limit) || math.IsInf(c.Limit, 0) || c.Limit < 0 {
			return &ConfigError{Field: "limit", Reason: "must be finite and >= 0, or the layer marked unlimited"}
		}
	}
	if c.Inflation != nil {
		if r := *c.Inflation; math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			return &ConfigError{Field: "inflation", Reason: "must be finite and >= 0"}
		}
	}
	if math.IsNaN(c.Premium) || math.IsInf(c.Premium, 0) || c.Premium <= 0 {
		return &ConfigError{Field: "premium", Reason: "must be finite and > 0"}
	}
	return nil
}

func (p SeverityParams) validate() error {
	hasNormal := p.Mu != 0 || p.Sigma != 0
	hasMoments := p.Mean != 0 || p.StdDev != 0

	switch {
	case hasNormal && hasMoments:
		return &ConfigError{Field: "severity", Reason: "specify either mu/sigma or mean/std_dev, not both"}
	case hasNormal:
		if math.IsNaN(p.Mu) || math.IsInf(p.Mu, 0) {
			return &ConfigError{Field: "severity.mu", Reason: "must be finite"}
		}
		if math.IsNaN(p.Sigma) || math.IsInf(p.Sigma, 0) || p.Sigma <= 0 {
			return &ConfigError{Field: "severity.sigma", Reason: "must be finite and > 0"}
		}
	case hasMoments:
		if math.IsNaN(p.Mean) || math.IsInf(p.Mean, 0) || p.Mean <= 0 {
			return &ConfigError{Field: "severity.mean", Reason: "must be finite and > 0"}
		}
		if math.IsNaN(p.StdDev) || math.IsInf(p.StdDev, 0) || p.StdDev <= 0 {
			return &ConfigError{Field: "severity.std_dev", Reason: "must be finite and > 0"}
		}
	default:
		return &ConfigError{Field: "severity", Reason: "missing parameters: set mu/sigma or mean/std_dev"}
	}
	return nil
}
