// Package config loads engine settings from YAML and turns them into the
// functional options of package cg.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/rng"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Init holds the intervals of random parameter initialization.
type Init struct {
	CoefLow       float64 `yaml:"coef_low" validate:"gte=0"`
	CoefHigh      float64 `yaml:"coef_high" validate:"gtefield=CoefLow"`
	CoefSymmetric bool    `yaml:"coef_symmetric"`
	MeanLow       float64 `yaml:"mean_low"`
	MeanHigh      float64 `yaml:"mean_high" validate:"gtefield=MeanLow"`
	VarLow        float64 `yaml:"var_low" validate:"gt=0"`
	VarHigh       float64 `yaml:"var_high" validate:"gtefield=VarLow"`
}

// Categories bounds the random category count of discrete nodes that
// declare none.
type Categories struct {
	Lower int `yaml:"lower" validate:"min=1"`
	Upper int `yaml:"upper" validate:"gtefield=Lower"`
}

// Simulation holds defaults of simulation runs.
type Simulation struct {
	Seed          uint64 `yaml:"seed"`
	IncludeLatent bool   `yaml:"include_latent"`
	ErsatzMinBins int    `yaml:"ersatz_min_bins" validate:"min=2"`
	ErsatzMaxBins int    `yaml:"ersatz_max_bins" validate:"gtefield=ErsatzMinBins"`
}

// Limits holds structural caps and checks.
type Limits struct {
	MaxRows       int  `yaml:"max_rows" validate:"min=1"`
	EnforceBounds bool `yaml:"enforce_bounds"`
}

// Config is the root of the YAML document.
type Config struct {
	Init       Init       `yaml:"init"`
	Categories Categories `yaml:"categories"`
	Simulation Simulation `yaml:"simulation"`
	Limits     Limits     `yaml:"limits"`
	Tolerance  float64    `yaml:"tolerance" validate:"gt=0"`
}

// Default returns the documented defaults.
func Default() *Config {
	r := rng.DefaultRanges()

	return &Config{
		Init: Init{
			CoefLow:       r.Coef.Low,
			CoefHigh:      r.Coef.High,
			CoefSymmetric: r.Coef.Symmetric,
			MeanLow:       r.Mean.Low,
			MeanHigh:      r.Mean.High,
			VarLow:        r.Variance.Low,
			VarHigh:       r.Variance.High,
		},
		Categories: Categories{Lower: 2, Upper: 4},
		Simulation: Simulation{
			Seed:          rng.DefaultSeed,
			IncludeLatent: cg.DefaultIncludeLatent,
			ErsatzMinBins: cg.DefaultErsatzMinBins,
			ErsatzMaxBins: cg.DefaultErsatzMaxBins,
		},
		Limits: Limits{
			MaxRows:       cg.DefaultMaxRows,
			EnforceBounds: cg.DefaultEnforceBounds,
		},
		Tolerance: cg.DefaultTolerance,
	}
}

// Load reads and validates the YAML file at path. Missing keys keep their
// defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(raw)
}

// Parse decodes and validates a YAML document over the defaults.
func Parse(raw []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s fails %q (value %v)", ErrInvalid, f.Namespace(), f.Tag(), f.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// Ranges returns the random-initialization intervals.
func (c *Config) Ranges() rng.Ranges {
	return rng.Ranges{
		Coef:     rng.Range{Low: c.Init.CoefLow, High: c.Init.CoefHigh, Symmetric: c.Init.CoefSymmetric},
		Mean:     rng.Range{Low: c.Init.MeanLow, High: c.Init.MeanHigh},
		Variance: rng.Range{Low: c.Init.VarLow, High: c.Init.VarHigh},
	}
}

// PmOptions returns the options of cg.NewPm.
func (c *Config) PmOptions() []cg.Option {
	return []cg.Option{
		cg.WithCategoryBounds(c.Categories.Lower, c.Categories.Upper),
		cg.WithMaxRows(c.Limits.MaxRows),
	}
}

// ImOptions returns the options of cg.NewIm and cg.Estimate.
func (c *Config) ImOptions() []cg.Option {
	return []cg.Option{
		cg.WithRanges(c.Ranges()),
		cg.WithEnforceBounds(c.Limits.EnforceBounds),
		cg.WithTolerance(c.Tolerance),
	}
}

// SimOptions returns the options of cg.Simulate, seeded with the configured
// seed.
func (c *Config) SimOptions() []cg.Option {
	return []cg.Option{
		cg.WithSeed(c.Simulation.Seed),
		cg.WithLatent(c.Simulation.IncludeLatent),
		cg.WithErsatzBins(c.Simulation.ErsatzMinBins, c.Simulation.ErsatzMaxBins),
	}
}
