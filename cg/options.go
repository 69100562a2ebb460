// SPDX-License-Identifier: MIT

// Package cg: functional configuration shared by NewPm, NewIm, Estimate and
// Simulate. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Every entry point accepts ...Option and reads only the fields it needs, so
// one option slice (for example one built from a config file) can be passed
// to all of them.

package cg

import (
	"log/slog"

	"github.com/katalvlaran/cgm/metrics"
	"github.com/katalvlaran/cgm/rng"
)

// InitMode selects how fresh parameter cells are filled.
type InitMode uint8

const (
	// Manual fills fresh cells with NaN ("not yet set").
	Manual InitMode = iota
	// Random draws fresh cells from the configured ranges.
	Random
)

// String returns "manual" or "random".
func (m InitMode) String() string {
	if m == Random {
		return "random"
	}

	return "manual"
}

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultMaxRows caps the parent configurations of any node.
	DefaultMaxRows = 1_000_000

	// DefaultTolerance is the per-cell tolerance of Im.Equal.
	DefaultTolerance = 1e-6

	// DefaultErsatzMinBins and DefaultErsatzMaxBins bound the random number of
	// equal-frequency bins used for continuous parents of discrete nodes.
	DefaultErsatzMinBins = 2
	DefaultErsatzMaxBins = 4

	// DefaultIncludeLatent keeps latent variables in simulated output.
	DefaultIncludeLatent = true

	// DefaultEnforceBounds rejects negative variances in setters.
	DefaultEnforceBounds = true
)

// Options holds resolved settings. Fields are unexported; use WithX.
type Options struct {
	priorPm   *Pm
	catBounds bool
	catLow    int
	catHigh   int
	maxRows   int

	mode          InitMode
	seedIm        *Im
	ranges        rng.Ranges
	enforceBounds bool
	tolerance     float64

	rand          *rng.Context
	seed          uint64
	seeded        bool
	includeLatent bool
	ersatzMin     int
	ersatzMax     int

	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		maxRows:       DefaultMaxRows,
		mode:          Manual,
		ranges:        rng.DefaultRanges(),
		enforceBounds: DefaultEnforceBounds,
		tolerance:     DefaultTolerance,
		includeLatent: DefaultIncludeLatent,
		ersatzMin:     DefaultErsatzMinBins,
		ersatzMax:     DefaultErsatzMaxBins,
		logger:        slog.Default(),
	}
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithPriorPm makes NewPm reuse the categories of same-name discrete nodes of prior.
func WithPriorPm(prior *Pm) Option {
	return func(o *Options) { o.priorPm = prior }
}

// WithCategoryBounds lets NewPm draw a category count in [lo, hi] for discrete
// nodes that declare no categories and have no prior. Panics if lo < 0 or hi < lo.
func WithCategoryBounds(lo, hi int) Option {
	if lo < 0 || hi < lo {
		panic("cg: WithCategoryBounds requires 0 <= lo <= hi")
	}

	return func(o *Options) {
		o.catBounds = true
		o.catLow, o.catHigh = lo, hi
	}
}

// WithMaxRows overrides the parent-configuration cap. Panics if n <= 0.
func WithMaxRows(n int) Option {
	if n <= 0 {
		panic("cg: WithMaxRows requires n > 0")
	}

	return func(o *Options) { o.maxRows = n }
}

// WithInitMode selects Manual or Random initialization in NewIm.
func WithInitMode(m InitMode) Option {
	return func(o *Options) { o.mode = m }
}

// WithSeedIm makes NewIm copy every exactly matching row from old.
func WithSeedIm(old *Im) Option {
	return func(o *Options) { o.seedIm = old }
}

// WithRanges sets the intervals of Random initialization.
// Panics unless 0 < Variance.Low <= Variance.High and Low <= High for the others.
func WithRanges(r rng.Ranges) Option {
	if r.Variance.Low <= 0 || r.Variance.High < r.Variance.Low ||
		r.Coef.High < r.Coef.Low || r.Mean.High < r.Mean.Low {
		panic("cg: WithRanges requires ordered ranges and a positive variance range")
	}

	return func(o *Options) { o.ranges = r }
}

// WithEnforceBounds toggles rejection of negative variances in setters.
func WithEnforceBounds(on bool) Option {
	return func(o *Options) { o.enforceBounds = on }
}

// WithTolerance sets the per-cell tolerance of Im.Equal. Panics if tol < 0.
func WithTolerance(tol float64) Option {
	if tol < 0 {
		panic("cg: WithTolerance requires tol >= 0")
	}

	return func(o *Options) { o.tolerance = tol }
}

// WithRand injects the random context. Passing nil has no effect.
func WithRand(r *rng.Context) Option {
	return func(o *Options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithSeed makes Simulate run on the given seed and restore the random
// context afterwards.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithLatent controls whether latent variables appear in simulated output.
func WithLatent(include bool) Option {
	return func(o *Options) { o.includeLatent = include }
}

// WithErsatzBins bounds the random bin count of ersatz discretizations.
// Panics if min < 2 or max < min.
func WithErsatzBins(min, max int) Option {
	if min < 2 || max < min {
		panic("cg: WithErsatzBins requires 2 <= min <= max")
	}

	return func(o *Options) { o.ersatzMin, o.ersatzMax = min, max }
}

// WithLogger sets the structured logger. Passing nil has no effect.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *Options) { o.metrics = m }
}
