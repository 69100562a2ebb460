package rng

// Range is an interval for random parameter initialization.
// When Symmetric is set, the sign of each draw is flipped with probability 1/2,
// giving values in [-High, -Low] ∪ [Low, High].
type Range struct {
	Low       float64
	High      float64
	Symmetric bool
}

// Draw returns one value from r.
func (c *Context) Draw(r Range) float64 {
	v := r.Low
	if r.High > r.Low {
		v = c.Uniform(r.Low, r.High)
	}
	if r.Symmetric && c.Float64() < 0.5 {
		v = -v
	}

	return v
}

// Ranges groups the intervals used when a model is filled at random.
type Ranges struct {
	Coef     Range // edge coefficients
	Mean     Range // means and intercepts
	Variance Range // error variances; Low must be > 0
}

// DefaultRanges returns coefficients in ±[0.5, 1.5], means in [-1, 1] and
// variances in [1, 3].
func DefaultRanges() Ranges {
	return Ranges{
		Coef:     Range{Low: 0.5, High: 1.5, Symmetric: true},
		Mean:     Range{Low: -1, High: 1},
		Variance: Range{Low: 1, High: 3},
	}
}
