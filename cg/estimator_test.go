package cg_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/dataset"
	"github.com/katalvlaran/cgm/metrics"
	"github.com/katalvlaran/cgm/rng"
)

// twoMeans returns D(2) → X with X ~ N(5,1) when D=0 and N(-5,1) when D=1.
func twoMeans(t *testing.T, n int) (*core.Graph, *dataset.Dataset) {
	t.Helper()
	g := core.NewGraph(core.WithVariables(core.NewDiscrete("D", "d0", "d1"), core.NewContinuous("X")))
	require.NoError(t, g.AddEdge("D", "X"))

	data, err := dataset.New(g.Variables(), n)
	require.NoError(t, err)
	r := rng.New(11)
	for i := 0; i < n; i++ {
		d := i % 2
		mu := 5.0
		if d == 1 {
			mu = -5
		}
		require.NoError(t, data.SetInt(i, 0, d))
		require.NoError(t, data.SetFloat(i, 1, r.Normal(mu, 1)))
	}

	return g, data
}

func TestEstimate_ConditionalMeans(t *testing.T) {
	g, data := twoMeans(t, 5000)
	pm := newPm(t, g)
	im, err := cg.Estimate(context.Background(), pm, data, cg.WithLogger(quiet()))
	require.NoError(t, err)

	for row, want := range []float64{5, -5} {
		mean, err := im.Mean("X", row, 0)
		require.NoError(t, err)
		assert.InDelta(t, want, mean, 0.2)

		sd, err := im.Std("X", row, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sd, 0.1)

		v, err := im.Covariance("X", row, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, v, 0.15)

		icpt, err := im.Intercept("X", row)
		require.NoError(t, err)
		assert.InDelta(t, mean, icpt, 1e-9)
	}

	d, err := pm.BayesPm().NodeIndex("D")
	require.NoError(t, err)
	p, err := im.BayesIm().Probability(d, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)
}

func TestEstimate_UnsupportedRowIsNaN(t *testing.T) {
	g := core.NewGraph(core.WithVariables(
		core.NewDiscrete("D", "d0", "d1"),
		core.NewDiscrete("Y", "y0", "y1"),
		core.NewContinuous("Z"),
	))
	require.NoError(t, g.AddEdge("D", "Y"))
	require.NoError(t, g.AddEdge("Z", "Y"))

	const n = 200
	data, err := dataset.New(g.Variables(), n)
	require.NoError(t, err)
	r := rng.New(2)
	for i := 0; i < n; i++ {
		require.NoError(t, data.SetInt(i, 0, 0)) // D=1 never observed
		require.NoError(t, data.SetInt(i, 1, i%2))
		require.NoError(t, data.SetFloat(i, 2, r.Normal(float64(i%2), 1)))
	}

	im, err := cg.Estimate(context.Background(), newPm(t, g), data, cg.WithLogger(quiet()))
	require.NoError(t, err)

	for cat := 0; cat < 2; cat++ {
		p, err := im.DiscreteProbability("Y", 1, cat)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(p), "category %d", cat)

		m, err := im.DiscreteMean("Y", 1, cat, 0)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(m))

		p, err = im.DiscreteProbability("Y", 0, cat)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, p, 1e-12)

		m, err = im.DiscreteMean("Y", 0, cat, 0)
		require.NoError(t, err)
		assert.InDelta(t, float64(cat), m, 0.4)
	}
}

func TestEstimate_RoundTrip(t *testing.T) {
	pm := newPm(t, mixedGraph(t))
	truth := randomIm(t, pm, 5)
	data, err := cg.Simulate(context.Background(), truth, 20000, cg.WithSeed(1), cg.WithLogger(quiet()))
	require.NoError(t, err)

	est, err := cg.Estimate(context.Background(), pm, data, cg.WithLogger(quiet()))
	require.NoError(t, err)

	for row := 0; row < 2; row++ {
		want, err := truth.Mean("X", row, 0)
		require.NoError(t, err)
		got, err := est.Mean("X", row, 0)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.1)

		want, err = truth.Covariance("X", row, 0)
		require.NoError(t, err)
		got, err = est.Covariance("X", row, 0)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.2)
	}

	e, err := pm.BayesPm().NodeIndex("E")
	require.NoError(t, err)
	for row := 0; row < 2; row++ {
		for cat := 0; cat < 3; cat++ {
			want, err := truth.BayesIm().Probability(e, row, cat)
			require.NoError(t, err)
			got, err := est.BayesIm().Probability(e, row, cat)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 0.03)
		}
	}

	want, err := truth.SemIm().Coefficient("W", "X")
	require.NoError(t, err)
	got, err := est.SemIm().Coefficient("W", "X")
	require.NoError(t, err)
	assert.InDelta(t, want, got, 0.05)
}

func TestEstimate_Errors(t *testing.T) {
	pm := newPm(t, mixedGraph(t))

	_, err := cg.Estimate(context.Background(), nil, nil)
	assert.ErrorIs(t, err, cg.ErrNilModel)

	short, err := dataset.New([]*core.Variable{core.NewDiscrete("D", "d0", "d1")}, 10)
	require.NoError(t, err)
	_, err = cg.Estimate(context.Background(), pm, short, cg.WithLogger(quiet()))
	assert.ErrorIs(t, err, cg.ErrColumnMissing)

	vars := pm.Graph().Variables()
	for i, v := range vars {
		if v.Name == "X" {
			vars[i] = core.NewDiscrete("X", "a")
		}
	}
	wrong, err := dataset.New(vars, 10)
	require.NoError(t, err)
	_, err = cg.Estimate(context.Background(), pm, wrong, cg.WithLogger(quiet()))
	assert.ErrorIs(t, err, cg.ErrColumnMissing)

	data, err := cg.Simulate(context.Background(), randomIm(t, pm, 1), 50, cg.WithLogger(quiet()))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cg.Estimate(ctx, pm, data, cg.WithLogger(quiet()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEstimate_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	g, data := twoMeans(t, 100)
	_, err := cg.Estimate(context.Background(), newPm(t, g), data,
		cg.WithMetrics(reg), cg.WithLogger(quiet()))
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg, "cgm_estimations_total"))
}

func TestEstimate_RegressionRoundTrip(t *testing.T) {
	pm := newPm(t, regressionGraph(t))
	truth := randomIm(t, pm, 2)
	data, err := cg.Simulate(context.Background(), truth, 40000, cg.WithSeed(2), cg.WithLogger(quiet()))
	require.NoError(t, err)

	est, err := cg.Estimate(context.Background(), pm, data, cg.WithLogger(quiet()))
	require.NoError(t, err)

	// Z is a pure root: its law comes from the linear Gaussian sub-model
	zMean, err := truth.SemIm().Intercept("Z")
	require.NoError(t, err)
	zVar, err := truth.SemIm().ErrorVariance("Z")
	require.NoError(t, err)

	for row := 0; row < 2; row++ {
		coef, err := truth.Coefficient("V", row, 1)
		require.NoError(t, err)
		got, err := est.Coefficient("V", row, 1)
		require.NoError(t, err)
		assert.InDelta(t, coef, got, 0.1, "coefficient row %d", row)

		resVar, err := truth.Covariance("V", row, 0)
		require.NoError(t, err)
		got, err = est.Covariance("V", row, 0)
		require.NoError(t, err)
		assert.InEpsilon(t, resVar, got, 0.1, "residual variance row %d", row)

		want, err := truth.Intercept("V", row)
		require.NoError(t, err)
		got, err = est.Intercept("V", row)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.15, "intercept row %d", row)

		got, err = est.Mean("V", row, 1)
		require.NoError(t, err)
		assert.InDelta(t, zMean, got, 0.1, "parent mean row %d", row)
		got, err = est.Std("V", row, 1)
		require.NoError(t, err)
		assert.InEpsilon(t, math.Sqrt(zVar), got, 0.1, "parent std row %d", row)

		corr := coef * math.Sqrt(zVar) / math.Sqrt(coef*coef*zVar+resVar)
		got, err = est.Correlation("V", row, 1)
		require.NoError(t, err)
		assert.InDelta(t, corr, got, 0.05, "correlation row %d", row)

		self, err := est.Coefficient("V", row, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, self)
	}
}

func TestEstimate_DiscreteMixedRoundTrip(t *testing.T) {
	g := core.NewGraph(core.WithVariables(
		core.NewDiscrete("D", "d0", "d1"),
		core.NewDiscrete("Y", "y0", "y1"),
		core.NewContinuous("Z"),
	))
	require.NoError(t, g.AddEdge("D", "Y"))
	require.NoError(t, g.AddEdge("Z", "Y"))

	// P(Y=1 | D=d) and Z | (D=d, Y=y) ~ N(3y - d, (1 + y/2)²)
	pY := []float64{0.3, 0.8}
	const n = 20000
	data, err := dataset.New(g.Variables(), n)
	require.NoError(t, err)
	r := rng.New(8)
	for i := 0; i < n; i++ {
		d, y := i%2, 0
		if r.Float64() < pY[d] {
			y = 1
		}
		require.NoError(t, data.SetInt(i, 0, d))
		require.NoError(t, data.SetInt(i, 1, y))
		require.NoError(t, data.SetFloat(i, 2, r.Normal(float64(3*y-d), 1+float64(y)/2)))
	}

	im, err := cg.Estimate(context.Background(), newPm(t, g), data, cg.WithLogger(quiet()))
	require.NoError(t, err)

	for d := 0; d < 2; d++ {
		p, err := im.DiscreteProbability("Y", d, 1)
		require.NoError(t, err)
		assert.InDelta(t, pY[d], p, 0.02, "P(Y=1|D=%d)", d)

		for y := 0; y < 2; y++ {
			mean, err := im.DiscreteMean("Y", d, y, 0)
			require.NoError(t, err)
			assert.InDelta(t, float64(3*y-d), mean, 0.1, "mean d=%d y=%d", d, y)

			sd, err := im.DiscreteStd("Y", d, y, 0)
			require.NoError(t, err)
			assert.InDelta(t, 1+float64(y)/2, sd, 0.1, "std d=%d y=%d", d, y)
		}
	}
}
