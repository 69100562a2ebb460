package cg_test

import (
	"context"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/metrics"
	"github.com/katalvlaran/cgm/rng"
)

// counterValue sums every series of the named counter family.
func counterValue(t *testing.T, reg *metrics.Registry, name string) float64 {
	t.Helper()
	families, err := reg.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	var (
		sum float64
		fam *dto.MetricFamily
	)
	for _, fam = range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}

	return sum
}

func TestSimulate_SeededDeterminism(t *testing.T) {
	im := randomIm(t, newPm(t, mixedGraph(t)), 3)
	ctx := context.Background()

	a, err := cg.Simulate(ctx, im, 300, cg.WithSeed(42), cg.WithLogger(quiet()))
	require.NoError(t, err)
	b, err := cg.Simulate(ctx, im, 300, cg.WithSeed(42), cg.WithLogger(quiet()))
	require.NoError(t, err)
	assertSameData(t, a, b)
	assert.NotEqual(t, a.Name(), b.Name())
	assert.True(t, strings.HasPrefix(a.Name(), "sim-"))

	c, err := cg.Simulate(ctx, im, 300, cg.WithSeed(43), cg.WithLogger(quiet()))
	require.NoError(t, err)
	assert.False(t, sameFloats(t, a, c, "Z"))
}

func TestSimulate_RestoresContext(t *testing.T) {
	im := randomIm(t, newPm(t, mixedGraph(t)), 3)
	r, twin := rng.New(8), rng.New(8)

	_, err := cg.Simulate(context.Background(), im, 100,
		cg.WithRand(r), cg.WithSeed(9), cg.WithLogger(quiet()))
	require.NoError(t, err)
	assert.Equal(t, twin.Float64(), r.Float64())

	// an unseeded run consumes the context
	_, err = cg.Simulate(context.Background(), im, 100, cg.WithRand(r), cg.WithLogger(quiet()))
	require.NoError(t, err)
	assert.NotEqual(t, twin.Float64(), r.Float64())
}

func TestSimulate_AmbientStream(t *testing.T) {
	im := randomIm(t, newPm(t, mixedGraph(t)), 3)
	ctx := context.Background()

	a, err := cg.Simulate(ctx, im, 50, cg.WithLogger(quiet()))
	require.NoError(t, err)
	b, err := cg.Simulate(ctx, im, 50, cg.WithLogger(quiet()))
	require.NoError(t, err)
	assert.False(t, sameFloats(t, a, b, "Z"))
}

func TestSimulate_Values(t *testing.T) {
	pm := newPm(t, mixedGraph(t))
	im := randomIm(t, pm, 4)
	data, err := cg.Simulate(context.Background(), im, 500, cg.WithSeed(1), cg.WithLogger(quiet()))
	require.NoError(t, err)

	assert.Equal(t, 500, data.NumRows())
	assert.Equal(t, pm.Names(), data.Names())
	for _, v := range data.Variables() {
		if !v.IsDiscrete() {
			continue
		}
		col, err := data.Ints(v.Name)
		require.NoError(t, err)
		for _, c := range col {
			assert.True(t, c >= 0 && c < v.NumCategories(), v.Name)
		}
	}
}

func TestSimulate_UndeterminedRowsAreUniform(t *testing.T) {
	g := core.NewGraph(core.WithVariables(
		core.NewDiscrete("D", "d0", "d1"),
		core.NewDiscrete("E", "e0", "e1", "e2"),
	))
	require.NoError(t, g.AddEdge("D", "E"))
	im, err := cg.NewIm(newPm(t, g))
	require.NoError(t, err)

	data, err := cg.Simulate(context.Background(), im, 3000, cg.WithSeed(5), cg.WithLogger(quiet()))
	require.NoError(t, err)
	col, err := data.Ints("E")
	require.NoError(t, err)
	counts := make([]int, 3)
	for _, c := range col {
		counts[c]++
	}
	for _, n := range counts {
		assert.InDelta(t, 1000, n, 150)
	}
}

func TestSimulate_MixedDiscreteFollowsParent(t *testing.T) {
	// Y is strongly separated by Z: y0 ⇔ Z≈-4, y1 ⇔ Z≈+4
	g := core.NewGraph(core.WithVariables(
		core.NewContinuous("Z"),
		core.NewDiscrete("Y", "y0", "y1"),
	))
	require.NoError(t, g.AddEdge("Z", "Y"))
	pm := newPm(t, g)
	im, err := cg.NewIm(pm)
	require.NoError(t, err)
	require.NoError(t, im.SemIm().SetIntercept("Z", 0))
	require.NoError(t, im.SemIm().SetErrorVariance("Z", 16))
	for cat, mu := range []float64{-4, 4} {
		require.NoError(t, im.SetDiscreteProbability("Y", 0, cat, 0.5))
		require.NoError(t, im.SetDiscreteMean("Y", 0, cat, 0, mu))
		require.NoError(t, im.SetDiscreteStd("Y", 0, cat, 0, 1))
	}

	data, err := cg.Simulate(context.Background(), im, 2000,
		cg.WithSeed(3), cg.WithErsatzBins(2, 2), cg.WithLogger(quiet()))
	require.NoError(t, err)
	y, err := data.Ints("Y")
	require.NoError(t, err)
	z, err := data.Floats("Z")
	require.NoError(t, err)

	var agree int
	for i := range y {
		if (z[i] > 0) == (y[i] == 1) {
			agree++
		}
	}
	assert.Greater(t, agree, 1800)
}

func TestSimulate_Latent(t *testing.T) {
	g := mixedGraph(t)
	x, err := g.Variable("X")
	require.NoError(t, err)
	require.NoError(t, g.ReplaceVariable(x.AsLatent()))
	im := randomIm(t, newPm(t, g), 2)

	all, err := cg.Simulate(context.Background(), im, 20, cg.WithLogger(quiet()))
	require.NoError(t, err)
	assert.True(t, all.HasColumn("X"))
	assert.Equal(t, 6, all.NumColumns())

	measured, err := cg.Simulate(context.Background(), im, 20, cg.WithLatent(false), cg.WithLogger(quiet()))
	require.NoError(t, err)
	assert.False(t, measured.HasColumn("X"))
	assert.True(t, measured.HasColumn("W"))
	assert.Equal(t, 5, measured.NumColumns())
}

func TestSimulate_Errors(t *testing.T) {
	ctx := context.Background()
	im := randomIm(t, newPm(t, mixedGraph(t)), 1)

	_, err := cg.Simulate(ctx, nil, 10)
	assert.ErrorIs(t, err, cg.ErrNilModel)
	_, err = cg.Simulate(ctx, im, 0, cg.WithLogger(quiet()))
	assert.ErrorIs(t, err, cg.ErrBadSampleSize)

	g := core.NewGraph(core.WithVariables(
		core.NewDiscrete("D", "d0", "d1"),
		core.NewContinuous("X"),
		core.NewContinuous("Z"),
	))
	require.NoError(t, g.AddEdge("D", "X"))
	require.NoError(t, g.AddEdge("Z", "X"))
	require.NoError(t, g.AddEdge("X", "Z"))
	_, err = cg.Simulate(ctx, randomIm(t, newPm(t, g), 1), 10, cg.WithLogger(quiet()))
	assert.ErrorIs(t, err, cg.ErrCyclic)
}

func TestSimulate_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	im := randomIm(t, newPm(t, mixedGraph(t)), 1)

	_, err := cg.Simulate(context.Background(), im, 120, cg.WithMetrics(reg), cg.WithLogger(quiet()))
	require.NoError(t, err)
	_, err = cg.Simulate(context.Background(), im, -1, cg.WithMetrics(reg), cg.WithLogger(quiet()))
	require.Error(t, err)

	assert.Equal(t, 2.0, counterValue(t, reg, "cgm_simulations_total"))
	assert.Equal(t, 120.0, counterValue(t, reg, "cgm_simulated_rows_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "cgm_ersatz_discretizations_total"))
}
