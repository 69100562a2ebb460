package cg_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/core"
)

func TestNewPm_Classification(t *testing.T) {
	pm := newPm(t, mixedGraph(t))

	want := map[string]cg.Role{
		"D": cg.Pure, "E": cg.Pure, "Z": cg.Pure, "W": cg.Pure,
		"X": cg.MixedContinuous, "Y": cg.MixedDiscrete,
	}
	for name, role := range want {
		got, err := pm.Role(name)
		require.NoError(t, err)
		assert.Equal(t, role, got, name)
	}
	_, err := pm.Role("Q")
	assert.ErrorIs(t, err, cg.ErrNodeNotFound)

	y, err := pm.MixedNode("Y")
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, y.DiscreteParents)
	assert.Equal(t, []int{2}, y.ParentDims)
	assert.Equal(t, []string{"Z"}, y.ContinuousParents)
	assert.Equal(t, 2, y.Rows)
	assert.Equal(t, 2, y.NumCategories())
	assert.Equal(t, 1, y.NumSlots())

	x, err := pm.MixedNode("X")
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, x.DiscreteParents)
	assert.Empty(t, x.ContinuousParents)
	assert.Equal(t, 1, x.NumCategories())
	assert.Equal(t, 1, x.NumSlots())

	_, err = pm.MixedNode("E")
	assert.ErrorIs(t, err, cg.ErrNotMixed)

	assert.Len(t, pm.DiscreteNodes(), 1)
	assert.Len(t, pm.ContinuousNodes(), 1)
	assert.Equal(t, []string{"D", "E", "Y"}, pm.BayesPm().Names())
	assert.Equal(t, []string{"W", "X", "Z"}, pm.SemPm().Names())
	assert.True(t, pm.IsAcyclic())
	assert.Equal(t, cg.DefaultMaxRows, pm.MaxRows())

	rows, err := pm.NumRows("E")
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	rows, err = pm.NumRows("Z")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestNewPm_Categories(t *testing.T) {
	bare := func() *core.Graph {
		g := core.NewGraph(core.WithVariables(
			&core.Variable{Name: "K", Kind: core.Discrete},
			core.NewContinuous("X"),
		))
		require.NoError(t, g.AddEdge("K", "X"))
		return g
	}

	_, err := cg.NewPm(bare())
	assert.ErrorIs(t, err, cg.ErrNoCategories)

	drawn := newPm(t, bare(), cg.WithCategoryBounds(3, 3))
	v, err := drawn.Variable("K")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, v.Categories)

	prior := newPm(t, mixedGraph(t))
	g := mixedGraph(t)
	require.NoError(t, g.ReplaceVariable(core.NewDiscrete("E", "only")))
	pm := newPm(t, g, cg.WithPriorPm(prior))
	v, err = pm.Variable("E")
	require.NoError(t, err)
	assert.Equal(t, []string{"e0", "e1", "e2"}, v.Categories)

	// the input graph keeps its own definition
	orig, err := g.Variable("E")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, orig.Categories)

	_, err = cg.NewPm(nil)
	assert.ErrorIs(t, err, cg.ErrGraphNil)
}

func TestNewPm_TooManyRows(t *testing.T) {
	g := regressionGraph(t)
	require.NoError(t, g.AddVariable(core.NewDiscrete("F", "f0", "f1")))
	require.NoError(t, g.AddEdge("F", "V"))

	_, err := cg.NewPm(g, cg.WithMaxRows(3))
	assert.ErrorIs(t, err, cg.ErrTooManyRows)

	pm := newPm(t, g, cg.WithMaxRows(4))
	rows, err := pm.NumRows("V")
	require.NoError(t, err)
	assert.Equal(t, 4, rows)

	// the categorical sub-model is capped as well
	d := core.NewGraph(core.WithVariables(
		core.NewDiscrete("A", "0", "1"),
		core.NewDiscrete("B", "0", "1"),
		core.NewDiscrete("C", "0", "1"),
	))
	require.NoError(t, d.AddEdge("A", "C"))
	require.NoError(t, d.AddEdge("B", "C"))
	_, err = cg.NewPm(d, cg.WithMaxRows(3))
	assert.ErrorIs(t, err, cg.ErrTooManyRows)
}

func TestPm_Recategorize(t *testing.T) {
	pm := newPm(t, mixedGraph(t))
	np, err := pm.Recategorize("D", []string{"a", "b", "c"})
	require.NoError(t, err)

	y, err := np.MixedNode("Y")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, y.ParentDims)
	assert.Equal(t, 3, y.Rows)
	rows, err := np.NumRows("E")
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	// other nodes keep their categories
	v, err := np.Variable("E")
	require.NoError(t, err)
	assert.Equal(t, []string{"e0", "e1", "e2"}, v.Categories)

	// the receiver is untouched
	y, err = pm.MixedNode("Y")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, y.ParentDims)
	v, err = pm.Variable("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"d0", "d1"}, v.Categories)

	_, err = pm.Recategorize("X", []string{"a"})
	assert.ErrorIs(t, err, cg.ErrNotDiscrete)
	_, err = pm.Recategorize("Q", []string{"a"})
	assert.ErrorIs(t, err, cg.ErrNodeNotFound)
	_, err = pm.Recategorize("D", nil)
	assert.ErrorIs(t, err, cg.ErrNoCategories)
}

func TestPm_RecategorizeKeepsLiveModels(t *testing.T) {
	pm := newPm(t, mixedGraph(t))
	old := randomIm(t, pm, 5)
	data, err := cg.Simulate(context.Background(), old, 300, cg.WithSeed(3), cg.WithLogger(quiet()))
	require.NoError(t, err)
	before, err := cg.LogLikelihood(old, data)
	require.NoError(t, err)

	np, err := pm.Recategorize("Y", []string{"a", "b", "c"})
	require.NoError(t, err)

	// the old model still scores its own data
	after, err := cg.LogLikelihood(old, data)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	dist, err := old.DiscreteDistribution("Y", 0)
	require.NoError(t, err)
	assert.Len(t, dist, 2)

	// Y changed its category count: every row is reinitialized, never mixed
	im, err := cg.NewIm(np, cg.WithInitMode(cg.Manual), cg.WithSeedIm(old), cg.WithLogger(quiet()))
	require.NoError(t, err)
	for row := 0; row < 2; row++ {
		dist, err = im.DiscreteDistribution("Y", row)
		require.NoError(t, err)
		require.Len(t, dist, 3)
		for c, p := range dist {
			assert.True(t, math.IsNaN(p), "row %d category %d", row, c)
		}
	}

	// X does not depend on Y and is copied
	for row := 0; row < 2; row++ {
		want, err := old.Mean("X", row, 0)
		require.NoError(t, err)
		got, err := im.Mean("X", row, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPm_Parameters(t *testing.T) {
	pm := newPm(t, mixedGraph(t))
	params := pm.Parameters()

	// Y: 2 rows × 2 categories × (probability + mean + variance of Z)
	// X: 2 rows × (mean + variance)
	require.Len(t, params, 2*2*3+2*2)
	assert.Equal(t, len(params), pm.NumParameters())

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		assert.False(t, seen[p.Name()], p.Name())
		seen[p.Name()] = true
	}
	assert.Equal(t, cg.ParamProbability, params[0].Type)
	assert.Equal(t, "Y", params[0].Node)
	assert.Equal(t, "probability(Y|Y=0,row=0)", params[0].Name())
	assert.Equal(t, "mean(Z|Y=0,row=0)", params[1].Name())
	assert.Equal(t, "mean(X|X,row=0)", params[12].Name())

	pm = newPm(t, regressionGraph(t))
	// V: 2 rows × (mean, variance of V + coefficient, mean, variance of Z)
	assert.Equal(t, 2*5, pm.NumParameters())
}

func TestRegistry_Correspond(t *testing.T) {
	old := cg.NewRegistry([]string{"C", "A", "B"})
	assert.Equal(t, []string{"A", "B", "C"}, old.Names())
	i, ok := old.Index("C")
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	cur := cg.NewRegistry([]string{"B", "D", "A"})
	assert.Equal(t, []int{0, 1, -1}, cur.Correspond(old))
	assert.Equal(t, []int{-1, -1, -1}, cur.Correspond(nil))
	assert.Equal(t, "D", cur.Name(2))
	assert.Equal(t, 3, cur.Len())
}

func TestIm_Value(t *testing.T) {
	pm := newPm(t, regressionGraph(t))
	im := randomIm(t, pm, 4)

	for _, p := range pm.Parameters() {
		v, err := im.Value(p)
		require.NoError(t, err, p.Name())
		switch {
		case p.Type == cg.ParamVariance && p.Slot == 0:
			want, err := im.Covariance(p.Node, p.Row, 0)
			require.NoError(t, err)
			assert.Equal(t, want, v)
		case p.Type == cg.ParamVariance:
			sd, err := im.Std(p.Node, p.Row, p.Slot)
			require.NoError(t, err)
			assert.InDelta(t, sd*sd, v, 1e-12)
		case p.Type == cg.ParamCoefficient:
			want, err := im.Coefficient(p.Node, p.Row, p.Slot)
			require.NoError(t, err)
			assert.Equal(t, want, v)
		}
	}

	_, err := im.Value(cg.Parameter{Type: cg.ParamProbability, Node: "V", Category: -1})
	assert.ErrorIs(t, err, cg.ErrOutOfRange)
}
