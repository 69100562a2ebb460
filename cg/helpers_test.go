package cg_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/dataset"
	"github.com/katalvlaran/cgm/rng"
)

// mixedGraph returns
//
//	D(2) → E(3)        E pure discrete
//	D → X              X mixed-continuous
//	D → Y(2), Z → Y    Y mixed-discrete
//	X → W              W pure continuous
//
// with Z a continuous root.
func mixedGraph(tb testing.TB) *core.Graph {
	tb.Helper()
	g := core.NewGraph(core.WithVariables(
		core.NewDiscrete("D", "d0", "d1"),
		core.NewDiscrete("E", "e0", "e1", "e2"),
		core.NewDiscrete("Y", "y0", "y1"),
		core.NewContinuous("X"),
		core.NewContinuous("Z"),
		core.NewContinuous("W"),
	))
	for _, e := range [][2]string{{"D", "E"}, {"D", "X"}, {"D", "Y"}, {"Z", "Y"}, {"X", "W"}} {
		require.NoError(tb, g.AddEdge(e[0], e[1]))
	}

	return g
}

// regressionGraph returns D(2) → V ← Z, a continuous-mixed V with one
// continuous parent.
func regressionGraph(tb testing.TB) *core.Graph {
	tb.Helper()
	g := core.NewGraph(core.WithVariables(
		core.NewDiscrete("D", "d0", "d1"),
		core.NewContinuous("Z"),
		core.NewContinuous("V"),
	))
	require.NoError(tb, g.AddEdge("D", "V"))
	require.NoError(tb, g.AddEdge("Z", "V"))

	return g
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPm(tb testing.TB, g *core.Graph, opts ...cg.Option) *cg.Pm {
	tb.Helper()
	pm, err := cg.NewPm(g, opts...)
	require.NoError(tb, err)

	return pm
}

func randomIm(tb testing.TB, pm *cg.Pm, seed uint64) *cg.Im {
	tb.Helper()
	im, err := cg.NewIm(pm,
		cg.WithInitMode(cg.Random),
		cg.WithRand(rng.New(seed)),
		cg.WithLogger(quiet()))
	require.NoError(tb, err)

	return im
}

// assertSameData compares two datasets column by column.
func assertSameData(t *testing.T, a, b *dataset.Dataset) {
	t.Helper()
	require.Equal(t, a.Names(), b.Names())
	require.Equal(t, a.NumRows(), b.NumRows())
	for _, v := range a.Variables() {
		if v.IsDiscrete() {
			x, err := a.Ints(v.Name)
			require.NoError(t, err)
			y, err := b.Ints(v.Name)
			require.NoError(t, err)
			assert.Equal(t, x, y, v.Name)
			continue
		}
		x, err := a.Floats(v.Name)
		require.NoError(t, err)
		y, err := b.Floats(v.Name)
		require.NoError(t, err)
		assert.Equal(t, x, y, v.Name)
	}
}

// sameFloats reports whether the named continuous columns are identical.
func sameFloats(t *testing.T, a, b *dataset.Dataset, name string) bool {
	t.Helper()
	x, err := a.Floats(name)
	require.NoError(t, err)
	y, err := b.Floats(name)
	require.NoError(t, err)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}

	return true
}
