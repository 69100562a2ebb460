package dfs_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/dfs"
)

// BenchmarkTopologicalSort_Chain1000 sorts a 1,000-variable chain.
func BenchmarkTopologicalSort_Chain1000(b *testing.B) {
	g := core.NewGraph()
	for i := 0; i < 1000; i++ {
		_ = g.AddVariable(core.NewContinuous(fmt.Sprintf("N%04d", i)))
	}
	for i := 0; i < 999; i++ {
		_ = g.AddEdge(fmt.Sprintf("N%04d", i), fmt.Sprintf("N%04d", i+1))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dfs.TopologicalSort(g); err != nil {
			b.Fatal(err)
		}
	}
}
