// SPDX-License-Identifier: MIT

package tensor_test

import (
	"testing"

	"github.com/katalvlaran/cgm/tensor"
)

// BenchmarkArena_SetAt measures a bounds-checked write followed by a read.
func BenchmarkArena_SetAt(b *testing.B) {
	a, _ := tensor.NewArena([]tensor.Shape{{Rows: 64, Cols: 4, Slots: 3}}, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := i & 63
		_ = a.Set(0, r, 2, 1, float64(i))
		_, _ = a.At(0, r, 2, 1)
	}
}
