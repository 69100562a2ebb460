// SPDX-License-Identifier: MIT

package tensor_test

import (
	"fmt"
	"math"

	"github.com/katalvlaran/cgm/tensor"
)

// ExampleArena stores probabilities for two nodes, one with 2 parent
// configurations and 3 categories, one with a single configuration.
func ExampleArena() {
	a, err := tensor.NewArena([]tensor.Shape{
		{Rows: 2, Cols: 3, Slots: 1},
		{Rows: 1, Cols: 2, Slots: 1},
	}, math.NaN())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	_ = a.Set(0, 1, 2, 0, 0.5)

	v, _ := a.At(0, 1, 2, 0)
	u, _ := a.At(1, 0, 0, 0)
	_, err = a.At(0, 2, 0, 0)
	fmt.Println(v, math.IsNaN(u), err)

	// Output:
	// 0.5 true Arena.At(0,2,0,0): tensor: index out of range
}
