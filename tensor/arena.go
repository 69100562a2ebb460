// SPDX-License-Identifier: MIT

// Package tensor - flat, block-structured parameter storage & safe accessors.
//
// Purpose:
//   - Store a list of 3-index blocks (row, col, slot) in one contiguous buffer.
//   - Make the shape of every block enforceable in one place (indexOf).
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//
// Layout:
//   - Block b starts at offsets[b]; inside it the order is row-major over
//     (row, col, slot): off = offsets[b] + (row*Cols + col)*Slots + slot.
//
// Complexity quicksheet:
//   - NewArena: O(total); At/Set: O(1); Clone/Fill/Equal: O(total).

package tensor

import (
	"fmt"
	"math"
)

// ---------- error context tags ----------

const (
	ctxAt    = "At"
	ctxSet   = "Set"
	ctxRow   = "Row"
	ctxCopy  = "CopyCell"
	ctxShape = "Shape"
)

// arenaErrorf wraps an error with a uniform Arena context and callsite indices.
func arenaErrorf(method string, block, row, col, slot int, err error) error {
	return fmt.Errorf("Arena.%s(%d,%d,%d,%d): %w", method, block, row, col, slot, err)
}

// Shape is the extent of one block.
type Shape struct {
	Rows  int // parent configurations
	Cols  int // categories (1 when unused)
	Slots int // per-cell parameter slots (1 when unused)
}

// Size returns Rows*Cols*Slots.
func (s Shape) Size() int { return s.Rows * s.Cols * s.Slots }

// Arena is a list of blocks stored in one flat buffer.
//   - shapes[b] is the extent of block b.
//   - offsets[b] is the start of block b in data.
//   - data has length Σ shapes[b].Size().
type Arena struct {
	shapes  []Shape
	offsets []int
	data    []float64
}

// NewArena allocates an arena with one block per shape, every cell set to fill.
//
// Errors:
//   - ErrBadShape if any extent is <= 0.
//
// Complexity: O(total cells).
func NewArena(shapes []Shape, fill float64) (*Arena, error) {
	var (
		total int
		b     int
	)
	offsets := make([]int, len(shapes))
	for b = range shapes {
		if shapes[b].Rows <= 0 || shapes[b].Cols <= 0 || shapes[b].Slots <= 0 {
			return nil, fmt.Errorf("Arena block %d %+v: %w", b, shapes[b], ErrBadShape)
		}
		offsets[b] = total
		total += shapes[b].Size()
	}

	a := &Arena{
		shapes:  make([]Shape, len(shapes)),
		offsets: offsets,
		data:    make([]float64, total),
	}
	copy(a.shapes, shapes)
	if fill != 0 {
		a.Fill(fill)
	}

	return a, nil
}

// Blocks returns the number of blocks.
func (a *Arena) Blocks() int { return len(a.shapes) }

// Len returns the total number of cells.
func (a *Arena) Len() int { return len(a.data) }

// Shape returns the extent of block b.
func (a *Arena) Shape(b int) (Shape, error) {
	if b < 0 || b >= len(a.shapes) {
		return Shape{}, arenaErrorf(ctxShape, b, 0, 0, 0, ErrOutOfRange)
	}

	return a.shapes[b], nil
}

// indexOf validates coordinates and returns the flat offset.
func (a *Arena) indexOf(b, row, col, slot int) (int, error) {
	if b < 0 || b >= len(a.shapes) {
		return 0, ErrOutOfRange
	}
	s := a.shapes[b]
	if row < 0 || row >= s.Rows {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= s.Cols {
		return 0, ErrOutOfRange
	}
	if slot < 0 || slot >= s.Slots {
		return 0, ErrOutOfRange
	}

	return a.offsets[b] + (row*s.Cols+col)*s.Slots + slot, nil
}

// At returns the cell at (b, row, col, slot).
func (a *Arena) At(b, row, col, slot int) (float64, error) {
	off, err := a.indexOf(b, row, col, slot)
	if err != nil {
		return 0, arenaErrorf(ctxAt, b, row, col, slot, err)
	}

	return a.data[off], nil
}

// Set stores v at (b, row, col, slot). NaN is a legal value ("undetermined").
func (a *Arena) Set(b, row, col, slot int, v float64) error {
	off, err := a.indexOf(b, row, col, slot)
	if err != nil {
		return arenaErrorf(ctxSet, b, row, col, slot, err)
	}
	a.data[off] = v

	return nil
}

// Row returns a no-copy view of row r of block b: Cols*Slots cells in
// (col, slot) order. Writes through the view mutate the arena.
func (a *Arena) Row(b, r int) ([]float64, error) {
	off, err := a.indexOf(b, r, 0, 0)
	if err != nil {
		return nil, arenaErrorf(ctxRow, b, r, 0, 0, err)
	}
	s := a.shapes[b]

	return a.data[off : off+s.Cols*s.Slots : off+s.Cols*s.Slots], nil
}

// CopyCell copies one cell from src into a.
func (a *Arena) CopyCell(src *Arena, sb, sr, sc, ss, db, dr, dc, ds int) error {
	if src == nil {
		return ErrNilArena
	}
	v, err := src.At(sb, sr, sc, ss)
	if err != nil {
		return err
	}
	off, err := a.indexOf(db, dr, dc, ds)
	if err != nil {
		return arenaErrorf(ctxCopy, db, dr, dc, ds, err)
	}
	a.data[off] = v

	return nil
}

// Fill sets every cell to v.
func (a *Arena) Fill(v float64) {
	var i int
	for i = range a.data {
		a.data[i] = v
	}
}

// FillRow sets every cell of row r in block b to v.
func (a *Arena) FillRow(b, r int, v float64) error {
	row, err := a.Row(b, r)
	if err != nil {
		return err
	}
	var i int
	for i = range row {
		row[i] = v
	}

	return nil
}

// Clone returns a deep copy.
func (a *Arena) Clone() *Arena {
	c := &Arena{
		shapes:  make([]Shape, len(a.shapes)),
		offsets: make([]int, len(a.offsets)),
		data:    make([]float64, len(a.data)),
	}
	copy(c.shapes, a.shapes)
	copy(c.offsets, a.offsets)
	copy(c.data, a.data)

	return c
}

// Do calls f for every cell in layout order; iteration stops when f returns false.
func (a *Arena) Do(f func(b, row, col, slot int, v float64) bool) {
	var b, r, c, s, off int
	for b = range a.shapes {
		sh := a.shapes[b]
		off = a.offsets[b]
		for r = 0; r < sh.Rows; r++ {
			for c = 0; c < sh.Cols; c++ {
				for s = 0; s < sh.Slots; s++ {
					if !f(b, r, c, s, a.data[off]) {
						return
					}
					off++
				}
			}
		}
	}
}

// CountNaN returns the number of NaN cells.
func (a *Arena) CountNaN() int {
	var n int
	for _, v := range a.data {
		if math.IsNaN(v) {
			n++
		}
	}

	return n
}

// SameShape reports whether a and o have identical block layouts.
func (a *Arena) SameShape(o *Arena) bool {
	if a == nil || o == nil || len(a.shapes) != len(o.shapes) {
		return false
	}
	for b := range a.shapes {
		if a.shapes[b] != o.shapes[b] {
			return false
		}
	}

	return true
}

// Equal reports whether a and o have the same layout and every pair of
// cells differs by at most tol. Two NaNs are equal; NaN and a number are not.
//
// Complexity: O(total cells).
func (a *Arena) Equal(o *Arena, tol float64) bool {
	if !a.SameShape(o) {
		return false
	}
	var i int
	for i = range a.data {
		if !Close(a.data[i], o.data[i], tol) {
			return false
		}
	}

	return true
}

// Close compares two cells under the NaN-aware tolerance rule used by Equal.
func Close(x, y, tol float64) bool {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	if xn || yn {
		return xn && yn
	}
	if x == y {
		return true
	}

	return math.Abs(x-y) <= tol
}
