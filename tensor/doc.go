// SPDX-License-Identifier: MIT

// Package tensor stores the numeric parameters of a model as a list of
// three-index blocks (row, col, slot) in one flat float64 buffer.
//
// Each block belongs to one node: rows are parent configurations, columns are
// child categories and slots are per-parent entries. Addressing a cell takes
// four integers (block, row, col, slot); the stride arithmetic and every
// bounds check live in Arena.indexOf.
//
// NaN is a first-class value meaning "undetermined". Equal and Close treat
// two NaNs as equal and a NaN against a number as different.
//
// Errors: ErrBadShape, ErrOutOfRange, ErrShapeMismatch, ErrNilArena.
package tensor
