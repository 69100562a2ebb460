// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
// All accessors return these sentinels (possibly wrapped with coordinates);
// callers match them with errors.Is. No accessor panics on bad indices.

package tensor

import "errors"

var (
	// ErrBadShape is returned when a block shape has a non-positive extent.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates that a block, row, column or slot index is
	// outside the bounds of its block.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrShapeMismatch indicates two arenas (or two rows) with different layouts.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrNilArena indicates that a nil *Arena was used.
	ErrNilArena = errors.New("tensor: nil arena")
)
