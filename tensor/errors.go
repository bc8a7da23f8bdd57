// SPDX-License-Identifier: MIT

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSide is returned when a requested hypercube side is < 1.
	ErrInvalidSide = errors.New("tensor: side must be >= 1")

	// ErrIndexOutOfRange indicates that an index component is outside [0, side).
	ErrIndexOutOfRange = errors.New("tensor: index out of range")

	// ErrShapeMismatch indicates two buffers with different sides were combined.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrNilBuffer indicates that a nil buffer (receiver or argument) was used.
	ErrNilBuffer = errors.New("tensor: nil buffer")
)

// indexErrorf wraps an error with the accessor name and the offending index.
func indexErrorf(method string, idx Index, err error) error {
	return fmt.Errorf("tensor.%s(%d,%d,%d,%d): %w", method, idx[0], idx[1], idx[2], idx[3], err)
}
