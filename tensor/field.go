// SPDX-License-Identifier: MIT

package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Rank is the number of state axes: S_young, S_old, I_young, I_old.
const Rank = 4

// Index addresses one cell of the hypercube, ordered (sy, so, iy, io).
type Index [Rank]int

// Field is a dense N⁴ array of float64 values in row-major order.
type Field struct {
	n    int       // side of the hypercube
	data []float64 // len == n⁴
}

// NewField allocates a zero-filled field with the given side.
// Returns ErrInvalidSide when side < 1.
func NewField(side int) (*Field, error) {
	if side < 1 {
		return nil, ErrInvalidSide
	}

	return &Field{n: side, data: make([]float64, cells(side))}, nil
}

// Side returns N, the number of points per axis.
func (f *Field) Side() int { return f.n }

// Len returns the number of cells, N⁴.
func (f *Field) Len() int { return len(f.data) }

// Offset returns the flat offset of idx or ErrIndexOutOfRange.
func (f *Field) Offset(idx Index) (int, error) {
	if !inBounds(f.n, idx) {
		return 0, indexErrorf("Offset", idx, ErrIndexOutOfRange)
	}

	return offset(f.n, idx), nil
}

// Unravel converts a flat offset back into an Index.
func (f *Field) Unravel(off int) Index { return unravel(f.n, off) }

// At returns the value stored at idx.
func (f *Field) At(idx Index) (float64, error) {
	if !inBounds(f.n, idx) {
		return 0, indexErrorf("At", idx, ErrIndexOutOfRange)
	}

	return f.data[offset(f.n, idx)], nil
}

// Set stores v at idx.
func (f *Field) Set(idx Index, v float64) error {
	if !inBounds(f.n, idx) {
		return indexErrorf("Set", idx, ErrIndexOutOfRange)
	}
	f.data[offset(f.n, idx)] = v

	return nil
}

// AtOffset is the unchecked read used on hot paths.
func (f *Field) AtOffset(off int) float64 { return f.data[off] }

// SetOffset is the unchecked write used on hot paths.
func (f *Field) SetOffset(off int, v float64) { f.data[off] = v }

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// CopyFrom overwrites f with the contents of src.
func (f *Field) CopyFrom(src *Field) error {
	if f == nil || src == nil {
		return ErrNilBuffer
	}
	if f.n != src.n {
		return ErrShapeMismatch
	}
	copy(f.data, src.data)

	return nil
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	out := &Field{n: f.n, data: make([]float64, len(f.data))}
	copy(out.data, f.data)

	return out
}

// Values returns a copy of the flat backing slice in row-major order.
func (f *Field) Values() []float64 {
	out := make([]float64, len(f.data))
	copy(out, f.data)

	return out
}

// Max returns the largest stored value.
func (f *Field) Max() float64 { return floats.Max(f.data) }

// SupNorm returns max |a_i − b_i| over all cells.
func SupNorm(a, b *Field) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrNilBuffer
	}
	if a.n != b.n {
		return 0, ErrShapeMismatch
	}

	return floats.Distance(a.data, b.data, math.Inf(1)), nil
}

// Aliased reports whether a and b share backing storage.
func Aliased(a, b *Field) bool {
	return a == b || (len(a.data) > 0 && len(b.data) > 0 && &a.data[0] == &b.data[0])
}

// cells returns n⁴.
func cells(n int) int { return n * n * n * n }

// inBounds checks 0 <= idx[k] < n for every component.
func inBounds(n int, idx Index) bool {
	for _, v := range idx {
		if v < 0 || v >= n {
			return false
		}
	}

	return true
}

// offset computes ((a·n + b)·n + c)·n + d.
func offset(n int, idx Index) int {
	return ((idx[0]*n+idx[1])*n+idx[2])*n + idx[3]
}

// unravel inverts offset.
func unravel(n, off int) Index {
	var idx Index
	for k := Rank - 1; k >= 0; k-- {
		idx[k] = off % n
		off /= n
	}

	return idx
}
