// SPDX-License-Identifier: MIT

package interp

import (
	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/tensor"
)

// corners is the number of vertices of a 4-D grid cell.
const corners = 1 << tensor.Rank

// Quadrilinear interpolates Field and PolicyField buffers laid out on a grid.
// It holds no mutable state and is safe for concurrent use.
type Quadrilinear struct {
	axes   [tensor.Rank]grid.Axis
	n      int
	stride [tensor.Rank]int
}

// New returns an interpolator bound to g's axes.
func New(g *grid.Grid) *Quadrilinear {
	n := g.Size()

	return &Quadrilinear{
		axes:   g.Axes(),
		n:      n,
		stride: [tensor.Rank]int{n * n * n, n * n, n, 1},
	}
}

// bracket holds the enclosing cell of a query and its blend weights.
type bracket struct {
	base int                  // flat offset of the lower corner
	t    [tensor.Rank]float64 // weight of the upper neighbour per axis
}

// locate brackets q on every axis or returns *OutOfDomainError.
func (qi *Quadrilinear) locate(q [tensor.Rank]float64) (bracket, error) {
	var b bracket
	for k, a := range qi.axes {
		lo, t, ok := a.Locate(q[k])
		if !ok {
			return bracket{}, &OutOfDomainError{Axis: k, Value: q[k], Min: a.Min(), Max: a.Max(), Query: q}
		}
		b.base += lo * qi.stride[k]
		b.t[k] = t
	}

	return b, nil
}

// corner returns the flat offset and weight of corner c (bit k = upper on axis k).
// ok is false when the weight is exactly zero.
func (qi *Quadrilinear) corner(b bracket, c int) (off int, w float64, ok bool) {
	off, w = b.base, 1.0
	for k := 0; k < tensor.Rank; k++ {
		if c&(1<<(tensor.Rank-1-k)) != 0 {
			w *= b.t[k]
			off += qi.stride[k]
		} else {
			w *= 1 - b.t[k]
		}
		if w == 0 {
			return 0, 0, false
		}
	}

	return off, w, true
}

// Value interpolates f at q.
//
// Errors: *OutOfDomainError when q leaves the grid; ErrShapeMismatch when f
// was not allocated for this grid.
//
// Complexity: O(16·4), no allocations.
func (qi *Quadrilinear) Value(f *tensor.Field, q [tensor.Rank]float64) (float64, error) {
	if f.Side() != qi.n {
		return 0, ErrShapeMismatch
	}
	b, err := qi.locate(q)
	if err != nil {
		return 0, err
	}

	var v float64
	for c := 0; c < corners; c++ {
		off, w, ok := qi.corner(b, c)
		if !ok {
			continue
		}
		v += w * f.AtOffset(off)
	}

	return v, nil
}

// Policy interpolates each control component of p at q.
//
// Errors: as Value.
func (qi *Quadrilinear) Policy(p *tensor.PolicyField, q [tensor.Rank]float64) ([tensor.Controls]float64, error) {
	var u [tensor.Controls]float64
	if p.Side() != qi.n {
		return u, ErrShapeMismatch
	}
	b, err := qi.locate(q)
	if err != nil {
		return u, err
	}

	for c := 0; c < corners; c++ {
		off, w, ok := qi.corner(b, c)
		if !ok {
			continue
		}
		pc := p.AtOffset(off)
		u[0] += w * pc[0]
		u[1] += w * pc[1]
	}

	return u, nil
}
