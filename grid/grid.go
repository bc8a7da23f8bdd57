// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"

	"github.com/katalvlaran/lockdown/tensor"
)

// Spec describes a grid: Size points per axis, floor ε, and the upper ends of
// the susceptible (SMax) and infected (IMax) axes.
type Spec struct {
	Size  int
	Floor float64
	SMax  float64
	IMax  float64
}

// Grid is the 4-D discretized state space S × S × I × I.
type Grid struct {
	s, i  Axis
	floor float64
}

// New validates spec and builds both axes.
//
// Errors: ErrInvalidSpec for a non-positive floor or size < 2, ErrInvalidAxis
// (wrapped) when an axis cannot be built.
func New(spec Spec) (*Grid, error) {
	if spec.Size < 2 {
		return nil, fmt.Errorf("size %d: %w", spec.Size, ErrInvalidSpec)
	}
	if isNonFinite(spec.Floor) || spec.Floor <= 0 {
		return nil, fmt.Errorf("floor %g: %w", spec.Floor, ErrInvalidSpec)
	}

	s, err := BuildAxis(spec.Floor, spec.SMax, spec.Size)
	if err != nil {
		return nil, fmt.Errorf("susceptible axis: %w", err)
	}
	i, err := BuildAxis(spec.Floor, spec.IMax, spec.Size)
	if err != nil {
		return nil, fmt.Errorf("infected axis: %w", err)
	}

	return &Grid{s: s, i: i, floor: spec.Floor}, nil
}

// Size returns N, the number of points per axis.
func (g *Grid) Size() int { return g.s.Len() }

// Cells returns N⁴.
func (g *Grid) Cells() int {
	n := g.Size()

	return n * n * n * n
}

// Floor returns ε.
func (g *Grid) Floor() float64 { return g.floor }

// S returns the susceptible axis.
func (g *Grid) S() Axis { return g.s }

// I returns the infected axis.
func (g *Grid) I() Axis { return g.i }

// Axes returns the four axes in index order (S, S, I, I).
func (g *Grid) Axes() [tensor.Rank]Axis {
	return [tensor.Rank]Axis{g.s, g.s, g.i, g.i}
}

// Point returns the coordinates [S_y, S_o, I_y, I_o] of idx.
// Panics if idx is out of range (programmer error).
func (g *Grid) Point(idx tensor.Index) [tensor.Rank]float64 {
	return [tensor.Rank]float64{g.s.At(idx[0]), g.s.At(idx[1]), g.i.At(idx[2]), g.i.At(idx[3])}
}

// Box returns the lower and upper corners of the 4-D domain.
func (g *Grid) Box() (lo, hi [tensor.Rank]float64) {
	for k, a := range g.Axes() {
		lo[k], hi[k] = a.Min(), a.Max()
	}

	return lo, hi
}

// Contains reports whether q lies inside the domain on every axis.
func (g *Grid) Contains(q [tensor.Rank]float64) bool {
	for k, a := range g.Axes() {
		if !a.Contains(q[k]) {
			return false
		}
	}

	return true
}

// Clamp projects q onto the domain box.
func (g *Grid) Clamp(q [tensor.Rank]float64) [tensor.Rank]float64 {
	for k, a := range g.Axes() {
		q[k] = a.Clamp(q[k])
	}

	return q
}
