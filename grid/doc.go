// Package grid builds the discretized state space used by value iteration.
//
// A Grid is the Cartesian product of two 1-D axes used four times:
//
//	(S_young, S_old, I_young, I_old) ∈ S × S × I × I
//
// where S covers [ε, S_max] and I covers [ε, I_max] with N evenly spaced,
// strictly increasing points each. ε (the floor) is a small positive value
// that keeps states away from the degenerate zero boundary.
//
// Axes are immutable once built; Locate brackets a coordinate for
// multilinear interpolation without allocating.
//
// Usage:
//
//	g, err := grid.New(grid.Spec{Size: 11, Floor: 1e-6, SMax: 0.8, IMax: 0.2})
//	x := g.Point(tensor.Index{3, 1, 0, 0}) // [S_y, S_o, I_y, I_o]
package grid
