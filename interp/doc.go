// Package interp evaluates 4-D gridded arrays at continuous query points.
//
// Quadrilinear interpolation blends the 2⁴ = 16 corner values of the grid
// cell enclosing a query q = (S_y, S_o, I_y, I_o):
//
//	v(q) = Σ_{c ∈ {0,1}⁴} Π_k w_k(c_k) · V[lo + c]
//
// with w_k(0) = 1 − t_k and w_k(1) = t_k, where (lo_k, t_k) is the bracket of
// q_k on axis k. At a grid node every weight is exactly 0 or 1, so the stored
// value is returned without blending error.
//
// Queries outside the trained domain fail with *OutOfDomainError; callers
// decide whether that is fatal (inside a Bellman sweep) or recoverable
// (policy replay, where a live trajectory may leave the grid).
package interp
