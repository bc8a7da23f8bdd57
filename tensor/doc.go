// Package tensor provides the dense 4-D storage used by value iteration.
//
// The package offers two concrete buffers over an N×N×N×N hypercube indexed
// by (S_young, S_old, I_young, I_old):
//
//   - Field: one float64 per cell (the value function).
//   - PolicyField: two float64 per cell (the control vector).
//
// Both store their elements in a single flat slice in row-major order, so the
// flat offset of Index{a, b, c, d} is ((a·N + b)·N + c)·N + d and a loop over
// offsets 0..N⁴-1 visits cells in the canonical sweep order (last axis
// fastest).
//
// Public accessors At/Set validate indices and return ErrIndexOutOfRange;
// the *Offset accessors are the unchecked hot path used by the sweep and the
// interpolator.
//
// Complexity: NewField/NewPolicyField O(N⁴) zero-init; At/Set O(1);
// CopyFrom/Clone/SupNorm O(N⁴).
package tensor
