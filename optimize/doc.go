// Package optimize minimizes smooth objectives over a box.
//
// Minimize runs a projected quasi-Newton (BFGS) search:
//
//  1. x ← clamp(x0); f ← obj(x).
//  2. g ← finite-difference gradient (central inside the box, forward or
//     backward at a bound, so no point outside the box is ever evaluated).
//  3. Projected gradient pg: components pushing against an active bound are
//     zeroed. Stop when ‖pg‖∞ ≤ GradTol.
//  4. d ← −H·pg with bound-blocked components removed; fall back to −pg and
//     reset H when d is not a descent direction.
//  5. Armijo backtracking along the projected path P(x + α·d).
//  6. BFGS update of the inverse Hessian H when sᵀy > 0.
//
// Guarantees:
//   - Deterministic for a given x0 and Settings.
//   - Every evaluated and returned point lies inside [Lower, Upper].
//   - The returned value is never worse than f(clamp(x0)).
//
// Only a local minimum is promised. Line-search failure or an exhausted
// iteration budget are reported in Result.Status, never as errors. Errors
// returned by the objective abort the search and are passed through
// unchanged.
//
// Performance: one call costs O(iter·(2·n+backtracks)) objective
// evaluations; H is an n×n gonum SymDense.
package optimize
