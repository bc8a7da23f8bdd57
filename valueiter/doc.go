// Package valueiter solves the infinite-horizon lockdown problem
//
//	V(x) = min_{u ∈ [ε, ū]}  c(u, x)·Δt + β·V(f(u, x)),   β = exp(−(ν + r)·Δt)
//
// by value iteration on the 4-D grid of (S_young, S_old, I_young, I_old).
//
// Sweep applies the Bellman operator once. Each cell is visited in row-major
// order (S_young outermost, I_old innermost) and classified as
//
//   - Exterior: S_g + I_g > P_g + slack for some group. The cell is not
//     optimized; it copies the value and policy of the most recent interior
//     cell solved earlier in the same sweep, or 0 and [0, 0] when none has
//     been solved yet. The result therefore depends on traversal order.
//   - PostHerd: total mass below 1 − herd_threshold. Value 0, policy [0, 0].
//   - Interior: the objective above is minimized with optimize.Minimize,
//     the continuation value interpolated from the previous sweep's field.
//
// Solve repeats sweeps over two owned pairs of buffers (value and policy),
// swapping them after every sweep, until the sup-norm change falls to the
// tolerance (Converged) or the budget runs out (Exhausted). Exhaustion is a
// degraded result, not an error: Result.Warning reports it.
//
// An out-of-domain continuation query means the transition function broke
// its contract. It aborts the sweep with a *SweepError naming the cell.
//
// Complexity: O(N⁴ · E) per sweep where E is the number of objective
// evaluations per interior cell; memory 6·N⁴ float64.
package valueiter
