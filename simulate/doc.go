// Package simulate replays a learned lockdown policy forward in time.
//
// Each period k the policy is evaluated at the current state, the cost of
// the period is accrued (discounted by β^k), and the dynamics produce the
// next state. A live trajectory may leave the solver grid; Options.Fallback
// decides what happens then:
//
//   - FallbackClamp projects the query onto the grid box, retries, and
//     flags the step as Clamped;
//   - FallbackHalt stops and returns the partial trajectory with the error.
package simulate
