package valueiter

import (
	"time"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/interp"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/tensor"
)

// Termination tells why Solve stopped.
type Termination int

const (
	// Converged: the last sup-norm change was at or below the tolerance.
	Converged Termination = iota
	// Exhausted: the iteration budget ran out first.
	Exhausted
)

// String implements fmt.Stringer.
func (t Termination) String() string {
	if t == Converged {
		return "converged"
	}

	return "exhausted"
}

// Result is the outcome of Solve. Value and Policy must be treated as read-only.
type Result struct {
	Value       *tensor.Field
	Policy      *tensor.PolicyField
	Iterations  int
	Termination Termination
	History     []float64 // sup-norm change of every sweep
	Discount    float64
	Tolerance   float64
	Elapsed     time.Duration

	grid *grid.Grid
	qi   *interp.Quadrilinear
}

// Converged reports whether the tolerance was met.
func (r *Result) Converged() bool { return r.Termination == Converged }

// LastSupNorm returns the final sup-norm change, or 0 when no sweep ran.
func (r *Result) LastSupNorm() float64 {
	if len(r.History) == 0 {
		return 0
	}

	return r.History[len(r.History)-1]
}

// Warning returns a *NonConvergenceError when the run was exhausted and nil otherwise.
func (r *Result) Warning() error {
	if r.Converged() {
		return nil
	}

	return &NonConvergenceError{Iterations: r.Iterations, SupNorm: r.LastSupNorm(), Tolerance: r.Tolerance}
}

// Grid returns the grid the result is defined on.
func (r *Result) Grid() *grid.Grid { return r.grid }

// EvaluatePolicy interpolates the learned policy at q = [S_y, S_o, I_y, I_o].
// Queries outside the grid return *interp.OutOfDomainError.
func (r *Result) EvaluatePolicy(q [tensor.Rank]float64) (sir.Control, error) {
	u, err := r.qi.Policy(r.Policy, q)
	if err != nil {
		return sir.Control{}, err
	}

	return sir.Control(u), nil
}

// EvaluateValue interpolates the value function at q.
func (r *Result) EvaluateValue(q [tensor.Rank]float64) (float64, error) {
	return r.qi.Value(r.Value, q)
}
