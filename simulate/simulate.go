package simulate

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/interp"
	"github.com/katalvlaran/lockdown/sir"
)

// ErrInvalidOptions indicates unusable simulation options.
var ErrInvalidOptions = errors.New("simulate: invalid options")

// Policy is a learned feedback rule. *valueiter.Result satisfies it.
type Policy interface {
	EvaluatePolicy(q [4]float64) (sir.Control, error)
	Grid() *grid.Grid
}

// Dynamics advances and prices states. *sir.Model satisfies it.
type Dynamics interface {
	Transition(u sir.Control, x sir.State) sir.State
	Cost(u sir.Control, x sir.State) float64
}

// Fallback selects the reaction to a state outside the policy grid.
type Fallback int

const (
	// FallbackClamp clamps the query into the grid and retries.
	FallbackClamp Fallback = iota
	// FallbackHalt stops the simulation.
	FallbackHalt
)

// String implements fmt.Stringer.
func (f Fallback) String() string {
	switch f {
	case FallbackClamp:
		return "clamp"
	case FallbackHalt:
		return "halt"
	default:
		return fmt.Sprintf("fallback(%d)", int(f))
	}
}

// ParseFallback maps "clamp" or "halt" to a Fallback.
func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "clamp", "":
		return FallbackClamp, nil
	case "halt":
		return FallbackHalt, nil
	}

	return 0, fmt.Errorf("fallback %q: %w", s, ErrInvalidOptions)
}

// Defaults: one year of weekly periods, undiscounted.
const (
	DefaultHorizon  = 52
	DefaultDt       = 7.0
	DefaultDiscount = 1.0
)

// Options tunes Run.
type Options struct {
	Horizon  int     // number of periods (>= 1)
	Dt       float64 // period length; the cost rate is multiplied by it
	Discount float64 // per-period factor in (0, 1]
	Fallback Fallback
	Logger   *zap.Logger
}

// DefaultOptions returns the package defaults with FallbackClamp.
func DefaultOptions() Options {
	return Options{Horizon: DefaultHorizon, Dt: DefaultDt, Discount: DefaultDiscount, Fallback: FallbackClamp}
}

// Validate returns ErrInvalidOptions (wrapped) on the first violation.
func (o Options) Validate() error {
	switch {
	case o.Horizon < 1:
		return fmt.Errorf("horizon=%d: %w", o.Horizon, ErrInvalidOptions)
	case !(o.Dt > 0) || math.IsInf(o.Dt, 0):
		return fmt.Errorf("dt=%g: %w", o.Dt, ErrInvalidOptions)
	case !(o.Discount > 0 && o.Discount <= 1):
		return fmt.Errorf("discount=%g: %w", o.Discount, ErrInvalidOptions)
	case o.Fallback != FallbackClamp && o.Fallback != FallbackHalt:
		return fmt.Errorf("fallback=%d: %w", int(o.Fallback), ErrInvalidOptions)
	}

	return nil
}

// Step is one simulated period.
type Step struct {
	Period  int
	Time    float64     // Period·Dt
	State   sir.State   // state at the start of the period
	Control sir.Control // control applied during the period
	Cost    float64     // undiscounted cost of the period (rate·Dt)
	Clamped bool        // the policy was evaluated at a clamped state
}

// Trajectory is the outcome of Run.
type Trajectory struct {
	Steps     []Step
	Final     sir.State // state after the last step
	TotalCost float64   // Σ β^k·Cost_k
	Clamped   int       // number of clamped steps
}

// Run simulates opts.Horizon periods from x0 under pol and m.
//
// Errors:
//   - ErrInvalidOptions for invalid opts or a nil collaborator;
//   - the policy error (for example *interp.OutOfDomainError under
//     FallbackHalt), wrapped with the period. The partial trajectory is
//     returned alongside it.
func Run(pol Policy, m Dynamics, x0 sir.State, opts Options) (*Trajectory, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if pol == nil || m == nil {
		return nil, fmt.Errorf("nil policy or dynamics: %w", ErrInvalidOptions)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tr := &Trajectory{Steps: make([]Step, 0, opts.Horizon)}
	x, weight := x0, 1.0
	for k := 0; k < opts.Horizon; k++ {
		u, clamped, err := decide(pol, x, opts.Fallback)
		if err != nil {
			tr.Final = x

			return tr, fmt.Errorf("simulate: period %d: %w", k, err)
		}
		if clamped {
			tr.Clamped++
			log.Debug("state outside policy grid, clamped",
				zap.Int("period", k),
				zap.Float64s("state", pointSlice(x)))
		}

		c := m.Cost(u, x) * opts.Dt
		tr.TotalCost += weight * c
		weight *= opts.Discount
		tr.Steps = append(tr.Steps, Step{
			Period:  k,
			Time:    float64(k) * opts.Dt,
			State:   x,
			Control: u,
			Cost:    c,
			Clamped: clamped,
		})
		x = m.Transition(u, x)
	}
	tr.Final = x
	log.Info("simulation finished",
		zap.Int("periods", len(tr.Steps)),
		zap.Int("clamped", tr.Clamped),
		zap.Float64("total_cost", tr.TotalCost))

	return tr, nil
}

// decide evaluates pol at x, applying fb on an out-of-domain query.
func decide(pol Policy, x sir.State, fb Fallback) (sir.Control, bool, error) {
	u, err := pol.EvaluatePolicy(x.Point())
	if err == nil {
		return u, false, nil
	}
	if fb == FallbackHalt || !errors.Is(err, interp.ErrOutOfDomain) {
		return sir.Control{}, false, err
	}

	u, err = pol.EvaluatePolicy(pol.Grid().Clamp(x.Point()))
	if err != nil {
		return sir.Control{}, false, err
	}

	return u, true, nil
}

func pointSlice(x sir.State) []float64 {
	q := x.Point()

	return q[:]
}
