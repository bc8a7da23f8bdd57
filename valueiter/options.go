package valueiter

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/lockdown/optimize"
	"github.com/katalvlaran/lockdown/tensor"
)

// InitialGuess selects the fixed starting control of every cell optimization.
type InitialGuess int

const (
	// LowerCorner starts at [ε, ε]. A search on a control-independent
	// objective then stays at the lower bound.
	LowerCorner InitialGuess = iota
	// MixedCorner starts at [ε, ControlMax_old], the starting point of the
	// reference model; select it to reproduce reference policies.
	MixedCorner
)

// String implements fmt.Stringer.
func (g InitialGuess) String() string {
	switch g {
	case LowerCorner:
		return "lower"
	case MixedCorner:
		return "mixed"
	default:
		return "unknown"
	}
}

// Observer receives one report per completed sweep of Solve.
type Observer interface {
	OnSweep(r SweepReport)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r SweepReport)

// OnSweep calls f(r).
func (f ObserverFunc) OnSweep(r SweepReport) { f(r) }

// Defaults for Options.
const (
	DefaultMaxIterations = 200
	DefaultTolerance     = 1e-6
)

// Options tunes Solve and Sweep. Start from DefaultOptions.
//
// Fields:
//   - MaxIterations: sweep budget (>= 1).
//   - Tolerance:     sup-norm convergence threshold (> 0).
//   - Minimizer:     per-cell optimizer settings.
//   - Guess:         starting control of each cell search; LowerCorner by
//     default, MixedCorner for the reference starting point.
//   - WarmStart:     optional initial value field (same side as the grid); copied, never retained.
//   - Logger:        nil means no logging.
//   - Observer:      optional per-sweep callback.
type Options struct {
	MaxIterations int
	Tolerance     float64
	Minimizer     optimize.Settings
	Guess         InitialGuess
	WarmStart     *tensor.Field
	Logger        *zap.Logger
	Observer      Observer
}

// DefaultOptions returns Options with the package defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Minimizer:     optimize.DefaultSettings(),
		Guess:         LowerCorner,
	}
}

// Validate checks o and returns ErrInvalidConfig (wrapped) on the first violation.
func (o Options) Validate() error {
	if o.MaxIterations < 1 {
		return configErrorf("max iterations=%d", o.MaxIterations)
	}
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0) {
		return configErrorf("tolerance=%g", o.Tolerance)
	}
	if o.Guess != LowerCorner && o.Guess != MixedCorner {
		return configErrorf("initial guess=%d", int(o.Guess))
	}
	if err := o.Minimizer.Validate(); err != nil {
		return configErrorf("minimizer: %v", err)
	}

	return nil
}

// logger returns o.Logger or a no-op logger.
func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}
