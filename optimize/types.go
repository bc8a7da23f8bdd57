package optimize

import (
	"errors"
	"fmt"
)

var (
	// ErrBadBounds indicates NaN bounds, Lower > Upper, or mismatched lengths.
	ErrBadBounds = errors.New("optimize: invalid bounds")

	// ErrDimensionMismatch indicates len(x0) differs from the bounds dimension.
	ErrDimensionMismatch = errors.New("optimize: dimension mismatch")

	// ErrBadSettings indicates non-positive tolerances, steps or budgets.
	ErrBadSettings = errors.New("optimize: invalid settings")
)

// Objective returns the value to minimize at x. It must not retain x.
type Objective func(x []float64) (float64, error)

// Bounds holds independent per-component limits Lower[i] <= x[i] <= Upper[i].
type Bounds struct {
	Lower []float64
	Upper []float64
}

// Status tells why the search stopped.
type Status int

const (
	// GradientConverged: projected gradient below GradTol.
	GradientConverged Status = iota
	// StepConverged: accepted step below StepTol.
	StepConverged
	// IterationLimit: MaxIterations reached.
	IterationLimit
	// LineSearchFailed: no sufficient decrease found along the search direction.
	LineSearchFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case GradientConverged:
		return "gradient-converged"
	case StepConverged:
		return "step-converged"
	case IterationLimit:
		return "iteration-limit"
	case LineSearchFailed:
		return "line-search-failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Settings tunes Minimize. Use DefaultSettings and override fields.
type Settings struct {
	// MaxIterations bounds the number of quasi-Newton steps (>= 1).
	MaxIterations int
	// GradTol stops when ‖projected gradient‖∞ <= GradTol (> 0).
	GradTol float64
	// StepTol stops when ‖x_{k+1} − x_k‖∞ <= StepTol (> 0).
	StepTol float64
	// FDStep is the finite-difference step (> 0).
	FDStep float64
	// ArmijoC is the sufficient-decrease constant in (0, 1).
	ArmijoC float64
	// Shrink is the backtracking factor in (0, 1).
	Shrink float64
	// MaxBacktracks bounds line-search halvings per iteration (>= 1).
	MaxBacktracks int
}

// Defaults.
const (
	DefaultMaxIterations = 50
	DefaultGradTol       = 1e-8
	DefaultStepTol       = 1e-10
	DefaultFDStep        = 1e-7
	DefaultArmijoC       = 1e-4
	DefaultShrink        = 0.5
	DefaultMaxBacktracks = 30
)

// DefaultSettings returns Settings populated with the package defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations: DefaultMaxIterations,
		GradTol:       DefaultGradTol,
		StepTol:       DefaultStepTol,
		FDStep:        DefaultFDStep,
		ArmijoC:       DefaultArmijoC,
		Shrink:        DefaultShrink,
		MaxBacktracks: DefaultMaxBacktracks,
	}
}

// Validate checks every field; it returns ErrBadSettings wrapped with the field name.
func (s Settings) Validate() error {
	switch {
	case s.MaxIterations < 1:
		return fmt.Errorf("MaxIterations=%d: %w", s.MaxIterations, ErrBadSettings)
	case !(s.GradTol > 0):
		return fmt.Errorf("GradTol=%g: %w", s.GradTol, ErrBadSettings)
	case !(s.StepTol > 0):
		return fmt.Errorf("StepTol=%g: %w", s.StepTol, ErrBadSettings)
	case !(s.FDStep > 0):
		return fmt.Errorf("FDStep=%g: %w", s.FDStep, ErrBadSettings)
	case !(s.ArmijoC > 0 && s.ArmijoC < 1):
		return fmt.Errorf("ArmijoC=%g: %w", s.ArmijoC, ErrBadSettings)
	case !(s.Shrink > 0 && s.Shrink < 1):
		return fmt.Errorf("Shrink=%g: %w", s.Shrink, ErrBadSettings)
	case s.MaxBacktracks < 1:
		return fmt.Errorf("MaxBacktracks=%d: %w", s.MaxBacktracks, ErrBadSettings)
	}

	return nil
}

// Result is the outcome of Minimize.
type Result struct {
	X           []float64 // best point found, inside the bounds
	F           float64   // objective at X
	Iterations  int       // quasi-Newton steps taken
	Evaluations int       // objective calls, including gradient stencils
	Status      Status
}
