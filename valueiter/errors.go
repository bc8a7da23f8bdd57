package valueiter

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/tensor"
)

var (
	// ErrInvalidConfig indicates an invalid Problem or Options.
	ErrInvalidConfig = errors.New("valueiter: invalid configuration")

	// ErrAliasedBuffers indicates that a sweep would read and write the same array.
	ErrAliasedBuffers = errors.New("valueiter: read and write buffers are aliased")

	// ErrNonConvergence matches the warning returned by Result.Warning.
	ErrNonConvergence = errors.New("valueiter: iteration budget exhausted before convergence")
)

// NonConvergenceError describes an exhausted run.
type NonConvergenceError struct {
	Iterations int
	SupNorm    float64 // last sup-norm change
	Tolerance  float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("valueiter: no convergence after %d iterations (sup-norm %.3g > tolerance %.3g)",
		e.Iterations, e.SupNorm, e.Tolerance)
}

// Is reports whether target is ErrNonConvergence.
func (e *NonConvergenceError) Is(target error) bool { return target == ErrNonConvergence }

// SweepError is a fatal failure while solving one cell.
type SweepError struct {
	Index tensor.Index
	State sir.State
	Err   error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("valueiter: cell %v (state %v): %v", e.Index, e.State.Point(), e.Err)
}

// Unwrap returns the underlying error (typically *interp.OutOfDomainError).
func (e *SweepError) Unwrap() error { return e.Err }

// configErrorf wraps ErrInvalidConfig with a formatted message.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}
