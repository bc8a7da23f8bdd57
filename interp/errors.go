package interp

import (
	"errors"
	"fmt"
)

// ErrOutOfDomain matches every *OutOfDomainError via errors.Is.
var ErrOutOfDomain = errors.New("interp: query outside grid domain")

// ErrShapeMismatch indicates a buffer whose side differs from the grid size.
var ErrShapeMismatch = errors.New("interp: buffer does not match grid")

// OutOfDomainError reports the first axis on which a query left the grid.
type OutOfDomainError struct {
	Axis     int        // 0..3 in (S_y, S_o, I_y, I_o) order
	Value    float64    // offending coordinate
	Min, Max float64    // axis bounds
	Query    [4]float64 // full query point
}

func (e *OutOfDomainError) Error() string {
	return fmt.Sprintf("interp: axis %d value %g outside [%g, %g] (query %v)",
		e.Axis, e.Value, e.Min, e.Max, e.Query)
}

// Is lets errors.Is(err, ErrOutOfDomain) match.
func (e *OutOfDomainError) Is(target error) bool { return target == ErrOutOfDomain }
