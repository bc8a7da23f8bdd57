package grid

import "errors"

var (
	// ErrInvalidAxis indicates a count below 2, a non-finite bound, or low >= high.
	ErrInvalidAxis = errors.New("grid: invalid axis specification")

	// ErrInvalidSpec indicates a Spec whose floor, size or maxima are unusable.
	ErrInvalidSpec = errors.New("grid: invalid grid specification")
)
