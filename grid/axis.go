// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Axis is an immutable, strictly increasing, evenly spaced coordinate array.
type Axis struct {
	pts  []float64
	step float64
}

// BuildAxis returns count evenly spaced points from low to high inclusive.
//
// Contract:
//   - count >= 2;
//   - low and high finite, low < high.
//
// Errors: ErrInvalidAxis (wrapped with the offending values).
//
// Complexity: O(count).
func BuildAxis(low, high float64, count int) (Axis, error) {
	if count < 2 {
		return Axis{}, fmt.Errorf("count %d < 2: %w", count, ErrInvalidAxis)
	}
	if isNonFinite(low) || isNonFinite(high) || low >= high {
		return Axis{}, fmt.Errorf("bounds [%g, %g]: %w", low, high, ErrInvalidAxis)
	}

	pts := floats.Span(make([]float64, count), low, high)
	pts[count-1] = high // exact upper end regardless of rounding in the step

	return Axis{pts: pts, step: (high - low) / float64(count-1)}, nil
}

// Len returns the number of points.
func (a Axis) Len() int { return len(a.pts) }

// At returns the i-th coordinate. Panics if i is out of range.
func (a Axis) At(i int) float64 { return a.pts[i] }

// Min returns the first coordinate.
func (a Axis) Min() float64 { return a.pts[0] }

// Max returns the last coordinate.
func (a Axis) Max() float64 { return a.pts[len(a.pts)-1] }

// Step returns the spacing between consecutive points.
func (a Axis) Step() float64 { return a.step }

// Values returns a copy of the coordinates.
func (a Axis) Values() []float64 {
	out := make([]float64, len(a.pts))
	copy(out, a.pts)

	return out
}

// Contains reports whether x lies in [Min, Max].
func (a Axis) Contains(x float64) bool {
	return !math.IsNaN(x) && x >= a.Min() && x <= a.Max()
}

// Clamp returns x limited to [Min, Max]. NaN maps to Min.
func (a Axis) Clamp(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < a.Min():
		return a.Min()
	case x > a.Max():
		return a.Max()
	default:
		return x
	}
}

// Locate brackets x for linear interpolation.
//
// It returns lo and t such that x = (1−t)·At(lo) + t·At(lo+1), with
// 0 <= lo <= Len−2 and t ∈ [0, 1]. An exact node k < Len−1 yields (k, 0);
// the last node yields (Len−2, 1). ok is false when x is NaN or outside
// [Min, Max].
//
// Complexity: O(1).
func (a Axis) Locate(x float64) (lo int, t float64, ok bool) {
	if !a.Contains(x) {
		return 0, 0, false
	}
	last := len(a.pts) - 1
	if x == a.pts[last] {
		return last - 1, 1, true
	}

	lo = int((x - a.pts[0]) / a.step)
	if lo > last-1 {
		lo = last - 1
	}
	// repair rounding of the division so that pts[lo] <= x < pts[lo+1]
	for lo > 0 && x < a.pts[lo] {
		lo--
	}
	for lo < last-1 && x >= a.pts[lo+1] {
		lo++
	}

	return lo, (x - a.pts[lo]) / (a.pts[lo+1] - a.pts[lo]), true
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }
