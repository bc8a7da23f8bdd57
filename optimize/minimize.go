// SPDX-License-Identifier: MIT

package optimize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// curvatureTol rejects BFGS updates whose sᵀy is not safely positive.
const curvatureTol = 1e-12

// Minimize searches for a local minimum of obj inside b starting from x0.
//
// x0 is clamped into the box first. The objective is called only at points
// inside the box. See the package documentation for the algorithm.
//
// Errors:
//   - ErrBadSettings, ErrBadBounds, ErrDimensionMismatch for invalid input;
//   - any error returned by obj, unchanged.
//
// Complexity: O(MaxIterations·(2n + MaxBacktracks)) evaluations, O(n²) memory.
func Minimize(obj Objective, b Bounds, x0 []float64, s Settings) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	n, err := checkBounds(b)
	if err != nil {
		return Result{}, err
	}
	if len(x0) != n {
		return Result{}, fmt.Errorf("len(x0)=%d, bounds=%d: %w", len(x0), n, ErrDimensionMismatch)
	}

	m := &minimizer{obj: obj, b: b, s: s, n: n, work: make([]float64, n)}

	return m.run(x0)
}

// minimizer carries the per-call state of one search.
type minimizer struct {
	obj   Objective
	b     Bounds
	s     Settings
	n     int
	evals int
	work  []float64 // scratch point for gradient stencils
}

// eval counts and forwards one objective call.
func (m *minimizer) eval(x []float64) (float64, error) {
	m.evals++

	return m.obj(x)
}

// run is the projected BFGS loop.
func (m *minimizer) run(x0 []float64) (Result, error) {
	n := m.n
	x := make([]float64, n)
	for i := range x {
		x[i] = m.clamp(i, x0[i])
	}
	f, err := m.eval(x)
	if err != nil {
		return Result{}, err
	}

	var (
		g     = make([]float64, n)
		pg    = make([]float64, n)
		d     = make([]float64, n)
		xNew  = make([]float64, n)
		step  = make([]float64, n)
		prevX = make([]float64, n)
		prevG = make([]float64, n)
		h     = identity(n)
		fresh = true // h is the identity
		iters int
		stat  Status
	)

	for {
		if err = m.gradient(x, f, g); err != nil {
			return Result{}, err
		}
		if iters > 0 && bfgsUpdate(h, prevX, x, prevG, g) {
			fresh = false
		}

		m.project(pg, x, g)
		if floats.Norm(pg, math.Inf(1)) <= m.s.GradTol {
			stat = GradientConverged
			break
		}
		if iters >= m.s.MaxIterations {
			stat = IterationLimit
			break
		}

		if !m.direction(d, h, x, pg) {
			resetIdentity(h, n)
			fresh = true
			for i := range d {
				d[i] = -pg[i]
			}
		}

		fNew, ok, err := m.lineSearch(x, f, g, d, xNew, step, fresh)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			stat = LineSearchFailed
			break
		}

		copy(prevX, x)
		copy(prevG, g)
		copy(x, xNew)
		f = fNew
		iters++

		if floats.Norm(step, math.Inf(1)) <= m.s.StepTol {
			stat = StepConverged
			break
		}
	}

	return Result{X: x, F: f, Iterations: iters, Evaluations: m.evals, Status: stat}, nil
}

// gradient fills g with a finite-difference estimate at x, where f = obj(x).
// Components whose box is narrower than two steps get a zero derivative.
func (m *minimizer) gradient(x []float64, f float64, g []float64) error {
	hStep := m.s.FDStep
	for i := range x {
		lo, hi := m.b.Lower[i], m.b.Upper[i]
		if hi-lo < 2*hStep {
			g[i] = 0
			continue
		}

		formula := fd.Central
		switch {
		case x[i]-hStep < lo:
			formula = fd.Forward
		case x[i]+hStep > hi:
			formula = fd.Backward
		}

		var evalErr error
		partial := func(t float64) float64 {
			copy(m.work, x)
			m.work[i] = t
			v, err := m.eval(m.work)
			if err != nil && evalErr == nil {
				evalErr = err
			}

			return v
		}
		g[i] = fd.Derivative(partial, x[i], &fd.Settings{
			Formula:     formula,
			Step:        hStep,
			OriginKnown: true,
			OriginValue: f,
		})
		if evalErr != nil {
			return evalErr
		}
	}

	return nil
}

// project writes the projected gradient: components that would push x
// further against an active bound are zeroed.
func (m *minimizer) project(pg, x, g []float64) {
	for i := range g {
		switch {
		case x[i] <= m.b.Lower[i] && g[i] > 0:
			pg[i] = 0
		case x[i] >= m.b.Upper[i] && g[i] < 0:
			pg[i] = 0
		default:
			pg[i] = g[i]
		}
	}
}

// direction writes d = −H·pg with bound-blocked components removed.
// It returns false when d is not a descent direction.
func (m *minimizer) direction(d []float64, h *mat.SymDense, x, pg []float64) bool {
	dv := mat.NewVecDense(m.n, d)
	dv.MulVec(h, mat.NewVecDense(m.n, pg))
	for i := range d {
		d[i] = -d[i]
		if (x[i] <= m.b.Lower[i] && d[i] < 0) || (x[i] >= m.b.Upper[i] && d[i] > 0) {
			d[i] = 0
		}
	}

	return floats.Dot(d, pg) < 0
}

// lineSearch backtracks along P(x + α·d) until the Armijo condition
// f(x_α) <= f + c·gᵀ(x_α − x) holds with a negative decrease term.
// On success xNew holds the accepted point and step = xNew − x.
func (m *minimizer) lineSearch(x []float64, f float64, g, d, xNew, step []float64, fresh bool) (float64, bool, error) {
	dn := floats.Norm(d, math.Inf(1))
	if dn == 0 {
		return f, false, nil
	}

	width := 0.0
	for i := range x {
		width = math.Max(width, m.b.Upper[i]-m.b.Lower[i])
	}
	alpha := 1.0
	if fresh || alpha*dn > width {
		// an unscaled identity step carries no curvature information:
		// start from a full box-width move and backtrack.
		alpha = width / dn
	}

	for bt := 0; bt < m.s.MaxBacktracks; bt++ {
		for i := range x {
			xNew[i] = m.clamp(i, x[i]+alpha*d[i])
		}
		floats.SubTo(step, xNew, x)
		decrease := floats.Dot(g, step)
		if floats.Norm(step, math.Inf(1)) == 0 {
			return f, false, nil
		}
		if decrease < 0 {
			fNew, err := m.eval(xNew)
			if err != nil {
				return 0, false, err
			}
			if fNew <= f+m.s.ArmijoC*decrease {
				return fNew, true, nil
			}
		}
		alpha *= m.s.Shrink
	}

	return f, false, nil
}

// clamp limits v to the i-th bound interval.
func (m *minimizer) clamp(i int, v float64) float64 {
	return math.Min(math.Max(v, m.b.Lower[i]), m.b.Upper[i])
}

// bfgsUpdate applies the inverse-Hessian BFGS update with s = x − prevX and
// y = g − prevG. It returns false (leaving h unchanged) when sᵀy is not
// safely positive.
func bfgsUpdate(h *mat.SymDense, prevX, x, prevG, g []float64) bool {
	n := len(x)
	s := make([]float64, n)
	y := make([]float64, n)
	floats.SubTo(s, x, prevX)
	floats.SubTo(y, g, prevG)

	sy := floats.Dot(s, y)
	if sy <= curvatureTol*floats.Norm(s, 2)*floats.Norm(y, 2) || sy == 0 {
		return false
	}

	sv := mat.NewVecDense(n, s)
	yv := mat.NewVecDense(n, y)
	var hy mat.VecDense
	hy.MulVec(h, yv)
	yhy := mat.Dot(yv, &hy)

	// H⁺ = H + (sᵀy + yᵀHy)/(sᵀy)² · ssᵀ − (Hy sᵀ + s yᵀH)/sᵀy
	h.SymRankOne(h, (sy+yhy)/(sy*sy), sv)
	h.RankTwo(h, -1/sy, &hy, sv)

	return true
}

// identity returns an n×n identity SymDense.
func identity(n int) *mat.SymDense {
	h := mat.NewSymDense(n, nil)
	resetIdentity(h, n)

	return h
}

// resetIdentity overwrites h with the identity.
func resetIdentity(h *mat.SymDense, n int) {
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 0.0
			if i == j {
				v = 1
			}
			h.SetSym(i, j, v)
		}
	}
}

// checkBounds validates b and returns its dimension.
func checkBounds(b Bounds) (int, error) {
	n := len(b.Lower)
	if n == 0 || len(b.Upper) != n {
		return 0, fmt.Errorf("len(lower)=%d len(upper)=%d: %w", n, len(b.Upper), ErrBadBounds)
	}
	for i := 0; i < n; i++ {
		lo, hi := b.Lower[i], b.Upper[i]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo > hi {
			return 0, fmt.Errorf("component %d [%g, %g]: %w", i, lo, hi, ErrBadBounds)
		}
	}

	return n, nil
}
