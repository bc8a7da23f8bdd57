// SPDX-License-Identifier: MIT

package valueiter

import (
	"fmt"
	"time"

	"github.com/katalvlaran/lockdown/interp"
	"github.com/katalvlaran/lockdown/optimize"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/tensor"
)

// SweepReport summarizes one Bellman sweep.
type SweepReport struct {
	Iteration   int                     // 1-based index within Solve; 0 for a standalone Sweep
	SupNorm     float64                 // ‖next − prev‖∞, set by Solve
	Cells       map[CellKind]int        // cells visited per kind
	Evaluations int                     // objective evaluations over all interior cells
	Statuses    map[optimize.Status]int // minimizer stop reasons
	Duration    time.Duration
}

// Sweep applies the Bellman operator once: it reads prev and overwrites
// every cell of next and nextPol. prev must not share storage with next.
//
// Errors:
//   - ErrInvalidConfig for an invalid p or opts, or buffers whose side differs from the grid;
//   - ErrAliasedBuffers when prev and next are the same array;
//   - *SweepError wrapping the cause when a cell cannot be solved
//     (errors.Is(err, interp.ErrOutOfDomain) for a transition leaving the grid).
func Sweep(p *Problem, prev, next *tensor.Field, nextPol *tensor.PolicyField, opts Options) (SweepReport, error) {
	if err := p.Validate(); err != nil {
		return SweepReport{}, err
	}
	if err := opts.Validate(); err != nil {
		return SweepReport{}, err
	}
	if err := checkBuffers(p.Grid.Size(), prev, next, nextPol); err != nil {
		return SweepReport{}, err
	}

	return newSweeper(p, opts).run(prev, next, nextPol)
}

// checkBuffers validates shapes and aliasing of one sweep's buffers.
func checkBuffers(n int, prev, next *tensor.Field, nextPol *tensor.PolicyField) error {
	if prev == nil || next == nil || nextPol == nil {
		return configErrorf("nil buffer")
	}
	if prev.Side() != n || next.Side() != n || nextPol.Side() != n {
		return configErrorf("buffer sides %d/%d/%d, grid size %d", prev.Side(), next.Side(), nextPol.Side(), n)
	}
	if tensor.Aliased(prev, next) {
		return ErrAliasedBuffers
	}

	return nil
}

// sweeper holds everything a sweep reuses across cells and iterations.
type sweeper struct {
	p      *Problem
	qi     *interp.Quadrilinear
	beta   float64
	bounds optimize.Bounds
	guess  []float64
	set    optimize.Settings
	obj    optimize.Objective

	// per-cell state read by objective
	prev *tensor.Field
	x    sir.State
}

func newSweeper(p *Problem, opts Options) *sweeper {
	lo, hi := p.controlBox()
	guess := []float64{lo[0], lo[1]}
	if opts.Guess == MixedCorner {
		guess[1] = hi[1]
	}
	s := &sweeper{
		p:      p,
		qi:     interp.New(p.Grid),
		beta:   p.Discount(),
		bounds: optimize.Bounds{Lower: lo, Upper: hi},
		guess:  guess,
		set:    opts.Minimizer,
	}
	s.obj = s.objective

	return s
}

// objective is g(u) = c(u, x)·Δt + β·V_prev(f(u, x)) for the current cell.
func (s *sweeper) objective(u []float64) (float64, error) {
	c := sir.Control{u[0], u[1]}
	next := s.p.Transition(c, s.x)
	v, err := s.qi.Value(s.prev, next.Point())
	if err != nil {
		return 0, err
	}

	return s.p.Cost(c, s.x)*s.p.Dt + s.beta*v, nil
}

// run visits every cell in row-major order. Buffers are assumed checked.
func (s *sweeper) run(prev, next *tensor.Field, nextPol *tensor.PolicyField) (SweepReport, error) {
	start := time.Now()
	rep := SweepReport{
		Cells:    make(map[CellKind]int, cellKinds),
		Statuses: make(map[optimize.Status]int),
	}
	s.prev = prev
	defer func() { s.prev = nil }()

	var (
		lastValue  float64
		lastPolicy [tensor.Controls]float64
	)
	for off := 0; off < next.Len(); off++ {
		idx := next.Unravel(off)
		x := sir.FromPoint(s.p.Grid.Point(idx))
		kind := s.p.Classify(x)
		rep.Cells[kind]++

		switch kind {
		case Exterior:
			next.SetOffset(off, lastValue)
			nextPol.SetOffset(off, lastPolicy)
		case PostHerd:
			next.SetOffset(off, 0)
			nextPol.SetOffset(off, [tensor.Controls]float64{})
		default:
			s.x = x
			res, err := optimize.Minimize(s.obj, s.bounds, s.guess, s.set)
			if err != nil {
				rep.Duration = time.Since(start)

				return rep, &SweepError{Index: idx, State: x, Err: fmt.Errorf("continuation value: %w", err)}
			}
			rep.Evaluations += res.Evaluations
			rep.Statuses[res.Status]++

			lastValue = res.F
			lastPolicy = [tensor.Controls]float64{res.X[0], res.X[1]}
			next.SetOffset(off, lastValue)
			nextPol.SetOffset(off, lastPolicy)
		}
	}
	rep.Duration = time.Since(start)

	return rep, nil
}
