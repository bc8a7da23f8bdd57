// SPDX-License-Identifier: MIT

package valueiter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lockdown/tensor"
)

// Solve runs value iteration on p until the sup-norm change is at most
// opts.Tolerance or opts.MaxIterations sweeps have been made. Convergence
// on the last permitted sweep counts as Converged.
//
// Exhaustion is not an error: inspect Result.Termination or Result.Warning.
// ctx is checked before every sweep.
//
// Errors:
//   - ErrInvalidConfig for an invalid p, opts or warm start (before any allocation of work);
//   - *SweepError from a failed sweep;
//   - ctx.Err(), wrapped, on cancellation.
func Solve(ctx context.Context, p *Problem, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	n := p.Grid.Size()
	if opts.WarmStart != nil && opts.WarmStart.Side() != n {
		return nil, configErrorf("warm start side %d, grid size %d", opts.WarmStart.Side(), n)
	}

	cur, nxt, curPol, nxtPol, err := allocate(n)
	if err != nil {
		return nil, err
	}
	if opts.WarmStart != nil {
		if err = cur.CopyFrom(opts.WarmStart); err != nil {
			return nil, configErrorf("warm start: %v", err)
		}
	}

	sw := newSweeper(p, opts)
	log := opts.logger().With(zap.Int("grid_size", n), zap.Float64("discount", sw.beta))
	log.Info("value iteration started",
		zap.Int("cells", p.Grid.Cells()),
		zap.Int("max_iterations", opts.MaxIterations),
		zap.Float64("tolerance", opts.Tolerance),
		zap.Stringer("initial_guess", opts.Guess))

	start := time.Now()
	history := make([]float64, 0, min(opts.MaxIterations, 256))
	term := Exhausted
	iter := 0
	for iter < opts.MaxIterations {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("valueiter: stopped after %d iterations: %w", iter, err)
		}

		rep, err := sw.run(cur, nxt, nxtPol)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter+1, err)
		}
		sup, err := tensor.SupNorm(cur, nxt)
		if err != nil {
			return nil, err
		}
		cur, nxt = nxt, cur
		curPol, nxtPol = nxtPol, curPol
		iter++
		history = append(history, sup)

		rep.Iteration, rep.SupNorm = iter, sup
		log.Debug("sweep",
			zap.Int("iteration", iter),
			zap.Float64("sup_norm", sup),
			zap.Int("interior", rep.Cells[Interior]),
			zap.Int("post_herd", rep.Cells[PostHerd]),
			zap.Int("exterior", rep.Cells[Exterior]),
			zap.Int("evaluations", rep.Evaluations),
			zap.Duration("duration", rep.Duration))
		if opts.Observer != nil {
			opts.Observer.OnSweep(rep)
		}

		if sup <= opts.Tolerance {
			term = Converged
			break
		}
	}

	res := &Result{
		Value:       cur,
		Policy:      curPol,
		Iterations:  iter,
		Termination: term,
		History:     history,
		Discount:    sw.beta,
		Tolerance:   opts.Tolerance,
		Elapsed:     time.Since(start),
		grid:        p.Grid,
		qi:          sw.qi,
	}

	fields := []zap.Field{
		zap.Int("iterations", iter),
		zap.Float64("sup_norm", res.LastSupNorm()),
		zap.Duration("elapsed", res.Elapsed),
	}
	if res.Converged() {
		log.Info("value iteration converged", fields...)
	} else {
		log.Warn("value iteration exhausted its budget", fields...)
	}

	return res, nil
}

// allocate builds the two value and two policy buffers.
func allocate(n int) (cur, nxt *tensor.Field, curPol, nxtPol *tensor.PolicyField, err error) {
	if cur, err = tensor.NewField(n); err != nil {
		return
	}
	if nxt, err = tensor.NewField(n); err != nil {
		return
	}
	if curPol, err = tensor.NewPolicyField(n); err != nil {
		return
	}
	nxtPol, err = tensor.NewPolicyField(n)

	return
}
