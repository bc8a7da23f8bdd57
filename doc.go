// Package lockdown computes optimal targeted lockdown policies for a
// two-group (young/old) SIR epidemic by value iteration.
//
// The Bellman equation
//
//	V(x) = min_{u ∈ [ε, ū]}  c(u, x)·Δt + e^{−(ν+r)Δt} · V(f(u, x))
//
// is solved on a 4-D grid of susceptible and infected shares. Everything
// is organized in flat subpackages:
//
//	grid/       evenly spaced axes and the 4-D state grid
//	tensor/     dense N⁴ value and N⁴×2 policy buffers
//	interp/     quadrilinear interpolation with typed out-of-domain errors
//	optimize/   projected BFGS on a box with finite-difference gradients
//	sir/        state types, model contracts, reference two-group model
//	valueiter/  Bellman sweep and the value-iteration loop
//	simulate/   forward replay of a learned policy
//	report/     CSV export and PNG plots
//	metrics/    Prometheus observer of sweeps
//	config/     YAML scenarios
//	cmd/lockdown/ command-line front end
//
// Quick start:
//
//	sc := config.Default()
//	run, _ := sc.Build()
//	res, _ := valueiter.Solve(ctx, run.Problem, run.Solve)
//	tr, _ := simulate.Run(res, run.Model, run.Initial, run.Simulate)
package lockdown
