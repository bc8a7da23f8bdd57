package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lockdown/config"
	"github.com/katalvlaran/lockdown/report"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/valueiter"
)

func newSolveCmd(a *app) *cobra.Command {
	var policyCSV, historyPlot string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run value iteration and report convergence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, res, err := a.solve(ctx)
			if err != nil {
				return err
			}
			if err = printSolve(cmd, run, res); err != nil {
				return err
			}
			if policyCSV != "" {
				if err = writeFile(policyCSV, func(f *os.File) error {
					return report.WritePolicyCSV(f, run.Problem, res)
				}); err != nil {
					return err
				}
				a.logger.Info("policy written", zap.String("path", policyCSV))
			}
			if historyPlot != "" {
				if err = report.PlotHistory(res.History, historyPlot); err != nil {
					return err
				}
				a.logger.Info("convergence plot written", zap.String("path", historyPlot))
			}

			return a.strictWarning(res)
		},
	}
	cmd.Flags().StringVar(&policyCSV, "policy-csv", "", "write value and policy of every grid cell to this CSV file")
	cmd.Flags().StringVar(&historyPlot, "history-plot", "", "plot the sup-norm history to this image file")

	return cmd
}

// solve builds the scenario and runs value iteration.
func (a *app) solve(ctx context.Context) (*config.Run, *valueiter.Result, error) {
	sc, err := a.scenario()
	if err != nil {
		return nil, nil, err
	}
	run, err := sc.Build()
	if err != nil {
		return nil, nil, err
	}

	opts := run.Solve
	opts.Logger = a.logger
	if a.recorder != nil {
		opts.Observer = a.recorder
	}
	res, err := valueiter.Solve(ctx, run.Problem, opts)
	if err != nil {
		return nil, nil, err
	}
	if a.recorder != nil {
		a.recorder.OnResult(res)
	}
	if w := res.Warning(); w != nil {
		a.logger.Warn("policy may be inaccurate", zap.Error(w))
	}

	return run, res, nil
}

// strictWarning turns a non-convergence warning into an error under --strict.
func (a *app) strictWarning(res *valueiter.Result) error {
	if a.strict {
		return res.Warning()
	}

	return nil
}

func printSolve(cmd *cobra.Command, run *config.Run, res *valueiter.Result) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "termination: %s\n", res.Termination)
	fmt.Fprintf(out, "iterations:  %d\n", res.Iterations)
	fmt.Fprintf(out, "sup-norm:    %.3g\n", res.LastSupNorm())
	fmt.Fprintf(out, "discount:    %.6f\n", res.Discount)
	fmt.Fprintf(out, "elapsed:     %s\n", res.Elapsed)

	q := run.Grid.Clamp(run.Initial.Point())
	u, err := res.EvaluatePolicy(q)
	if err != nil {
		return err
	}
	v, err := res.EvaluateValue(q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "at initial state: V=%.4f u_young=%.3f u_old=%.3f\n", v, u[sir.Young], u[sir.Old])

	return err
}

// writeFile creates path and passes it to fn.
func writeFile(path string, fn func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(f)
}
