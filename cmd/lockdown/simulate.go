package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lockdown/report"
	"github.com/katalvlaran/lockdown/simulate"
)

func newSimulateCmd(a *app) *cobra.Command {
	var csvPath, plotPath string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Solve, then replay the policy from the scenario's initial state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, res, err := a.solve(ctx)
			if err != nil {
				return err
			}
			so := run.Simulate
			so.Logger = a.logger
			tr, err := simulate.Run(res, run.Model, run.Initial, so)
			if err != nil {
				return err
			}

			peak := 0.0
			for _, s := range tr.Steps {
				peak = max(peak, s.State.Infections())
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "periods:        %d\n", len(tr.Steps))
			fmt.Fprintf(out, "total cost:     %.4f\n", tr.TotalCost)
			fmt.Fprintf(out, "peak infected:  %.4f\n", peak)
			fmt.Fprintf(out, "clamped steps:  %d\n", tr.Clamped)

			if csvPath != "" {
				if err = writeFile(csvPath, func(f *os.File) error { return report.WriteCSV(f, tr) }); err != nil {
					return err
				}
				a.logger.Info("trajectory written", zap.String("path", csvPath))
			}
			if plotPath != "" {
				if err = report.PlotTrajectory(tr, plotPath); err != nil {
					return err
				}
				a.logger.Info("trajectory plot written", zap.String("path", plotPath))
			}

			return a.strictWarning(res)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the trajectory to this CSV file")
	cmd.Flags().StringVar(&plotPath, "plot", "", "plot the trajectory to this image file")

	return cmd
}
