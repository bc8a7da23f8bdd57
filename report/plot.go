package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/lockdown/simulate"
	"github.com/katalvlaran/lockdown/sir"
)

// Plot size in inches.
const (
	plotWidth  = 8
	plotHeight = 4
)

// PlotTrajectory renders infections and lockdown intensities of both groups
// against time and saves the figure to path (format from the extension).
func PlotTrajectory(tr *simulate.Trajectory, path string) error {
	if tr == nil || len(tr.Steps) == 0 {
		return ErrEmpty
	}
	p := plot.New()
	p.Title.Text = "Lockdown policy replay"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Share of population / lockdown intensity"

	var (
		iyoung = make(plotter.XYs, len(tr.Steps))
		iold   = make(plotter.XYs, len(tr.Steps))
		uyoung = make(plotter.XYs, len(tr.Steps))
		uold   = make(plotter.XYs, len(tr.Steps))
	)
	for k, s := range tr.Steps {
		iyoung[k].X, iyoung[k].Y = s.Time, s.State.I(sir.Young)
		iold[k].X, iold[k].Y = s.Time, s.State.I(sir.Old)
		uyoung[k].X, uyoung[k].Y = s.Time, s.Control[sir.Young]
		uold[k].X, uold[k].Y = s.Time, s.Control[sir.Old]
	}

	if err := plotutil.AddLinePoints(p,
		"I young", iyoung,
		"I old", iold,
		"u young", uyoung,
		"u old", uold,
	); err != nil {
		return fmt.Errorf("report: add lines: %w", err)
	}

	return save(p, path)
}

// PlotHistory renders the sup-norm change per sweep on a log scale.
// Non-positive entries cannot be drawn on a log axis and are skipped.
func PlotHistory(history []float64, path string) error {
	pts := make(plotter.XYs, 0, len(history))
	for k, v := range history {
		if v > 0 {
			pts = append(pts, plotter.XY{X: float64(k + 1), Y: v})
		}
	}
	if len(pts) == 0 {
		return ErrEmpty
	}

	p := plot.New()
	p.Title.Text = "Value iteration convergence"
	p.X.Label.Text = "Sweep"
	p.Y.Label.Text = "sup |V_k+1 - V_k|"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	if err := plotutil.AddLinePoints(p, "sup-norm", pts); err != nil {
		return fmt.Errorf("report: add lines: %w", err)
	}

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(plotWidth*vg.Inch, plotHeight*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}

	return nil
}
