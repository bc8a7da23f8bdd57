package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/report"
	"github.com/katalvlaran/lockdown/simulate"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/valueiter"
)

func trajectory() *simulate.Trajectory {
	return &simulate.Trajectory{
		Steps: []simulate.Step{
			{Period: 0, Time: 0, State: sir.State{{0.7, 0.18}, {0.05, 0.01}}, Control: sir.Control{0.5, 0.25}, Cost: 3.5},
			{Period: 1, Time: 7, State: sir.State{{0.65, 0.17}, {0.04, 0.01}}, Control: sir.Control{0.4, 0.2}, Cost: 2.75, Clamped: true},
		},
		TotalCost: 6.25,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, trajectory()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.TrajectoryHeader, rows[0])
	assert.Equal(t, []string{"0", "0", "0.7", "0.18", "0.05", "0.01", "0.5", "0.25", "3.5", "false"}, rows[1])
	assert.Equal(t, []string{"1", "7", "0.65", "0.17", "0.04", "0.01", "0.4", "0.2", "2.75", "true"}, rows[2])

	require.ErrorIs(t, report.WriteCSV(&buf, &simulate.Trajectory{}), report.ErrEmpty)
}

func TestWritePolicyCSV(t *testing.T) {
	g, err := grid.New(grid.Spec{Size: 2, Floor: 1e-6, SMax: 0.8, IMax: 0.2})
	require.NoError(t, err)
	p := &valueiter.Problem{
		Grid:            g,
		Transition:      func(_ sir.Control, x sir.State) sir.State { return x },
		Cost:            func(sir.Control, sir.State) float64 { return 1 },
		Dt:              1,
		Population:      [sir.Groups]float64{0.8, 0.2},
		PopulationSlack: valueiter.DefaultPopulationSlack,
		HerdThreshold:   valueiter.DefaultHerdThreshold,
		ControlMax:      [sir.Groups]float64{0.7, 0.7},
	}
	o := valueiter.DefaultOptions()
	o.MaxIterations = 1
	res, err := valueiter.Solve(context.Background(), p, o)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WritePolicyCSV(&buf, p, res))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+g.Cells())
	assert.Equal(t, report.PolicyHeader, rows[0])

	// first cell: every coordinate at the floor, post-herd
	assert.Equal(t, []string{"1e-06", "1e-06", "1e-06", "1e-06", "post-herd", "0", "0", "0"}, rows[1])
}

func TestPlots(t *testing.T) {
	dir := t.TempDir()

	traj := filepath.Join(dir, "trajectory.png")
	require.NoError(t, report.PlotTrajectory(trajectory(), traj))
	assertNonEmptyFile(t, traj)

	hist := filepath.Join(dir, "history.png")
	require.NoError(t, report.PlotHistory([]float64{7, 3.5, 0, 0.9, 1e-3}, hist))
	assertNonEmptyFile(t, hist)

	require.ErrorIs(t, report.PlotHistory([]float64{0, 0}, hist), report.ErrEmpty)
	require.ErrorIs(t, report.PlotTrajectory(nil, traj), report.ErrEmpty)
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}
