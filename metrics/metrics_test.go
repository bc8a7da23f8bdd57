package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/metrics"
	"github.com/katalvlaran/lockdown/optimize"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/valueiter"
)

func TestOnSweep(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	r.OnSweep(valueiter.SweepReport{
		Iteration:   1,
		SupNorm:     0.25,
		Cells:       map[valueiter.CellKind]int{valueiter.Interior: 10, valueiter.Exterior: 6},
		Evaluations: 120,
		Statuses:    map[optimize.Status]int{optimize.GradientConverged: 9, optimize.LineSearchFailed: 1},
		Duration:    20 * time.Millisecond,
	})

	expected := `
# HELP lockdown_valueiter_cells Grid cells per classification in the last sweep.
# TYPE lockdown_valueiter_cells gauge
lockdown_valueiter_cells{kind="exterior"} 6
lockdown_valueiter_cells{kind="interior"} 10
lockdown_valueiter_cells{kind="post-herd"} 0
# HELP lockdown_valueiter_minimizer_stops_total Per-cell minimizer stop reasons.
# TYPE lockdown_valueiter_minimizer_stops_total counter
lockdown_valueiter_minimizer_stops_total{status="gradient-converged"} 9
lockdown_valueiter_minimizer_stops_total{status="line-search-failed"} 1
# HELP lockdown_valueiter_sup_norm Sup-norm change of the value function in the last sweep.
# TYPE lockdown_valueiter_sup_norm gauge
lockdown_valueiter_sup_norm 0.25
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"lockdown_valueiter_cells", "lockdown_valueiter_minimizer_stops_total", "lockdown_valueiter_sup_norm"))

	n, err := testutil.GatherAndCount(reg, "lockdown_valueiter_sweep_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorderObservesSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	g, err := grid.New(grid.Spec{Size: 3, Floor: 1e-6, SMax: 0.8, IMax: 0.2})
	require.NoError(t, err)
	p := &valueiter.Problem{
		Grid:            g,
		Transition:      func(_ sir.Control, x sir.State) sir.State { return x },
		Cost:            func(sir.Control, sir.State) float64 { return 1 },
		Dt:              7,
		Nu:              valueiter.DefaultNu,
		Population:      [sir.Groups]float64{0.8, 0.2},
		PopulationSlack: valueiter.DefaultPopulationSlack,
		HerdThreshold:   valueiter.DefaultHerdThreshold,
		ControlMax:      [sir.Groups]float64{0.7, 0.7},
	}
	o := valueiter.DefaultOptions()
	o.MaxIterations = 4
	o.Observer = r

	res, err := valueiter.Solve(context.Background(), p, o)
	require.NoError(t, err)
	r.OnResult(res)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		if len(mf.GetMetric()) != 1 {
			continue
		}
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		}
	}
	assert.Equal(t, 4.0, values["lockdown_valueiter_sweeps_total"])
	assert.Equal(t, 4.0, values["lockdown_valueiter_iterations"])
	assert.Equal(t, 0.0, values["lockdown_valueiter_converged"])
	assert.Equal(t, res.LastSupNorm(), values["lockdown_valueiter_sup_norm"])
	assert.Positive(t, values["lockdown_valueiter_objective_evaluations_total"])
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	_, err = metrics.NewRecorder(reg)
	var already prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &already)
}
