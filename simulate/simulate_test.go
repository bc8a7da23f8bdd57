package simulate_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/interp"
	"github.com/katalvlaran/lockdown/simulate"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/valueiter"
)

// fixedPolicy returns u everywhere inside g.
type fixedPolicy struct {
	g     *grid.Grid
	u     sir.Control
	calls [][4]float64
}

func (p *fixedPolicy) EvaluatePolicy(q [4]float64) (sir.Control, error) {
	p.calls = append(p.calls, q)
	lo, hi := p.g.Box()
	for k := range q {
		if !(q[k] >= lo[k] && q[k] <= hi[k]) {
			return sir.Control{}, &interp.OutOfDomainError{Axis: k, Value: q[k], Min: lo[k], Max: hi[k], Query: q}
		}
	}

	return p.u, nil
}

func (p *fixedPolicy) Grid() *grid.Grid { return p.g }

// halving halves infections each period; cost is 1 + u_young.
type halving struct{}

func (halving) Transition(_ sir.Control, x sir.State) sir.State {
	x[sir.Infected][sir.Young] /= 2
	x[sir.Infected][sir.Old] /= 2

	return x
}

func (halving) Cost(u sir.Control, _ sir.State) float64 { return 1 + u[sir.Young] }

func newGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Spec{Size: 3, Floor: 1e-6, SMax: 0.8, IMax: 0.2})
	require.NoError(t, err)

	return g
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, simulate.DefaultOptions().Validate())

	for name, o := range map[string]simulate.Options{
		"zero horizon":  {Horizon: 0, Dt: 1, Discount: 1},
		"zero dt":       {Horizon: 1, Dt: 0, Discount: 1},
		"discount > 1":  {Horizon: 1, Dt: 1, Discount: 1.5},
		"bad fallback":  {Horizon: 1, Dt: 1, Discount: 1, Fallback: 7},
		"zero discount": {Horizon: 1, Dt: 1, Discount: 0},
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, o.Validate(), simulate.ErrInvalidOptions)
		})
	}

	fb, err := simulate.ParseFallback("halt")
	require.NoError(t, err)
	assert.Equal(t, simulate.FallbackHalt, fb)
	_, err = simulate.ParseFallback("retry")
	require.ErrorIs(t, err, simulate.ErrInvalidOptions)
}

func TestRunAccruesDiscountedCost(t *testing.T) {
	pol := &fixedPolicy{g: newGrid(t), u: sir.Control{0.5, 0.1}}
	x0 := sir.State{{0.6, 0.15}, {0.16, 0.04}}
	o := simulate.Options{Horizon: 4, Dt: 7, Discount: 0.9}

	tr, err := simulate.Run(pol, halving{}, x0, o)
	require.NoError(t, err)
	require.Len(t, tr.Steps, 4)

	var times, costs []float64
	for _, s := range tr.Steps {
		times = append(times, s.Time)
		costs = append(costs, s.Cost)
		assert.False(t, s.Clamped)
		assert.Equal(t, sir.Control{0.5, 0.1}, s.Control)
	}
	assert.Equal(t, []float64{0, 7, 14, 21}, times)
	assert.Equal(t, []float64{10.5, 10.5, 10.5, 10.5}, costs)
	assert.InDelta(t, 10.5*(1+0.9+0.81+0.729), tr.TotalCost, 1e-12)

	want := sir.State{{0.6, 0.15}, {0.01, 0.0025}}
	if diff := cmp.Diff(want, tr.Final, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("final state mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, tr.Clamped)
}

func TestFallbackClamp(t *testing.T) {
	pol := &fixedPolicy{g: newGrid(t), u: sir.Control{0.3, 0.3}}
	x0 := sir.State{{0.9, 0.15}, {0.3, 0.04}} // S_young and I_young above the grid

	tr, err := simulate.Run(pol, halving{}, x0, simulate.Options{Horizon: 3, Dt: 1, Discount: 1})
	require.NoError(t, err)
	require.Len(t, tr.Steps, 3)
	assert.True(t, tr.Steps[0].Clamped)
	assert.Equal(t, sir.Control{0.3, 0.3}, tr.Steps[0].Control)
	assert.Positive(t, tr.Clamped)

	// the retry is made at the projected point
	assert.Equal(t, [4]float64{0.8, 0.15, 0.2, 0.04}, pol.calls[1])
}

func TestFallbackHalt(t *testing.T) {
	pol := &fixedPolicy{g: newGrid(t)}
	x0 := sir.State{{0.9, 0.15}, {0.1, 0.04}}

	tr, err := simulate.Run(pol, halving{}, x0, simulate.Options{Horizon: 3, Dt: 1, Discount: 1, Fallback: simulate.FallbackHalt})
	require.ErrorIs(t, err, interp.ErrOutOfDomain)
	require.NotNil(t, tr)
	assert.Empty(t, tr.Steps)
	assert.Equal(t, x0, tr.Final)
}

// TestReplayLearnedPolicy runs the reference model under a solved policy.
func TestReplayLearnedPolicy(t *testing.T) {
	m, err := sir.NewModel(sir.DefaultParams())
	require.NoError(t, err)
	p := &valueiter.Problem{
		Grid:            newGrid(t),
		Transition:      m.Transition,
		Cost:            m.Cost,
		Dt:              valueiter.DefaultDt,
		Nu:              valueiter.DefaultNu,
		Rate:            valueiter.DefaultRate,
		Population:      m.Params().Population,
		PopulationSlack: valueiter.DefaultPopulationSlack,
		HerdThreshold:   valueiter.DefaultHerdThreshold,
		ControlMax:      [sir.Groups]float64{0.7, 0.7},
	}
	vo := valueiter.DefaultOptions()
	vo.MaxIterations = 3
	res, err := valueiter.Solve(context.Background(), p, vo)
	require.NoError(t, err)

	x0 := sir.State{{0.78, 0.19}, {0.01, 0.005}}
	tr, err := simulate.Run(res, m, x0, simulate.Options{Horizon: 10, Dt: valueiter.DefaultDt, Discount: res.Discount})
	require.NoError(t, err)
	require.Len(t, tr.Steps, 10)

	for _, s := range tr.Steps {
		for g := 0; g < sir.Groups; g++ {
			assert.GreaterOrEqual(t, s.Control[g], 0.0)
			assert.LessOrEqual(t, s.Control[g], 0.7+1e-12)
		}
		assert.False(t, math.IsNaN(s.Cost))
	}
	assert.Positive(t, tr.TotalCost)
}
