package sir_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lockdown/sir"
)

// newModel returns the default model or fails the test.
func newModel(t *testing.T) *sir.Model {
	t.Helper()
	m, err := sir.NewModel(sir.DefaultParams())
	require.NoError(t, err)

	return m
}

// TestParamsValidate rejects each class of bad parameter.
func TestParamsValidate(t *testing.T) {
	require.NoError(t, sir.DefaultParams().Validate())

	mutations := map[string]func(p *sir.Params){
		"negative beta":       func(p *sir.Params) { p.Beta = -1 },
		"theta above one":     func(p *sir.Params) { p.Theta = 1.5 },
		"population over one": func(p *sir.Params) { p.Population = [2]float64{0.8, 0.3} },
		"nan wage":            func(p *sir.Params) { p.Wage[1] = math.NaN() },
		"zero dt":             func(p *sir.Params) { p.Dt = 0 },
		"zero floor":          func(p *sir.Params) { p.Floor = 0 },
		"imax below floor":    func(p *sir.Params) { p.IMax = p.Floor / 2 },
		"negative contact":    func(p *sir.Params) { p.Contact[0][1] = -0.1 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := sir.DefaultParams()
			mutate(&p)
			_, err := sir.NewModel(p)
			require.ErrorIs(t, err, sir.ErrInvalidParams)
		})
	}
}

// TestStatePoint verifies the flattening order used by grid queries.
func TestStatePoint(t *testing.T) {
	x := sir.State{{0.5, 0.15}, {0.01, 0.02}}
	assert.Equal(t, [4]float64{0.5, 0.15, 0.01, 0.02}, x.Point())
	assert.Equal(t, x, sir.FromPoint(x.Point()))
	assert.InDelta(t, 0.51, x.GroupMass(sir.Young), 1e-15)
	assert.InDelta(t, 0.68, x.Mass(), 1e-15)
	assert.InDelta(t, 0.03, x.Infections(), 1e-15)
	assert.Equal(t, "old", sir.Old.String())
}

// TestTransitionConservesWithinGroup checks S+I only shrinks (by recoveries) and S never grows.
func TestTransitionConservesWithinGroup(t *testing.T) {
	m := newModel(t)
	x := sir.State{{0.7, 0.18}, {0.05, 0.01}}
	next := m.Transition(sir.Control{0.2, 0.5}, x)

	for g := sir.Young; g <= sir.Old; g++ {
		assert.LessOrEqual(t, next.S(g), x.S(g), "S_%s must not grow", g)
		assert.LessOrEqual(t, next.GroupMass(g), x.GroupMass(g)+1e-15, "S+I of %s must not grow", g)
	}
}

// TestLockdownSlowsInfection checks that a stricter lockdown yields fewer new infections.
func TestLockdownSlowsInfection(t *testing.T) {
	m := newModel(t)
	x := sir.State{{0.7, 0.18}, {0.05, 0.01}}

	open := m.NewInfections(sir.Control{0, 0}, x)
	closed := m.NewInfections(sir.Control{0.7, 0.7}, x)
	for g := 0; g < sir.Groups; g++ {
		assert.Less(t, closed[g], open[g])
	}
}

// TestTransitionClamps checks next states never leave the grid box.
func TestTransitionClamps(t *testing.T) {
	p := sir.DefaultParams()
	p.Beta = 50 // explosive
	m, err := sir.NewModel(p)
	require.NoError(t, err)

	q := m.Transition(sir.Control{}, sir.State{{0.8, 0.2}, {0.2, 0.2}}).Point()
	for _, v := range q[:2] {
		assert.GreaterOrEqual(t, v, p.Floor)
		assert.LessOrEqual(t, v, p.SMax)
	}
	for _, v := range q[2:] {
		assert.GreaterOrEqual(t, v, p.Floor)
		assert.LessOrEqual(t, v, p.IMax)
	}
}

// TestCost checks the zero case and monotonicity in lockdown and infections.
func TestCost(t *testing.T) {
	m := newModel(t)
	clean := sir.State{{0.8, 0.2}, {0, 0}}
	assert.Equal(t, 0.0, m.Cost(sir.Control{}, clean))

	x := sir.State{{0.7, 0.18}, {0.05, 0.01}}
	base := m.Cost(sir.Control{}, x)
	assert.Positive(t, base)
	assert.Greater(t, m.Cost(sir.Control{0.5, 0}, x), base)

	sicker := sir.State{{0.7, 0.18}, {0.1, 0.02}}
	assert.Greater(t, m.Cost(sir.Control{}, sicker), base)

	// pure lockdown cost: w·u·P
	assert.InDelta(t, 1.0*0.5*0.8+0.26*0.5*0.2, m.Cost(sir.Control{0.5, 0.5}, clean), 1e-12)
}
