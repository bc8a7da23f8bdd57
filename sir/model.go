// SPDX-License-Identifier: MIT

package sir

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams indicates a negative, non-finite or inconsistent parameter.
var ErrInvalidParams = errors.New("sir: invalid model parameters")

// Params configures the reference model. Rates are per unit of time; Dt is
// the length of one Bellman period in the same unit.
type Params struct {
	Population [Groups]float64         // P_g, population shares (sum <= 1)
	Beta       float64                 // β, transmission rate
	Contact    [Groups][Groups]float64 // ρ_gh, relative contact intensities
	Gamma      float64                 // γ, recovery/exit rate of infected
	Theta      float64                 // θ ∈ [0,1], lockdown effectiveness
	DeathRate  [Groups]float64         // δ_g, fatality per infected exit
	Congestion float64                 // κ, fatality multiplier per unit of ΣI
	Wage       [Groups]float64         // w_g, output per capita per unit of time
	LifeValue  float64                 // χ, cost of one death in output units
	Dt         float64                 // Δt, period length

	// Clamp box of the solver grid; next states are projected onto it.
	Floor float64
	SMax  float64
	IMax  float64
}

// Defaults (time unit: days).
const (
	DefaultBeta       = 0.15
	DefaultGamma      = 1.0 / 18
	DefaultTheta      = 0.75
	DefaultCongestion = 5.0
	DefaultLifeValue  = 5000.0
	DefaultDt         = 7.0
	DefaultFloor      = 1e-6
	DefaultSMax       = 0.8
	DefaultIMax       = 0.2
)

// DefaultParams returns a young-heavy population (80/20) with a much higher
// fatality rate and lower productivity in the old group.
func DefaultParams() Params {
	return Params{
		Population: [Groups]float64{0.8, 0.2},
		Beta:       DefaultBeta,
		Contact:    [Groups][Groups]float64{{1.0, 0.5}, {0.5, 0.8}},
		Gamma:      DefaultGamma,
		Theta:      DefaultTheta,
		DeathRate:  [Groups]float64{0.001, 0.05},
		Congestion: DefaultCongestion,
		Wage:       [Groups]float64{1.0, 0.26},
		LifeValue:  DefaultLifeValue,
		Dt:         DefaultDt,
		Floor:      DefaultFloor,
		SMax:       DefaultSMax,
		IMax:       DefaultIMax,
	}
}

// Validate returns ErrInvalidParams (wrapped with the field) on the first violation.
func (p Params) Validate() error {
	bad := func(field string, v float64) error {
		return fmt.Errorf("%s=%g: %w", field, v, ErrInvalidParams)
	}
	var popSum float64
	for g := 0; g < Groups; g++ {
		if !nonNegative(p.Population[g]) {
			return bad("Population", p.Population[g])
		}
		popSum += p.Population[g]
		if !nonNegative(p.DeathRate[g]) || p.DeathRate[g] > 1 {
			return bad("DeathRate", p.DeathRate[g])
		}
		if !nonNegative(p.Wage[g]) {
			return bad("Wage", p.Wage[g])
		}
		for h := 0; h < Groups; h++ {
			if !nonNegative(p.Contact[g][h]) {
				return bad("Contact", p.Contact[g][h])
			}
		}
	}
	switch {
	case popSum > 1+1e-12:
		return bad("sum(Population)", popSum)
	case !nonNegative(p.Beta):
		return bad("Beta", p.Beta)
	case !nonNegative(p.Gamma):
		return bad("Gamma", p.Gamma)
	case !nonNegative(p.Theta) || p.Theta > 1:
		return bad("Theta", p.Theta)
	case !nonNegative(p.Congestion):
		return bad("Congestion", p.Congestion)
	case !nonNegative(p.LifeValue):
		return bad("LifeValue", p.LifeValue)
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return bad("Dt", p.Dt)
	case !(p.Floor > 0) || math.IsInf(p.Floor, 0):
		return bad("Floor", p.Floor)
	case !(p.SMax > p.Floor) || math.IsInf(p.SMax, 0):
		return bad("SMax", p.SMax)
	case !(p.IMax > p.Floor) || math.IsInf(p.IMax, 0):
		return bad("IMax", p.IMax)
	}

	return nil
}

// Model is the reference two-group SIR model. It is immutable and its
// methods are pure, so one Model can serve any number of solvers.
type Model struct {
	p Params
}

// NewModel validates p and returns a Model.
func NewModel(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Model{p: p}, nil
}

// Params returns a copy of the model parameters.
func (m *Model) Params() Params { return m.p }

// NewInfections returns M_g for both groups under control u.
func (m *Model) NewInfections(u Control, x State) [Groups]float64 {
	var out [Groups]float64
	for g := 0; g < Groups; g++ {
		var pressure float64
		for h := 0; h < Groups; h++ {
			pressure += m.p.Contact[g][h] * (1 - m.p.Theta*u[h]) * x[Infected][h]
		}
		out[g] = m.p.Beta * x[Susceptible][g] * (1 - m.p.Theta*u[g]) * pressure
	}

	return out
}

// Transition advances x by one period of length Dt under control u and
// clamps the result into [Floor, SMax] × [Floor, IMax]. It satisfies
// TransitionFunc.
func (m *Model) Transition(u Control, x State) State {
	inf := m.NewInfections(u, x)
	var next State
	for g := 0; g < Groups; g++ {
		s := x[Susceptible][g] - m.p.Dt*inf[g]
		i := x[Infected][g] + m.p.Dt*(inf[g]-m.p.Gamma*x[Infected][g])
		next[Susceptible][g] = clamp(s, m.p.Floor, m.p.SMax)
		next[Infected][g] = clamp(i, m.p.Floor, m.p.IMax)
	}

	return next
}

// Deaths returns the death flow per unit of time in x.
func (m *Model) Deaths(x State) float64 {
	factor := 1 + m.p.Congestion*x.Infections()
	var d float64
	for g := 0; g < Groups; g++ {
		d += m.p.DeathRate[g] * factor * m.p.Gamma * x[Infected][g]
	}

	return d
}

// Cost returns output lost to the lockdown plus the value of lives lost per
// unit of time. It satisfies CostFunc and is zero when u = 0 and no one is
// infected.
func (m *Model) Cost(u Control, x State) float64 {
	var lost float64
	for g := 0; g < Groups; g++ {
		lost += m.p.Wage[g] * u[g] * m.p.Population[g]
	}

	return lost + m.p.LifeValue*m.Deaths(x)
}

// clamp limits v to [lo, hi]; NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// nonNegative reports a finite value >= 0.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
