// SPDX-License-Identifier: MIT

package valueiter

import (
	"math"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/sir"
)

// CellKind classifies a grid cell for the Bellman sweep.
type CellKind int

const (
	// Interior cells are solved by optimization.
	Interior CellKind = iota
	// PostHerd cells have value 0 and policy [0, 0].
	PostHerd
	// Exterior cells violate a group population bound and inherit.
	Exterior
)

// String implements fmt.Stringer.
func (k CellKind) String() string {
	switch k {
	case Interior:
		return "interior"
	case PostHerd:
		return "post-herd"
	case Exterior:
		return "exterior"
	default:
		return "unknown"
	}
}

// cellKinds is the number of CellKind values.
const cellKinds = 3

// Problem defaults (time unit: days).
const (
	DefaultDt              = 7.0
	DefaultNu              = 1.0 / 540 // vaccine expected in about 18 months
	DefaultRate            = 0.05 / 365
	DefaultPopulationSlack = 1e-3
	DefaultHerdThreshold   = 0.6
	DefaultControlMax      = 0.7
)

// Problem is the fixed description of one Bellman problem. It is read-only
// during Sweep and Solve.
type Problem struct {
	Grid       *grid.Grid
	Transition sir.TransitionFunc
	Cost       sir.CostFunc

	Dt   float64 // period length Δt (> 0)
	Nu   float64 // arrival rate of the resolving event (>= 0)
	Rate float64 // interest rate (>= 0)

	Population      [sir.Groups]float64 // P_g
	PopulationSlack float64             // tolerated excess of S_g + I_g over P_g
	HerdThreshold   float64             // in [0, 1]
	ControlMax      [sir.Groups]float64 // upper control bounds, each >= Grid.Floor()
}

// Discount returns β = exp(−(ν + r)·Δt).
func (p *Problem) Discount() float64 {
	return math.Exp(-(p.Nu + p.Rate) * p.Dt)
}

// Validate checks p and returns ErrInvalidConfig (wrapped) on the first violation.
func (p *Problem) Validate() error {
	switch {
	case p == nil:
		return configErrorf("nil problem")
	case p.Grid == nil:
		return configErrorf("nil grid")
	case p.Transition == nil:
		return configErrorf("nil transition function")
	case p.Cost == nil:
		return configErrorf("nil cost function")
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return configErrorf("dt=%g", p.Dt)
	case !finiteNonNeg(p.Nu):
		return configErrorf("nu=%g", p.Nu)
	case !finiteNonNeg(p.Rate):
		return configErrorf("rate=%g", p.Rate)
	case !finiteNonNeg(p.PopulationSlack):
		return configErrorf("population slack=%g", p.PopulationSlack)
	case !(p.HerdThreshold >= 0 && p.HerdThreshold <= 1):
		return configErrorf("herd threshold=%g", p.HerdThreshold)
	}
	floor := p.Grid.Floor()
	for g := 0; g < sir.Groups; g++ {
		if !finiteNonNeg(p.Population[g]) {
			return configErrorf("population[%s]=%g", sir.Group(g), p.Population[g])
		}
		if !(p.ControlMax[g] >= floor) || math.IsInf(p.ControlMax[g], 0) {
			return configErrorf("control max[%s]=%g below floor %g", sir.Group(g), p.ControlMax[g], floor)
		}
	}

	return nil
}

// Classify returns the kind of the cell whose state is x.
func (p *Problem) Classify(x sir.State) CellKind {
	for g := sir.Young; g <= sir.Old; g++ {
		if x.GroupMass(g) > p.Population[g]+p.PopulationSlack {
			return Exterior
		}
	}
	if x.Mass() < 1-p.HerdThreshold {
		return PostHerd
	}

	return Interior
}

// controlBox returns the optimizer bounds [ε, ControlMax_g].
func (p *Problem) controlBox() (lo, hi []float64) {
	floor := p.Grid.Floor()
	lo = []float64{floor, floor}
	hi = []float64{p.ControlMax[sir.Young], p.ControlMax[sir.Old]}

	return lo, hi
}

func finiteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
