package sir

import "fmt"

// Group indexes the two population groups.
type Group int

const (
	// Young is the low-risk, high-productivity group.
	Young Group = iota
	// Old is the high-risk group.
	Old
)

// Groups is the number of population groups.
const Groups = 2

// String implements fmt.Stringer.
func (g Group) String() string {
	switch g {
	case Young:
		return "young"
	case Old:
		return "old"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// Compartment rows of a State.
const (
	Susceptible = 0
	Infected    = 1
)

// State is [[S_young, S_old], [I_young, I_old]] in population-share units.
type State [2][Groups]float64

// Control holds one lockdown intensity per group.
type Control [Groups]float64

// TransitionFunc returns the next-period state under control u.
// Implementations must be pure and return coordinates already clamped into
// the solver grid.
type TransitionFunc func(u Control, x State) State

// CostFunc returns the non-negative instantaneous cost of applying u in x.
type CostFunc func(u Control, x State) float64

// FromPoint builds a State from a grid point [S_y, S_o, I_y, I_o].
func FromPoint(q [4]float64) State {
	return State{{q[0], q[1]}, {q[2], q[3]}}
}

// Point flattens x into the grid query order [S_y, S_o, I_y, I_o].
func (x State) Point() [4]float64 {
	return [4]float64{x[Susceptible][Young], x[Susceptible][Old], x[Infected][Young], x[Infected][Old]}
}

// S returns the susceptible share of group g.
func (x State) S(g Group) float64 { return x[Susceptible][g] }

// I returns the infected share of group g.
func (x State) I(g Group) float64 { return x[Infected][g] }

// GroupMass returns S_g + I_g, the column sum for group g.
func (x State) GroupMass(g Group) float64 { return x[Susceptible][g] + x[Infected][g] }

// Mass returns the aggregate susceptible-plus-infected share.
func (x State) Mass() float64 { return x.GroupMass(Young) + x.GroupMass(Old) }

// Infections returns I_young + I_old.
func (x State) Infections() float64 { return x[Infected][Young] + x[Infected][Old] }
