package config

import (
	"fmt"

	"github.com/katalvlaran/lockdown/grid"
	"github.com/katalvlaran/lockdown/optimize"
	"github.com/katalvlaran/lockdown/simulate"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/valueiter"
)

// Default returns the reference scenario: a 10-point grid, the default
// two-group model, weekly periods and one simulated year.
func Default() *Scenario {
	mp := sir.DefaultParams()
	ms := optimize.DefaultSettings()

	return &Scenario{
		Grid: GridConfig{Size: 10, Floor: mp.Floor, SMax: mp.SMax, IMax: mp.IMax},
		Model: ModelConfig{
			Population: mp.Population[:],
			Beta:       mp.Beta,
			Contact:    [][]float64{mp.Contact[0][:], mp.Contact[1][:]},
			Gamma:      mp.Gamma,
			Theta:      mp.Theta,
			DeathRate:  mp.DeathRate[:],
			Congestion: mp.Congestion,
			Wage:       mp.Wage[:],
			LifeValue:  mp.LifeValue,
		},
		Policy: PolicyConfig{
			Dt:              valueiter.DefaultDt,
			Nu:              valueiter.DefaultNu,
			Rate:            valueiter.DefaultRate,
			PopulationSlack: valueiter.DefaultPopulationSlack,
			HerdThreshold:   valueiter.DefaultHerdThreshold,
			ControlMax:      []float64{valueiter.DefaultControlMax, valueiter.DefaultControlMax},
		},
		Solver: SolverConfig{
			MaxIterations: valueiter.DefaultMaxIterations,
			Tolerance:     valueiter.DefaultTolerance,
			InitialGuess:  valueiter.LowerCorner.String(),
			Minimizer: MinimizerConfig{
				MaxIterations: ms.MaxIterations,
				GradTol:       ms.GradTol,
				StepTol:       ms.StepTol,
				FDStep:        ms.FDStep,
			},
		},
		Simulation: SimulationConfig{
			Horizon:      simulate.DefaultHorizon,
			Fallback:     simulate.FallbackClamp.String(),
			InitialState: [][]float64{{0.79, 0.199}, {0.01, 0.001}},
		},
	}
}

// Run is a scenario built into ready-to-use values.
type Run struct {
	Grid     *grid.Grid
	Model    *sir.Model
	Problem  *valueiter.Problem
	Solve    valueiter.Options
	Simulate simulate.Options
	Initial  sir.State
}

// Validate builds the scenario and reports the first failure wrapped with
// ErrInvalidScenario (and the cause).
func (sc *Scenario) Validate() error {
	_, err := sc.Build()

	return err
}

// Build turns sc into a Run.
func (sc *Scenario) Build() (*Run, error) {
	g, err := sc.BuildGrid()
	if err != nil {
		return nil, invalid("grid", err)
	}
	m, err := sc.BuildModel()
	if err != nil {
		return nil, invalid("model", err)
	}
	p, err := sc.BuildProblem(g, m)
	if err != nil {
		return nil, invalid("policy", err)
	}
	so, err := sc.SolveOptions()
	if err != nil {
		return nil, invalid("solver", err)
	}
	sim, err := sc.SimulateOptions(p.Discount())
	if err != nil {
		return nil, invalid("simulation", err)
	}
	x0, err := sc.InitialState()
	if err != nil {
		return nil, invalid("simulation", err)
	}
	if !g.Contains(x0.Point()) {
		return nil, invalid("simulation", fmt.Errorf("initial state %v outside the grid", x0.Point()))
	}

	return &Run{Grid: g, Model: m, Problem: p, Solve: so, Simulate: sim, Initial: x0}, nil
}

// BuildGrid builds the state grid.
func (sc *Scenario) BuildGrid() (*grid.Grid, error) {
	return grid.New(grid.Spec{Size: sc.Grid.Size, Floor: sc.Grid.Floor, SMax: sc.Grid.SMax, IMax: sc.Grid.IMax})
}

// BuildModel builds the reference model; its clamp box is the grid box and
// its period is the policy's dt.
func (sc *Scenario) BuildModel() (*sir.Model, error) {
	mc := sc.Model
	p := sir.Params{
		Beta:       mc.Beta,
		Gamma:      mc.Gamma,
		Theta:      mc.Theta,
		Congestion: mc.Congestion,
		LifeValue:  mc.LifeValue,
		Dt:         sc.Policy.Dt,
		Floor:      sc.Grid.Floor,
		SMax:       sc.Grid.SMax,
		IMax:       sc.Grid.IMax,
	}
	var err error
	if p.Population, err = pair("population", mc.Population); err != nil {
		return nil, err
	}
	if p.DeathRate, err = pair("death_rate", mc.DeathRate); err != nil {
		return nil, err
	}
	if p.Wage, err = pair("wage", mc.Wage); err != nil {
		return nil, err
	}
	if len(mc.Contact) != sir.Groups {
		return nil, fmt.Errorf("contact: want %d rows, got %d", sir.Groups, len(mc.Contact))
	}
	for g, row := range mc.Contact {
		if p.Contact[g], err = pair(fmt.Sprintf("contact[%d]", g), row); err != nil {
			return nil, err
		}
	}

	return sir.NewModel(p)
}

// BuildProblem builds the Bellman problem over g driven by m.
func (sc *Scenario) BuildProblem(g *grid.Grid, m *sir.Model) (*valueiter.Problem, error) {
	pc := sc.Policy
	cmax, err := pair("control_max", pc.ControlMax)
	if err != nil {
		return nil, err
	}
	p := &valueiter.Problem{
		Grid:            g,
		Transition:      m.Transition,
		Cost:            m.Cost,
		Dt:              pc.Dt,
		Nu:              pc.Nu,
		Rate:            pc.Rate,
		Population:      m.Params().Population,
		PopulationSlack: pc.PopulationSlack,
		HerdThreshold:   pc.HerdThreshold,
		ControlMax:      cmax,
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// SolveOptions returns the solver options. Logger and Observer are left
// for the caller.
func (sc *Scenario) SolveOptions() (valueiter.Options, error) {
	o := valueiter.DefaultOptions()
	o.MaxIterations = sc.Solver.MaxIterations
	o.Tolerance = sc.Solver.Tolerance
	switch sc.Solver.InitialGuess {
	case valueiter.LowerCorner.String(), "":
		o.Guess = valueiter.LowerCorner
	case valueiter.MixedCorner.String():
		o.Guess = valueiter.MixedCorner
	default:
		return o, fmt.Errorf("initial_guess %q: want %q or %q",
			sc.Solver.InitialGuess, valueiter.LowerCorner, valueiter.MixedCorner)
	}
	mc := sc.Solver.Minimizer
	o.Minimizer.MaxIterations = mc.MaxIterations
	o.Minimizer.GradTol = mc.GradTol
	o.Minimizer.StepTol = mc.StepTol
	o.Minimizer.FDStep = mc.FDStep

	return o, o.Validate()
}

// SimulateOptions returns the replay options discounted by beta per period.
func (sc *Scenario) SimulateOptions(beta float64) (simulate.Options, error) {
	fb, err := simulate.ParseFallback(sc.Simulation.Fallback)
	if err != nil {
		return simulate.Options{}, err
	}
	o := simulate.Options{
		Horizon:  sc.Simulation.Horizon,
		Dt:       sc.Policy.Dt,
		Discount: beta,
		Fallback: fb,
	}

	return o, o.Validate()
}

// InitialState returns the simulation starting state.
func (sc *Scenario) InitialState() (sir.State, error) {
	var x sir.State
	rows := sc.Simulation.InitialState
	if len(rows) != 2 {
		return x, fmt.Errorf("initial_state: want 2 rows, got %d", len(rows))
	}
	var err error
	if x[sir.Susceptible], err = pair("initial_state[0]", rows[0]); err != nil {
		return x, err
	}
	if x[sir.Infected], err = pair("initial_state[1]", rows[1]); err != nil {
		return x, err
	}

	return x, nil
}

// pair converts a two-element list.
func pair(name string, v []float64) ([sir.Groups]float64, error) {
	var out [sir.Groups]float64
	if len(v) != sir.Groups {
		return out, fmt.Errorf("%s: want %d values, got %d", name, sir.Groups, len(v))
	}
	copy(out[:], v)

	return out, nil
}

// invalid wraps err with ErrInvalidScenario and the section name.
func invalid(section string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, section, err)
}
