// Package config loads lockdown scenarios from YAML.
//
// A Scenario groups every knob of a run: the grid, the epidemic model, the
// Bellman problem, the solver and the forward simulation. Parse starts from
// Default and overlays the document, so a file only needs the fields it
// changes. Unknown fields are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario indicates a scenario that cannot be built into a run.
var ErrInvalidScenario = errors.New("config: invalid scenario")

// Scenario is the root of a scenario document.
type Scenario struct {
	Grid       GridConfig       `yaml:"grid"`
	Model      ModelConfig      `yaml:"model"`
	Policy     PolicyConfig     `yaml:"policy"`
	Solver     SolverConfig     `yaml:"solver"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// GridConfig describes the state grid.
type GridConfig struct {
	Size  int     `yaml:"size"`
	Floor float64 `yaml:"floor"`
	SMax  float64 `yaml:"s_max"`
	IMax  float64 `yaml:"i_max"`
}

// ModelConfig holds the epidemic and cost parameters. Per-group lists are
// ordered [young, old].
type ModelConfig struct {
	Population []float64   `yaml:"population"`
	Beta       float64     `yaml:"beta"`
	Contact    [][]float64 `yaml:"contact"`
	Gamma      float64     `yaml:"gamma"`
	Theta      float64     `yaml:"theta"`
	DeathRate  []float64   `yaml:"death_rate"`
	Congestion float64     `yaml:"congestion"`
	Wage       []float64   `yaml:"wage"`
	LifeValue  float64     `yaml:"life_value"`
}

// PolicyConfig holds the Bellman problem settings.
type PolicyConfig struct {
	Dt              float64   `yaml:"dt"`
	Nu              float64   `yaml:"nu"`
	Rate            float64   `yaml:"rate"`
	PopulationSlack float64   `yaml:"population_slack"`
	HerdThreshold   float64   `yaml:"herd_threshold"`
	ControlMax      []float64 `yaml:"control_max"`
}

// SolverConfig tunes value iteration and the per-cell minimizer.
type SolverConfig struct {
	MaxIterations int             `yaml:"max_iterations"`
	Tolerance     float64         `yaml:"tolerance"`
	InitialGuess  string          `yaml:"initial_guess"` // "lower" or "mixed"
	Minimizer     MinimizerConfig `yaml:"minimizer"`
}

// MinimizerConfig tunes optimize.Minimize.
type MinimizerConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	GradTol       float64 `yaml:"grad_tol"`
	StepTol       float64 `yaml:"step_tol"`
	FDStep        float64 `yaml:"fd_step"`
}

// SimulationConfig describes the policy replay.
type SimulationConfig struct {
	Horizon      int         `yaml:"horizon"`
	Fallback     string      `yaml:"fallback"`      // "clamp" or "halt"
	InitialState [][]float64 `yaml:"initial_state"` // [[S_young, S_old], [I_young, I_old]]
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sc, nil
}

// Parse overlays data on Default, then validates the result.
// An empty document yields the defaults.
func Parse(data []byte) (*Scenario, error) {
	sc := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return sc, nil
}

// Marshal renders sc as YAML.
func (sc *Scenario) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}

	return buf.Bytes(), nil
}
