// Package solver wraps Gorgonia Solvers so that the solver used to
// train a network can be described in a JSON configuration file.
package solver

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// Config describes a Gorgonia Solver and can create the Solver it
// describes.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool
}

// Solver wraps Gorgonia Solvers so that they can be JSON marshalled and
// unmarshalled. A Solver marshals to {"Type": ..., "Config": {...}}.
type Solver struct {
	G.Solver `json:"-"`
	Type
	Config
}

func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newsolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	return &Solver{Solver: c.Create(), Type: t, Config: c}, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshaljson: %v", err)
	}

	var config Config
	switch raw.Type {
	case Adam:
		c := AdamConfig{}
		err := json.Unmarshal(raw.Config, &c)
		config = c
		if err != nil {
			return fmt.Errorf("unmarshaljson: %v", err)
		}
	case Vanilla:
		c := VanillaConfig{}
		err := json.Unmarshal(raw.Config, &c)
		config = c
		if err != nil {
			return fmt.Errorf("unmarshaljson: %v", err)
		}
	case RMSProp:
		c := RMSPropConfig{}
		err := json.Unmarshal(raw.Config, &c)
		config = c
		if err != nil {
			return fmt.Errorf("unmarshaljson: %v", err)
		}
	default:
		return fmt.Errorf("unmarshaljson: unknown solver type %q", raw.Type)
	}

	s.Type = raw.Type
	s.Config = config
	s.Solver = config.Create()
	return nil
}

// Reset recreates the wrapped Gorgonia Solver, discarding any
// accumulated state such as Adam's moment estimates
func (s *Solver) Reset() {
	s.Solver = s.Config.Create()
}

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	StepSize float64
	Epsilon  float64 // Smoothing factor
	Beta1    float64
	Beta2    float64
	Batch    int
}

// NewDefaultAdam returns a new Adam Solver with default hyperparameters
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64,
	batchSize int) (*Solver, error) {
	return newSolver(Adam, AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
	})
}

// Create returns a new Gorgonia Adam Solver
func (a AdamConfig) Create() G.Solver {
	return G.NewAdamSolver(
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	)
}

// ValidType implements the Config interface
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}

// VanillaConfig describes a configuration of the vanilla gradient
// descent solver.
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewVanilla returns a new Vanilla Solver
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(Vanilla, VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns a Gorgonia Vanilla Solver
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	if v.Clip > 0 {
		opts = append(opts, G.WithClip(v.Clip))
	}
	return G.NewVanillaSolver(opts...)
}

// ValidType implements the Config interface
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}

// RMSPropConfig describes a configuration of the RMSProp solver
type RMSPropConfig struct {
	StepSize float64
	Epsilon  float64
	Rho      float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewRMSProp returns a new RMSProp Solver
func NewRMSProp(stepSize, epsilon, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(RMSProp, RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Rho:      rho,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Create returns a new Gorgonia RMSProp Solver
func (r RMSPropConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(r.StepSize),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
		G.WithBatchSize(float64(r.Batch)),
	}
	if r.Clip > 0 {
		opts = append(opts, G.WithClip(r.Clip))
	}
	return G.NewRMSPropSolver(opts...)
}

// ValidType implements the Config interface
func (r RMSPropConfig) ValidType(t Type) bool {
	return t == RMSProp
}
