package deepq

import (
	"fmt"

	"github.com/samuelfneumann/mazerl/initwfn"
	"github.com/samuelfneumann/mazerl/network"
	"github.com/samuelfneumann/mazerl/solver"
)

// Config implements a configuration for a DeepQ model
type Config struct {
	PolicyLayers []int                 // Layer sizes in neural net
	Biases       []bool                // Whether each layer should have a bias
	Activations  []*network.Activation // Activation of each layer
	Solver       *solver.Solver        // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn
}

// DefaultConfig returns the default configuration: two hidden layers of
// 64 ReLU units, Glorot uniform initialization, and Adam.
func DefaultConfig() Config {
	adam, err := solver.NewDefaultAdam(1e-3, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}

	return Config{
		PolicyLayers: []int{64, 64},
		Biases:       []bool{true, true},
		Activations:  []*network.Activation{network.ReLU(), network.ReLU()},
		Solver:       adam,
		InitWFn:      initwfn.NewGlorotU(1.0),
	}
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ model.
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases\n\twant(%v)"+
			"\n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}

	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}

	for i, size := range c.PolicyLayers {
		if size < 1 {
			return fmt.Errorf("validate: layer %v must have a positive "+
				"number of units, have(%v)", i, size)
		}
	}

	if c.Solver == nil {
		return fmt.Errorf("validate: no solver specified")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer specified")
	}

	return nil
}

// Create creates a new DeepQ model from the configuration
func (c Config) Create(features, actions int, seed uint64) (*DeepQ, error) {
	return New(features, actions, c, seed)
}
