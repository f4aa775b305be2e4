package qlearning

import "fmt"

// Config represents a configuration for tabular Q-learning
type Config struct {
	LearningRate float64
	Discount     float64
	Epsilon      float64 // epsilon for the behaviour policy

	// MaxSteps cuts episodes off after MaxSteps steps, 0 if unlimited
	MaxSteps int
}

// DefaultConfig returns the default tabular Q-learning configuration
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.1,
		Discount:     0.95,
		Epsilon:      0.1,
		MaxSteps:     1000,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon must be in [0, 1], have(%v)",
			c.Epsilon)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("validate: max steps cannot be negative, "+
			"have(%v)", c.MaxSteps)
	}
	return nil
}

// Create returns a new QTable described by the Config
func (c Config) Create(states, actions int, seed uint64) (*QTable, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return New(states, actions, c.LearningRate, c.Discount, seed)
}
