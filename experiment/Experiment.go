// Package experiment implements the training loops which teach agents
// to navigate a maze
package experiment

import (
	"fmt"
	"time"

	"github.com/samuelfneumann/mazerl/environment/maze"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	"github.com/samuelfneumann/mazerl/expreplay"
)

// Experiment outlines structs that run experiments. Experiments
// send the TimeSteps of each episode to registered Trackers, which
// cache the data in RAM until Save is called. Run runs iterations until
// the configured number of iterations is reached or a collaborator
// fails.
type Experiment interface {
	Run() error

	// Register adds a new Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t trackers.Tracker)

	// Save saves all tracked data to disk
	Save() error
}

// Config represents a configuration of a deep Q-learning experiment
type Config struct {
	EpisodesPerIteration int
	WarmUp               int // Buffer size needed before training
	BatchSize            int
	Discount             float64
	BufferCapacity       int
	ImageSize            int // Side length of rendered observations
	MazeSize             int
	Seed                 uint64

	// Epsilon is the exploration probability of the behaviour policy.
	// After each iteration it is multiplied by EpsilonDecay,
	// but never falls below MinEpsilon.
	Epsilon      float64
	EpsilonDecay float64
	MinEpsilon   float64

	// If AnnealIterations > 0, epsilon is instead annealed linearly
	// from 1 - Epsilon greediness at iteration AnnealStart to full
	// greediness at iteration AnnealIterations. Before AnnealStart,
	// every action is random.
	AnnealStart      int
	AnnealIterations int

	EvalSteps int           // Step limit of evaluation rollouts
	EvalDelay time.Duration // Pause before showing each evaluation step

	Iterations      int // 0 runs forever
	CheckpointEvery int // 0 disables checkpointing
}

// DefaultConfig returns the default experiment configuration
func DefaultConfig() Config {
	return Config{
		EpisodesPerIteration: 10,
		WarmUp:               500,
		BatchSize:            256,
		Discount:             0.95,
		BufferCapacity:       expreplay.DefaultCapacity,
		ImageSize:            64,
		MazeSize:             6,
		Seed:                 maze.TestMazeSeed,
		Epsilon:              0.5,
		EpsilonDecay:         1.0,
		MinEpsilon:           0.0,
		EvalSteps:            20,
		EvalDelay:            100 * time.Millisecond,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	switch {
	case c.EpisodesPerIteration < 1:
		return fmt.Errorf("validate: episodes per iteration must be "+
			"positive, have(%v)", c.EpisodesPerIteration)
	case c.WarmUp < 0:
		return fmt.Errorf("validate: warm up cannot be negative, have(%v)",
			c.WarmUp)
	case c.BatchSize < 1:
		return fmt.Errorf("validate: batch size must be positive, have(%v)",
			c.BatchSize)
	case c.Discount < 0 || c.Discount > 1:
		return fmt.Errorf("validate: discount must be in [0, 1], have(%v)",
			c.Discount)
	case c.BufferCapacity < 1:
		return fmt.Errorf("validate: buffer capacity must be positive, "+
			"have(%v)", c.BufferCapacity)
	case c.ImageSize < 1:
		return fmt.Errorf("validate: image size must be positive, have(%v)",
			c.ImageSize)
	case c.MazeSize < 2:
		return fmt.Errorf("validate: maze size must be at least 2, "+
			"have(%v)", c.MazeSize)
	case c.Epsilon < 0 || c.Epsilon > 1:
		return fmt.Errorf("validate: epsilon must be in [0, 1], have(%v)",
			c.Epsilon)
	case c.EpsilonDecay <= 0 || c.EpsilonDecay > 1:
		return fmt.Errorf("validate: epsilon decay must be in (0, 1], "+
			"have(%v)", c.EpsilonDecay)
	case c.MinEpsilon < 0 || c.MinEpsilon > c.Epsilon:
		return fmt.Errorf("validate: min epsilon must be in [0, epsilon], "+
			"have(%v)", c.MinEpsilon)
	case c.AnnealIterations < 0 ||
		(c.AnnealIterations > 0 && c.AnnealIterations <= c.AnnealStart):
		return fmt.Errorf("validate: anneal iterations must be 0 or "+
			"greater than anneal start (%v), have(%v)", c.AnnealStart,
			c.AnnealIterations)
	case c.EvalSteps < 0:
		return fmt.Errorf("validate: eval steps cannot be negative, "+
			"have(%v)", c.EvalSteps)
	case c.EvalDelay < 0:
		return fmt.Errorf("validate: eval delay cannot be negative, "+
			"have(%v)", c.EvalDelay)
	case c.Iterations < 0:
		return fmt.Errorf("validate: iterations cannot be negative, "+
			"have(%v)", c.Iterations)
	case c.CheckpointEvery < 0:
		return fmt.Errorf("validate: checkpoint interval cannot be "+
			"negative, have(%v)", c.CheckpointEvery)
	}
	return nil
}
