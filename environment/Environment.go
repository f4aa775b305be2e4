// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/mazerl/timestep"
)

// Environment implements a simulated episodic environment with a
// discrete set of actions enumerated from 0. Agents only observe an
// Environment through its rendered Frames.
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first timestep of the new episode
	Reset() timestep.TimeStep

	// Step takes the action with the given index and returns the
	// reward and whether the episode has ended. Step panics if the
	// action index is outside [0, NumActions()).
	Step(action int) (float64, bool)

	// HasEnded returns whether the current episode has ended
	HasEnded() bool

	// Render returns a size x size observation of the current state
	Render(size int) timestep.Frame

	// LastTimeStep returns the most recent timestep of the environment
	LastTimeStep() timestep.TimeStep

	// NumActions returns the number of discrete actions
	NumActions() int
}

// Ender determines when episodes should be cut off
type Ender interface {
	End(*timestep.TimeStep) bool
}
