package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/mazerl/timestep"
)

// Return tracks and saves the episodic return in an experiment. When
// an environment returns a TimeStep, this Tracker will extract the
// reward and accumulate the return for each episode in the experiment.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker which saves its
// data to filename
func NewReturn(filename string) *Return {
	return &Return{lastTimeStep: -1, filename: filename}
}

// Track tracks the rewards seen on a timestep. When a new episode
// starts, Track starts accumulating the rewards for the new episode
// separately from the rewards seen on previous episodes.
//
// Track panics if it is called for non-sequential timesteps
func (r *Return) Track(step ts.TimeStep) {
	if r.lastTimeStep+1 != step.Number {
		msg := fmt.Sprintf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			r.lastTimeStep, step.Number)
		panic(msg)
	}

	r.currentReturn += step.Reward
	if !step.Last() {
		r.lastTimeStep = step.Number
		return
	}

	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastTimeStep = -1
}

// Data returns the returns of all finished episodes
func (r *Return) Data() []float64 {
	return append([]float64{}, r.episodeReturns...)
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
