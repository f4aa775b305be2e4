package trackers

import (
	ts "github.com/samuelfneumann/mazerl/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment. If the last episode in an experiment does not finish,
// that episode's length will not be saved.
type EpisodeLength struct {
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which saves its
// data to filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the episode length if the timestep passed to it is the
// last timestep in the episode
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(t.Number))
	}
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []float64 {
	return append([]float64{}, e.episodeLengths...)
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
