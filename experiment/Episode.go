package experiment

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/agent"
	env "github.com/samuelfneumann/mazerl/environment"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	"github.com/samuelfneumann/mazerl/expreplay"
	ts "github.com/samuelfneumann/mazerl/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// EpisodeResult summarizes a finished episode
type EpisodeResult struct {
	Return float64
	Steps  int
	Won    bool
}

// winner is implemented by environments which distinguish reaching the
// goal from other ways of ending an episode
type winner interface {
	HasWon() bool
}

// EpisodeRunner runs epsilon-greedy episodes of a Model on an
// Environment, recording every transition in an experience replay
// buffer. Each step is also sent to the registered Trackers.
type EpisodeRunner struct {
	env.Environment
	model     agent.Model
	buffer    expreplay.ExperienceReplayer
	imageSize int

	explore distuv.Uniform
	actions *rand.Rand

	trackers []trackers.Tracker
	logger   zerolog.Logger
}

// NewEpisodeRunner returns a new EpisodeRunner. Observations are
// rendered at imageSize x imageSize pixels. The seed determines both
// the exploration draws and the random actions taken.
func NewEpisodeRunner(e env.Environment, model agent.Model,
	buffer expreplay.ExperienceReplayer, imageSize int, seed uint64,
	logger zerolog.Logger) (*EpisodeRunner, error) {
	if e == nil || model == nil || buffer == nil {
		return nil, fmt.Errorf("newEpisodeRunner: environment, model, and " +
			"buffer must be non-nil")
	}
	if imageSize < 1 {
		return nil, fmt.Errorf("newEpisodeRunner: image size must be "+
			"positive, have(%v)", imageSize)
	}

	src := rand.NewSource(seed)
	return &EpisodeRunner{
		Environment: e,
		model:       model,
		buffer:      buffer,
		imageSize:   imageSize,
		explore:     distuv.Uniform{Min: 0, Max: 1, Src: src},
		actions:     rand.New(src),
		logger:      logger.With().Str("component", "episode_runner").Logger(),
	}, nil
}

// Register registers a Tracker with the EpisodeRunner so that the data
// generated by episodes can be tracked and saved
func (e *EpisodeRunner) Register(t trackers.Tracker) {
	e.trackers = append(e.trackers, t)
}

// track sends the timestep to each Tracker
func (e *EpisodeRunner) track(t ts.TimeStep) {
	for _, tracker := range e.trackers {
		tracker.Track(t)
	}
}

// RunEpisode runs a single episode to completion, taking a uniform
// random action with probability epsilon and the Model's greedy action
// otherwise. Episodes are not cut off.
func (e *EpisodeRunner) RunEpisode(epsilon float64) (EpisodeResult, error) {
	step := e.Reset()
	e.track(step)

	var result EpisodeResult
	state := e.Render(e.imageSize)
	for !e.HasEnded() {
		action, err := e.behaviour(state, epsilon)
		if err != nil {
			return result, err
		}

		reward, done := e.Step(action)
		next := e.Render(e.imageSize)
		e.buffer.Add(ts.NewTransition(state, action, reward, next, done))

		result.Return += reward
		result.Steps++

		step = e.LastTimeStep()
		step.Observation = next
		e.track(step)

		state = next
	}
	result.Won = e.won()

	e.logger.Debug().
		Float64("return", result.Return).
		Int("steps", result.Steps).
		Bool("won", result.Won).
		Msgf("finished episode with final score of %.1f in %v iterations",
			result.Return, result.Steps)

	return result, nil
}

// Evaluate runs the greedy policy for at most maxSteps steps without
// recording transitions. The show function, if not nil, is called
// after the reset and after every step.
func (e *EpisodeRunner) Evaluate(maxSteps int,
	show func() error) (EpisodeResult, error) {
	limit := env.NewStepLimit(maxSteps)
	e.Reset()

	var result EpisodeResult
	if err := callShow(show); err != nil {
		return result, err
	}

	for !e.HasEnded() && result.Steps < limit.Steps() {
		action, err := e.model.SelectAction(e.Render(e.imageSize).Features())
		if err != nil {
			return result, fmt.Errorf("evaluate: could not select action: "+
				"%w", err)
		}
		if action < 0 || action >= e.NumActions() {
			return result, fmt.Errorf("evaluate: model selected action %v "+
				"outside [0, %v)", action, e.NumActions())
		}

		reward, _ := e.Step(action)
		result.Return += reward
		result.Steps++

		if err := callShow(show); err != nil {
			return result, err
		}

		step := e.LastTimeStep()
		if limit.End(&step) {
			break
		}
	}
	result.Won = e.won()

	return result, nil
}

// behaviour selects an epsilon-greedy action in state
func (e *EpisodeRunner) behaviour(state ts.Frame,
	epsilon float64) (int, error) {
	if e.explore.Rand() < epsilon {
		return e.actions.Intn(e.NumActions()), nil
	}

	action, err := e.model.SelectAction(state.Features())
	if err != nil {
		return 0, fmt.Errorf("runEpisode: could not select action: %w",
			err)
	}
	if action < 0 || action >= e.NumActions() {
		return 0, fmt.Errorf("runEpisode: model selected action %v "+
			"outside [0, %v)", action, e.NumActions())
	}
	return action, nil
}

func (e *EpisodeRunner) won() bool {
	if w, ok := e.Environment.(winner); ok {
		return w.HasWon()
	}
	return false
}

func callShow(show func() error) error {
	if show == nil {
		return nil
	}
	if err := show(); err != nil {
		return fmt.Errorf("evaluate: could not show state: %w", err)
	}
	return nil
}
