package experiment

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/agent"
	env "github.com/samuelfneumann/mazerl/environment"
	"github.com/samuelfneumann/mazerl/environment/maze"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	ts "github.com/samuelfneumann/mazerl/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TabularRunner trains a tabular learner on a Maze with epsilon-greedy
// Q-learning. The state of the learner is the row-major index of the
// agent's position. It is independent of the Trainer.
type TabularRunner struct {
	maze     *maze.Maze
	learner  agent.TerminalUpdater
	epsilon  float64
	maxSteps int

	explore distuv.Uniform
	actions *rand.Rand

	trackers []trackers.Tracker
	logger   zerolog.Logger
}

// NewTabularRunner returns a new TabularRunner. If maxSteps > 0,
// episodes are cut off after maxSteps steps.
func NewTabularRunner(m *maze.Maze, learner agent.TerminalUpdater,
	epsilon float64, maxSteps int, seed uint64,
	logger zerolog.Logger) (*TabularRunner, error) {
	if m == nil || learner == nil {
		return nil, fmt.Errorf("newTabularRunner: maze and learner must be " +
			"non-nil")
	}
	if learner.NumStates() != m.Grid().Len() {
		return nil, fmt.Errorf("newTabularRunner: learner has %v states "+
			"but maze has %v cells", learner.NumStates(), m.Grid().Len())
	}
	if learner.NumActions() != m.NumActions() {
		return nil, fmt.Errorf("newTabularRunner: learner has %v actions "+
			"but maze has %v", learner.NumActions(), m.NumActions())
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newTabularRunner: epsilon must be in "+
			"[0, 1], have(%v)", epsilon)
	}
	if maxSteps < 0 {
		return nil, fmt.Errorf("newTabularRunner: max steps cannot be "+
			"negative, have(%v)", maxSteps)
	}

	src := rand.NewSource(seed)
	return &TabularRunner{
		maze:     m,
		learner:  learner,
		epsilon:  epsilon,
		maxSteps: maxSteps,
		explore:  distuv.Uniform{Min: 0, Max: 1, Src: src},
		actions:  rand.New(src),
		logger:   logger.With().Str("component", "tabular_runner").Logger(),
	}, nil
}

// Register registers a Tracker with the TabularRunner
func (t *TabularRunner) Register(tracker trackers.Tracker) {
	t.trackers = append(t.trackers, tracker)
}

// Save saves the data of all registered Trackers
func (t *TabularRunner) Save() error {
	for _, tracker := range t.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// state returns the state index of the agent's position
func (t *TabularRunner) state() int {
	return t.maze.Grid().Index(t.maze.Position())
}

// RunEpisode runs and learns from a single episode
func (t *TabularRunner) RunEpisode() EpisodeResult {
	step := t.maze.Reset()
	t.track(step)

	var limit env.Ender
	if t.maxSteps > 0 {
		limit = env.NewStepLimit(t.maxSteps)
	}

	var result EpisodeResult
	for !t.maze.HasEnded() {
		state := t.state()

		action := t.learner.Greedy(state)
		if t.explore.Rand() < t.epsilon {
			action = t.actions.Intn(t.maze.NumActions())
		}

		reward, done := t.maze.Step(action)
		if done {
			t.learner.UpdateTerminal(state, action, reward)
		} else {
			t.learner.Update(state, action, reward, t.state())
		}
		result.Return += reward
		result.Steps++

		step = t.maze.LastTimeStep()
		if limit != nil && !done && limit.End(&step) {
			t.track(step)
			break
		}
		t.track(step)
	}
	result.Won = t.maze.HasWon()

	t.logger.Debug().
		Float64("return", result.Return).
		Int("steps", result.Steps).
		Bool("won", result.Won).
		Msgf("finished episode with final score of %.1f in %v iterations",
			result.Return, result.Steps)

	return result
}

// Run runs the given number of episodes and returns the return of each
func (t *TabularRunner) Run(episodes int) []float64 {
	returns := make([]float64, 0, episodes)
	for i := 0; i < episodes; i++ {
		returns = append(returns, t.RunEpisode().Return)
	}
	return returns
}

// GreedyPath follows the greedy policy from the start for at most
// maxSteps steps and returns the visited positions, start included
func (t *TabularRunner) GreedyPath(maxSteps int) []maze.Position {
	t.maze.Reset()
	path := []maze.Position{t.maze.Position()}

	for i := 0; i < maxSteps && !t.maze.HasEnded(); i++ {
		t.maze.Step(t.learner.Greedy(t.state()))
		path = append(path, t.maze.Position())
	}
	return path
}

func (t *TabularRunner) track(step ts.TimeStep) {
	for _, tracker := range t.trackers {
		tracker.Track(step)
	}
}
