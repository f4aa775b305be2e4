package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/agent"
	"github.com/samuelfneumann/mazerl/environment/maze"
	"github.com/samuelfneumann/mazerl/experiment/checkpointer"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	"github.com/samuelfneumann/mazerl/expreplay"
	ts "github.com/samuelfneumann/mazerl/timestep"
	"github.com/samuelfneumann/mazerl/utils/intutils"
	"github.com/samuelfneumann/mazerl/visualize"
	"gonum.org/v1/gonum/stat"
)

// Iteration summarizes a single iteration of the Trainer
type Iteration struct {
	Number   int
	Epsilon  float64 // Exploration probability used for the episodes
	Episodes []EpisodeResult

	// Trained is false if the buffer held fewer transitions than the
	// warm up, in which case no other field below is set
	Trained    bool
	BatchSize  int
	MeanTarget float64
	Eval       EpisodeResult
}

// Trainer implements deep Q-learning on a maze. Each iteration, the
// Trainer runs a number of epsilon-greedy episodes into an experience
// replay buffer, fits the Model to TD targets computed on a batch
// sampled from the buffer, and then shows a greedy evaluation rollout.
type Trainer struct {
	config Config
	maze   *maze.Maze
	model  agent.Model
	buffer expreplay.ExperienceReplayer
	runner *EpisodeRunner

	visualizer    visualize.Visualizer
	checkpointers []checkpointer.Checkpointer
	trackers      []trackers.Tracker

	epsilon   float64
	iteration int
	sleep     func(time.Duration)
	logger    zerolog.Logger
}

var _ Experiment = &Trainer{}

// NewTrainer returns a new Trainer of model on m
func NewTrainer(m *maze.Maze, model agent.Model, config Config,
	logger zerolog.Logger) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newTrainer: %v", err)
	}
	if m == nil || model == nil {
		return nil, fmt.Errorf("newTrainer: maze and model must be non-nil")
	}

	buffer, err := expreplay.New(config.BufferCapacity, int64(config.Seed))
	if err != nil {
		return nil, fmt.Errorf("newTrainer: could not create buffer: %v",
			err)
	}

	runner, err := NewEpisodeRunner(m, model, buffer, config.ImageSize,
		config.Seed, logger)
	if err != nil {
		return nil, fmt.Errorf("newTrainer: %v", err)
	}

	epsilon := config.Epsilon
	if config.AnnealIterations > 0 && config.AnnealStart > 0 {
		epsilon = 1
	}

	return &Trainer{
		config:     config,
		maze:       m,
		model:      model,
		buffer:     buffer,
		runner:     runner,
		visualizer: visualize.Nop{},
		epsilon:    epsilon,
		sleep:      time.Sleep,
		logger:     logger.With().Str("component", "trainer").Logger(),
	}, nil
}

// SetVisualizer sets the Visualizer which shows evaluation rollouts
func (t *Trainer) SetVisualizer(v visualize.Visualizer) {
	if v == nil {
		v = visualize.Nop{}
	}
	t.visualizer = v
}

// AddCheckpointer adds a Checkpointer which is called after every
// iteration
func (t *Trainer) AddCheckpointer(c checkpointer.Checkpointer) {
	t.checkpointers = append(t.checkpointers, c)
}

// Register registers a Tracker which tracks the timesteps of training
// episodes. Evaluation rollouts are not tracked.
func (t *Trainer) Register(tracker trackers.Tracker) {
	t.trackers = append(t.trackers, tracker)
	t.runner.Register(tracker)
}

// Save saves the data of all registered Trackers
func (t *Trainer) Save() error {
	for _, tracker := range t.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// Buffer returns the Trainer's experience replay buffer
func (t *Trainer) Buffer() expreplay.ExperienceReplayer {
	return t.buffer
}

// Epsilon returns the exploration probability of the next iteration
func (t *Trainer) Epsilon() float64 {
	return t.epsilon
}

// Run runs the configured number of iterations, or forever if the
// configuration specifies 0 iterations.
func (t *Trainer) Run() error {
	return t.RunContext(context.Background())
}

// RunContext is like Run, but also stops once ctx is done. The context
// is checked between iterations, so an iteration in progress always
// finishes. Stopping through ctx is not an error.
func (t *Trainer) RunContext(ctx context.Context) error {
	for t.config.Iterations == 0 || t.iteration < t.config.Iterations {
		select {
		case <-ctx.Done():
			t.logger.Info().
				Int("iteration", t.iteration).
				Msg("stopping training early")
			return nil
		default:
		}

		number := t.iteration
		if _, err := t.Step(); err != nil {
			return fmt.Errorf("run: iteration %v: %w", number, err)
		}
	}
	return nil
}

// Step runs a single iteration. If the buffer holds fewer transitions
// than the warm up after the iteration's episodes, the rest of the
// iteration is skipped.
func (t *Trainer) Step() (Iteration, error) {
	result := Iteration{Number: t.iteration, Epsilon: t.epsilon}
	defer func() { t.iteration++ }()

	for i := 0; i < t.config.EpisodesPerIteration; i++ {
		episode, err := t.runner.RunEpisode(t.epsilon)
		if err != nil {
			return result, err
		}
		result.Episodes = append(result.Episodes, episode)
	}

	if t.buffer.Len() < t.config.WarmUp {
		t.logger.Debug().
			Int("iteration", t.iteration).
			Int("buffer", t.buffer.Len()).
			Int("warmUp", t.config.WarmUp).
			Msg("skipping training until buffer is warm")
		t.updateEpsilon()
		return result, t.checkpoint()
	}

	batch, err := t.buffer.Sample(intutils.Min(t.config.BatchSize,
		t.buffer.Len()))
	if err != nil {
		return result, fmt.Errorf("step: could not sample: %w", err)
	}

	states, targets, err := TargetVectors(t.model, batch, t.config.Discount)
	if err != nil {
		return result, fmt.Errorf("step: %w", err)
	}
	if err := t.model.Fit(states, targets); err != nil {
		return result, fmt.Errorf("step: could not fit model: %w", err)
	}

	result.Trained = true
	result.BatchSize = len(batch)
	result.MeanTarget = meanTarget(batch, targets)

	result.Eval, err = t.runner.Evaluate(t.config.EvalSteps, t.show)
	if err != nil {
		return result, err
	}

	t.logger.Info().
		Int("iteration", t.iteration).
		Float64("epsilon", t.epsilon).
		Int("batch", result.BatchSize).
		Float64("meanTarget", result.MeanTarget).
		Float64("evalReturn", result.Eval.Return).
		Int("evalSteps", result.Eval.Steps).
		Bool("evalWon", result.Eval.Won).
		Msg("trained")

	t.updateEpsilon()
	return result, t.checkpoint()
}

// show paces and displays the current state of an evaluation rollout
func (t *Trainer) show() error {
	if t.config.EvalDelay > 0 {
		t.sleep(t.config.EvalDelay)
	}
	return t.visualizer.Show(t.maze.Grid(), t.maze.Position())
}

// updateEpsilon sets the exploration probability of the next iteration
func (t *Trainer) updateEpsilon() {
	if t.config.AnnealIterations > 0 {
		next := t.iteration + 1
		if next < t.config.AnnealStart {
			t.epsilon = 1
			return
		}
		greedy := AnnealProbability(next, t.config.AnnealIterations,
			t.config.AnnealStart, 1-t.config.Epsilon)
		t.epsilon = 1 - greedy
		return
	}

	t.epsilon *= t.config.EpsilonDecay
	if t.epsilon < t.config.MinEpsilon {
		t.epsilon = t.config.MinEpsilon
	}
}

func (t *Trainer) checkpoint() error {
	for _, c := range t.checkpointers {
		if err := c.Checkpoint(t.iteration); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}

// meanTarget returns the mean TD target of the taken actions
func meanTarget(batch []ts.Transition, targets [][]float64) float64 {
	values := make([]float64, len(batch))
	for i, t := range batch {
		values[i] = targets[i][t.Action]
	}
	return stat.Mean(values, nil)
}
