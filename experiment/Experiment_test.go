package experiment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/mazerl/agent/tabular/qlearning"
	"github.com/samuelfneumann/mazerl/environment/maze"
	"github.com/samuelfneumann/mazerl/experiment/trackers"
	"github.com/samuelfneumann/mazerl/expreplay"
	ts "github.com/samuelfneumann/mazerl/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortestPath is the sequence of actions leading from the start to the
// goal of an open 4 x 4 maze
var shortestPath = []int{
	int(maze.Down), int(maze.Down), int(maze.Down),
	int(maze.Right), int(maze.Right), int(maze.Right),
}

// scriptedModel is an agent.Model which selects actions from a fixed
// script, cycling through it, and predicts constant action values
type scriptedModel struct {
	actions []int
	next    int
	values  []float64

	fits       int
	fitStates  [][]float64
	fitTargets [][]float64
	fitErr     error
}

func newScriptedModel(actions ...int) *scriptedModel {
	return &scriptedModel{actions: actions, values: []float64{1, 2, 3, 4}}
}

func (s *scriptedModel) SelectAction(obs []float64) (int, error) {
	a := s.actions[s.next%len(s.actions)]
	s.next++
	return a, nil
}

func (s *scriptedModel) ActionValues(obs []float64) ([]float64, error) {
	return append([]float64{}, s.values...), nil
}

func (s *scriptedModel) Fit(states, targets [][]float64) error {
	s.fits++
	s.fitStates, s.fitTargets = states, targets
	return s.fitErr
}

func openMaze(t testing.TB, size int) *maze.Maze {
	g, err := maze.NewGrid(size, size, nil)
	require.NoError(t, err)
	m, err := maze.New(g, 0.95)
	require.NoError(t, err)
	return m
}

func testConfig() Config {
	c := DefaultConfig()
	c.EpisodesPerIteration = 2
	c.WarmUp = 10
	c.BatchSize = 5
	c.ImageSize = 4
	c.MazeSize = 4
	c.EvalDelay = 0
	c.Epsilon = 0
	return c
}

func TestTDTarget(t *testing.T) {
	assert.InDelta(t, 1.8, TDTarget(-0.1, []float64{0, 2, 1, -1}, 0.95,
		false), 1e-12)
	assert.Equal(t, 100.0, TDTarget(100, []float64{5, 5, 5, 5}, 0.95, true))
}

func TestTargetVectors(t *testing.T) {
	model := newScriptedModel(0)
	frame := ts.NewFrame(2)
	batch := []ts.Transition{
		ts.NewTransition(frame, 2, -0.1, frame, false),
		ts.NewTransition(frame, 0, 100, frame, true),
	}

	states, targets, err := TargetVectors(model, batch, 0.95)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Len(t, states[0], frame.Len())

	assert.InDeltaSlice(t, []float64{1, 2, -0.1 + 0.95*4, 4}, targets[0],
		1e-12)
	assert.Equal(t, []float64{100, 2, 3, 4}, targets[1])
}

func TestTargetVectorsBadAction(t *testing.T) {
	frame := ts.NewFrame(1)
	batch := []ts.Transition{ts.NewTransition(frame, 7, 0, frame, true)}

	_, _, err := TargetVectors(newScriptedModel(0), batch, 0.95)
	assert.Error(t, err)
}

func TestAnnealProbability(t *testing.T) {
	assert.InDelta(t, 0.5, AnnealProbability(10, 20, 10, 0.5), 1e-12)
	assert.InDelta(t, 0.75, AnnealProbability(15, 20, 10, 0.5), 1e-12)
	assert.InDelta(t, 1.0, AnnealProbability(20, 20, 10, 0.5), 1e-12)
	assert.InDelta(t, 1.0, AnnealProbability(40, 20, 10, 0.5), 1e-12)
	assert.InDelta(t, 0.0, AnnealProbability(0, 2, 1, 0.0), 1e-12)
	assert.Panics(t, func() { AnnealProbability(1, 3, 3, 0.5) })
}

func TestRunEpisodeShortestPath(t *testing.T) {
	m := openMaze(t, 4)
	buffer, err := expreplay.New(100, 1)
	require.NoError(t, err)

	runner, err := NewEpisodeRunner(m, newScriptedModel(shortestPath...),
		buffer, 4, 1, zerolog.Nop())
	require.NoError(t, err)

	ret := trackers.NewReturn("")
	length := trackers.NewEpisodeLength("")
	runner.Register(ret)
	runner.Register(length)

	result, err := runner.RunEpisode(0)
	require.NoError(t, err)

	assert.InDelta(t, 5*maze.StepReward+maze.GoalReward, result.Return,
		1e-9)
	assert.Equal(t, 6, result.Steps)
	assert.True(t, result.Won)

	require.Equal(t, 6, buffer.Len())
	for i := 0; i < 5; i++ {
		assert.False(t, buffer.At(i).Done)
		assert.Equal(t, maze.StepReward, buffer.At(i).Reward)
		assert.True(t, buffer.At(i).NextState.Equal(buffer.At(i+1).State))
	}
	assert.True(t, buffer.At(5).Done)
	assert.Equal(t, maze.GoalReward, buffer.At(5).Reward)

	assert.InDeltaSlice(t, []float64{result.Return}, ret.Data(), 1e-9)
	assert.Equal(t, []float64{6}, length.Data())
}

func TestRunEpisodeRandom(t *testing.T) {
	m := openMaze(t, 3)
	buffer, err := expreplay.New(10000, 1)
	require.NoError(t, err)

	model := newScriptedModel(0)
	runner, err := NewEpisodeRunner(m, model, buffer, 3, 42, zerolog.Nop())
	require.NoError(t, err)

	result, err := runner.RunEpisode(1)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, result.Steps, buffer.Len())
	assert.Zero(t, model.next, "model consulted with epsilon = 1")
}

func TestEvaluateStepLimit(t *testing.T) {
	m := openMaze(t, 4)
	buffer, err := expreplay.New(10, 1)
	require.NoError(t, err)

	runner, err := NewEpisodeRunner(m, newScriptedModel(int(maze.Up)),
		buffer, 4, 1, zerolog.Nop())
	require.NoError(t, err)

	shown := 0
	result, err := runner.Evaluate(5, func() error {
		shown++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Steps)
	assert.InDelta(t, 5*maze.WallReward, result.Return, 1e-9)
	assert.False(t, result.Won)
	assert.Equal(t, 6, shown)
	assert.Zero(t, buffer.Len(), "evaluation recorded transitions")

	_, err = runner.Evaluate(5, func() error { return errors.New("fail") })
	assert.Error(t, err)
}

func TestInvalidModelAction(t *testing.T) {
	buffer, err := expreplay.New(10, 1)
	require.NoError(t, err)

	runner, err := NewEpisodeRunner(openMaze(t, 4), newScriptedModel(4),
		buffer, 4, 1, zerolog.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, err = runner.Evaluate(20, nil)
	})
	assert.Error(t, err)

	assert.NotPanics(t, func() {
		_, err = runner.RunEpisode(0)
	})
	assert.Error(t, err)
	assert.Zero(t, buffer.Len())
}

func TestNewEpisodeRunnerErrors(t *testing.T) {
	buffer, err := expreplay.New(10, 1)
	require.NoError(t, err)

	_, err = NewEpisodeRunner(openMaze(t, 2), nil, buffer, 4, 1,
		zerolog.Nop())
	assert.Error(t, err)

	_, err = NewEpisodeRunner(openMaze(t, 2), newScriptedModel(0), buffer,
		0, 1, zerolog.Nop())
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := map[string]func(*Config){
		"episodes":   func(c *Config) { c.EpisodesPerIteration = 0 },
		"batch":      func(c *Config) { c.BatchSize = 0 },
		"discount":   func(c *Config) { c.Discount = 1.5 },
		"epsilon":    func(c *Config) { c.Epsilon = -0.1 },
		"decay":      func(c *Config) { c.EpsilonDecay = 0 },
		"minEpsilon": func(c *Config) { c.MinEpsilon = 0.9 },
		"anneal":     func(c *Config) { c.AnnealStart, c.AnnealIterations = 5, 5 },
		"maze":       func(c *Config) { c.MazeSize = 1 },
		"image":      func(c *Config) { c.ImageSize = 0 },
		"iterations": func(c *Config) { c.Iterations = -1 },
	}

	for name, modify := range tests {
		c := DefaultConfig()
		modify(&c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestDefaultMazeSolvable(t *testing.T) {
	c := DefaultConfig()
	g, err := maze.MakeTestMaze(c.MazeSize, c.Seed)
	require.NoError(t, err)
	assert.True(t, g.Reachable(maze.Position{}), "\n%v", g)
}

func TestTrainerWarmUp(t *testing.T) {
	config := testConfig()
	config.WarmUp = 100

	model := newScriptedModel(shortestPath...)
	trainer, err := NewTrainer(openMaze(t, 4), model, config, zerolog.Nop())
	require.NoError(t, err)

	result, err := trainer.Step()
	require.NoError(t, err)

	assert.False(t, result.Trained)
	assert.Len(t, result.Episodes, 2)
	assert.Equal(t, 12, trainer.Buffer().Len())
	assert.Zero(t, model.fits)
}

func TestTrainerStep(t *testing.T) {
	config := testConfig()
	model := newScriptedModel(shortestPath...)
	trainer, err := NewTrainer(openMaze(t, 4), model, config, zerolog.Nop())
	require.NoError(t, err)

	var slept []time.Duration
	trainer.sleep = func(d time.Duration) { slept = append(slept, d) }
	trainer.config.EvalDelay = time.Millisecond

	result, err := trainer.Step()
	require.NoError(t, err)

	require.True(t, result.Trained)
	assert.Equal(t, 5, result.BatchSize)
	assert.Equal(t, 1, model.fits)
	require.Len(t, model.fitTargets, 5)
	assert.Len(t, model.fitStates[0], 4*4*ts.Channels)

	stepTarget := maze.StepReward + config.Discount*4
	for _, target := range model.fitTargets {
		changed := 0
		for a, v := range target {
			if v != model.values[a] {
				changed++
				assert.Contains(t, []float64{stepTarget, maze.GoalReward}, v)
			}
		}
		assert.Equal(t, 1, changed)
	}

	assert.True(t, result.Eval.Won)
	assert.Equal(t, 6, result.Eval.Steps)
	assert.Len(t, slept, 7)
}

func TestTrainerBatchClamped(t *testing.T) {
	config := testConfig()
	config.BatchSize = 256

	model := newScriptedModel(shortestPath...)
	trainer, err := NewTrainer(openMaze(t, 4), model, config, zerolog.Nop())
	require.NoError(t, err)

	result, err := trainer.Step()
	require.NoError(t, err)
	assert.Equal(t, 12, result.BatchSize)
}

func TestTrainerRun(t *testing.T) {
	config := testConfig()
	config.Iterations = 3
	config.Epsilon = 0.4
	config.EpsilonDecay = 0.5
	config.MinEpsilon = 0.15

	model := newScriptedModel(shortestPath...)
	trainer, err := NewTrainer(openMaze(t, 4), model, config, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, trainer.Run())
	assert.Equal(t, 3, model.fits)
	assert.InDelta(t, 0.15, trainer.Epsilon(), 1e-12)
}

func TestTrainerAnneal(t *testing.T) {
	config := testConfig()
	config.Epsilon = 0.5
	config.AnnealStart = 1
	config.AnnealIterations = 3

	trainer, err := NewTrainer(openMaze(t, 4),
		newScriptedModel(shortestPath...), config, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1.0, trainer.Epsilon())

	trainer.iteration = 1
	trainer.updateEpsilon()
	assert.InDelta(t, 0.25, trainer.Epsilon(), 1e-12)

	trainer.iteration = 5
	trainer.updateEpsilon()
	assert.InDelta(t, 0.0, trainer.Epsilon(), 1e-12)
}

func TestTrainerFitError(t *testing.T) {
	config := testConfig()
	config.Iterations = 5

	model := newScriptedModel(shortestPath...)
	model.fitErr = errors.New("fit failed")
	trainer, err := NewTrainer(openMaze(t, 4), model, config, zerolog.Nop())
	require.NoError(t, err)

	err = trainer.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.fitErr))
	assert.Equal(t, 1, model.fits)
}

// recorder is a checkpointer.Checkpointer which records iterations
type recorder struct {
	iterations []int
}

func (r *recorder) Checkpoint(iteration int) error {
	r.iterations = append(r.iterations, iteration)
	return nil
}

func TestTrainerCheckpoint(t *testing.T) {
	config := testConfig()
	config.Iterations = 3

	trainer, err := NewTrainer(openMaze(t, 4),
		newScriptedModel(shortestPath...), config, zerolog.Nop())
	require.NoError(t, err)

	r := &recorder{}
	trainer.AddCheckpointer(r)
	require.NoError(t, trainer.Run())
	assert.Equal(t, []int{0, 1, 2}, r.iterations)
}

// canceller is a checkpointer.Checkpointer which cancels a context at
// the given iteration
type canceller struct {
	at     int
	cancel context.CancelFunc
}

func (c *canceller) Checkpoint(iteration int) error {
	if iteration == c.at {
		c.cancel()
	}
	return nil
}

func TestTrainerRunContext(t *testing.T) {
	config := testConfig()
	config.Iterations = 0

	model := newScriptedModel(shortestPath...)
	trainer, err := NewTrainer(openMaze(t, 4), model, config, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trainer.AddCheckpointer(&canceller{at: 2, cancel: cancel})

	require.NoError(t, trainer.RunContext(ctx))
	assert.Equal(t, 3, model.fits)

	require.NoError(t, trainer.RunContext(ctx), "done context")
	assert.Equal(t, 3, model.fits)
}

func TestTabularRunner(t *testing.T) {
	m := openMaze(t, 3)
	q, err := qlearning.New(9, 4, 0.5, 0.95, 1)
	require.NoError(t, err)

	runner, err := NewTabularRunner(m, q, 0.2, 0, 7, zerolog.Nop())
	require.NoError(t, err)

	ret := trackers.NewReturn("")
	runner.Register(ret)

	returns := runner.Run(500)
	require.Len(t, returns, 500)
	assert.Len(t, ret.Data(), 500)

	path := runner.GreedyPath(20)
	assert.Equal(t, m.Grid().Goal(), path[len(path)-1])
	assert.Len(t, path, 5)
}

func TestTabularRunnerStepLimit(t *testing.T) {
	m := openMaze(t, 4)
	q, err := qlearning.New(16, 4, 0.1, 0.95, 1)
	require.NoError(t, err)

	runner, err := NewTabularRunner(m, q, 1, 3, 7, zerolog.Nop())
	require.NoError(t, err)

	length := trackers.NewEpisodeLength("")
	runner.Register(length)
	for i := 0; i < 20; i++ {
		assert.LessOrEqual(t, runner.RunEpisode().Steps, 3)
	}
	assert.Len(t, length.Data(), 20)
}

func TestNewTabularRunnerErrors(t *testing.T) {
	q, err := qlearning.New(4, 4, 0.1, 0.95, 1)
	require.NoError(t, err)

	_, err = NewTabularRunner(openMaze(t, 3), q, 0.1, 0, 1, zerolog.Nop())
	assert.Error(t, err, "state mismatch")

	_, err = NewTabularRunner(openMaze(t, 2), q, 2, 0, 1, zerolog.Nop())
	assert.Error(t, err, "epsilon")
}

func BenchmarkRunEpisode(b *testing.B) {
	m := openMaze(b, 4)
	buffer, err := expreplay.New(expreplay.DefaultCapacity, 1)
	require.NoError(b, err)

	runner, err := NewEpisodeRunner(m, newScriptedModel(shortestPath...),
		buffer, 64, 1, zerolog.Nop())
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := runner.RunEpisode(0); err != nil {
			b.Fatal(err)
		}
	}
}
