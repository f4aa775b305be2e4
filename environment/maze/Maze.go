// Package maze implements a grid maze environment in which an agent
// must travel from the top-left corner to the goal in the bottom-right
// corner without stepping onto a blocked cell.
package maze

import (
	"fmt"

	env "github.com/samuelfneumann/mazerl/environment"
	ts "github.com/samuelfneumann/mazerl/timestep"
)

// Action indexes one of the four moves available in every cell. The
// order of the actions is fixed since learners map action indices to
// outputs.
type Action int

const (
	Down Action = iota
	Up
	Right
	Left
)

// NumActions is the number of actions available in a Maze
const NumActions int = 4

// String implements the fmt.Stringer interface
func (a Action) String() string {
	switch a {
	case Down:
		return "down"
	case Up:
		return "up"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Maze is an environment over an immutable Grid. The only mutable state
// is the position of the agent, which starts every episode at (0, 0).
type Maze struct {
	Solve
	grid  *Grid
	agent Position

	discount    float64
	currentStep ts.TimeStep
}

var _ env.Environment = &Maze{}

// New returns a new Maze on grid g. The discount is only used to
// populate the TimeSteps returned by the Maze.
func New(g *Grid, discount float64) (*Maze, error) {
	if g == nil {
		return nil, fmt.Errorf("new: grid cannot be nil")
	}
	if discount < 0 || discount > 1 {
		return nil, fmt.Errorf("new: discount must be in [0, 1], have(%v)",
			discount)
	}

	m := &Maze{
		Solve:    NewSolve(g),
		grid:     g,
		discount: discount,
	}
	m.Reset()

	return m, nil
}

// Reset moves the agent back to (0, 0)
func (m *Maze) Reset() ts.TimeStep {
	m.agent = Position{0, 0}
	m.currentStep = ts.New(ts.First, 0, m.discount, ts.Frame{}, 0)
	return m.currentStep
}

// CandidateMoves returns the position that each action would move the
// agent to, indexed by Action. Positions may lie outside the grid.
func (m *Maze) CandidateMoves() [4]Position {
	a := m.agent
	return [4]Position{
		Down:  {a.Row + 1, a.Col},
		Up:    {a.Row - 1, a.Col},
		Right: {a.Row, a.Col + 1},
		Left:  {a.Row, a.Col - 1},
	}
}

// Step takes the action with index action. Moves off the grid leave the
// agent in place with a WallReward and do not end the episode. Moving
// onto the goal or a blocked cell ends the episode.
//
// Step panics if action is not in [0, NumActions).
func (m *Maze) Step(action int) (float64, bool) {
	if action < 0 || action >= NumActions {
		panic(fmt.Sprintf("step: invalid action index %v, want "+
			"index in [0, %v)", action, NumActions))
	}

	next := m.CandidateMoves()[action]
	reward, done := m.GetReward(next)
	if m.grid.InBounds(next) {
		m.agent = next
	}

	stepType := ts.Mid
	if done {
		stepType = ts.Last
	}
	m.currentStep = ts.New(stepType, reward, m.discount, ts.Frame{},
		m.currentStep.Number+1)

	return reward, done
}

// HasWon returns whether the agent is at the goal
func (m *Maze) HasWon() bool {
	return m.AtGoal(m.agent)
}

// HasDied returns whether the agent is on a blocked cell
func (m *Maze) HasDied() bool {
	return m.AtHazard(m.agent)
}

// HasEnded returns whether the current episode is over
func (m *Maze) HasEnded() bool {
	return m.HasWon() || m.HasDied()
}

// Position returns the current position of the agent
func (m *Maze) Position() Position {
	return m.agent
}

// SetPosition places the agent at p. It is used to replay or set up
// specific situations and panics if p lies outside the grid.
func (m *Maze) SetPosition(p Position) {
	if !m.grid.InBounds(p) {
		panic(fmt.Sprintf("setposition: position %v outside grid", p))
	}
	m.agent = p
}

// Grid returns the Grid of the Maze
func (m *Maze) Grid() *Grid {
	return m.grid
}

// Dims returns the number of rows and columns of the Maze
func (m *Maze) Dims() (int, int) {
	return m.grid.Dims()
}

// NumActions returns the number of actions in the Maze
func (m *Maze) NumActions() int {
	return NumActions
}

// LastTimeStep returns the most recent TimeStep of the Maze. The
// Observation of the TimeStep is not populated; use Render for that.
func (m *Maze) LastTimeStep() ts.TimeStep {
	return m.currentStep
}

// Discount returns the discount of the Maze
func (m *Maze) Discount() float64 {
	return m.discount
}

// String implements the fmt.Stringer interface. The agent is printed as
// 'A' over the Grid layout.
func (m *Maze) String() string {
	_, cols := m.Dims()
	out := []byte(m.grid.String())
	out[m.agent.Row*(cols+1)+m.agent.Col] = 'A'
	return string(out)
}
