package maze

const (
	// StepReward is given for a valid move onto a free cell
	StepReward float64 = -0.1

	// WallReward is given for trying to move outside the grid. The
	// agent does not move and the episode continues.
	WallReward float64 = -0.5

	// GoalReward is given for reaching the goal cell
	GoalReward float64 = 100

	// DeathReward is given for moving onto a blocked cell
	DeathReward float64 = -10
)

// Solve is the task of reaching the goal of a Grid without stepping onto
// a Blocked cell. Reaching either the goal or a Blocked cell ends the
// episode.
type Solve struct {
	grid *Grid
}

// NewSolve returns a new Solve task on grid g
func NewSolve(g *Grid) Solve {
	return Solve{grid: g}
}

// GetReward returns the reward for attempting to move to position next
// and whether that move ends the episode
func (s Solve) GetReward(next Position) (float64, bool) {
	if !s.grid.InBounds(next) {
		return WallReward, false
	}

	switch s.grid.At(next) {
	case Goal:
		return GoalReward, true
	case Blocked:
		return DeathReward, true
	default:
		return StepReward, false
	}
}

// AtGoal returns whether position p is the goal cell
func (s Solve) AtGoal(p Position) bool {
	return s.grid.InBounds(p) && s.grid.At(p) == Goal
}

// AtHazard returns whether position p is a Blocked cell
func (s Solve) AtHazard(p Position) bool {
	return s.grid.InBounds(p) && s.grid.At(p) == Blocked
}
