package timestep

import "fmt"

// Transition is a single (state, action, reward, next state, done)
// tuple recorded while interacting with an environment. State and
// NextState are the rendered observations before and after the action
// was taken.
type Transition struct {
	State     Frame
	NextState Frame
	Action    int
	Reward    float64
	Done      bool
}

// NewTransition returns a new Transition
func NewTransition(state Frame, action int, reward float64, next Frame,
	done bool) Transition {
	return Transition{
		State:     state,
		NextState: next,
		Action:    action,
		Reward:    reward,
		Done:      done,
	}
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | Action: %v  |  Reward: %.2f  |  "+
		"Done: %v", t.Action, t.Reward, t.Done)
}
