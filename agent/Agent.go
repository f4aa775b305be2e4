// Package agent defines the interfaces through which experiments
// interact with learned action-value functions.
package agent

// Model is an action-value function approximator over flattened image
// observations. It plays the role of an oracle for the training loop:
// the loop never inspects how the Model computes its values, only that
// it predicts one value per action and can be fit to targets.
type Model interface {
	// SelectAction returns the greedy action in the observation
	SelectAction(obs []float64) (int, error)

	// ActionValues returns the predicted value of each action in the
	// observation
	ActionValues(obs []float64) ([]float64, error)

	// Fit performs a single epoch of updates, regressing the
	// predictions on states towards targets. Each target vector holds
	// one value per action.
	Fit(states, targets [][]float64) error
}

// TabularLearner is an action-value function over an enumerated set of
// states. It is an alternative to a Model and is not used by the deep
// training loop.
type TabularLearner interface {
	// Update updates the value of taking action in state towards the
	// Q-learning target for reward and next
	Update(state, action int, reward float64, next int)

	// Greedy returns an action of maximum value in state
	Greedy(state int) int

	// Values returns the action values in state
	Values(state int) []float64

	NumStates() int
	NumActions() int
}

// TerminalUpdater is a TabularLearner which can also update towards
// the target of a transition that ended the episode, whose target is
// the reward alone
type TerminalUpdater interface {
	TabularLearner
	UpdateTerminal(state, action int, reward float64)
}
