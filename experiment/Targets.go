package experiment

import (
	"fmt"

	"github.com/samuelfneumann/mazerl/agent"
	ts "github.com/samuelfneumann/mazerl/timestep"
	"gonum.org/v1/gonum/floats"
)

// TDTarget returns the one-step Q-learning target of a transition. The
// target of a transition that ended the episode is the reward alone,
// otherwise the discounted maximum next action value is added.
func TDTarget(reward float64, nextValues []float64, discount float64,
	done bool) float64 {
	if done {
		return reward
	}
	return reward + discount*floats.Max(nextValues)
}

// TargetVectors computes the regression inputs and targets for a batch
// of transitions. Each target vector is the model's current prediction
// for the transition's state with the entry of the taken action
// replaced by the TD target, so that only the taken action is changed
// by fitting.
func TargetVectors(model agent.Model, batch []ts.Transition,
	discount float64) (states, targets [][]float64, err error) {
	states = make([][]float64, len(batch))
	targets = make([][]float64, len(batch))

	for i, t := range batch {
		state := t.State.Features()
		next := t.NextState.Features()

		var target float64
		if t.Done {
			target = t.Reward
		} else {
			nextValues, err := model.ActionValues(next)
			if err != nil {
				return nil, nil, fmt.Errorf("targetVectors: could not "+
					"predict next values: %w", err)
			}
			target = TDTarget(t.Reward, nextValues, discount, false)
		}

		values, err := model.ActionValues(state)
		if err != nil {
			return nil, nil, fmt.Errorf("targetVectors: could not "+
				"predict values: %w", err)
		}
		if t.Action < 0 || t.Action >= len(values) {
			return nil, nil, fmt.Errorf("targetVectors: action %v out of "+
				"range for %v predicted values", t.Action, len(values))
		}

		vector := make([]float64, len(values))
		copy(vector, values)
		vector[t.Action] = target

		states[i] = state
		targets[i] = vector
	}

	return states, targets, nil
}
