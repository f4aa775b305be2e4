// Package qlearning implements tabular Q-learning.
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/mazerl/agent"
	"github.com/samuelfneumann/mazerl/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// QTable is a dense table of action values, one row per state, updated
// by the Q-learning rule
//
//	Q(s, a) ← (1 - α) Q(s, a) + α (r + γ max_a' Q(s', a'))
//
// All values start at zero.
type QTable struct {
	values *mat.Dense
	alpha  float64
	gamma  float64

	rng *rand.Rand
}

var _ agent.TerminalUpdater = &QTable{}

// New returns a new zero-initialized QTable with learning rate alpha
// and discount gamma
func New(states, actions int, alpha, gamma float64,
	seed uint64) (*QTable, error) {
	if states < 1 || actions < 1 {
		return nil, fmt.Errorf("new: states and actions must be positive"+
			"\n\thave(%v, %v)", states, actions)
	}
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("new: learning rate must be in (0, 1], "+
			"have(%v)", alpha)
	}
	if gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("new: discount must be in [0, 1], have(%v)",
			gamma)
	}

	return &QTable{
		values: mat.NewDense(states, actions, nil),
		alpha:  alpha,
		gamma:  gamma,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Update updates the value of taking action in state. Update panics if
// any index is out of range.
func (q *QTable) Update(state, action int, reward float64, next int) {
	q.update(state, action, reward+q.gamma*mat.Max(q.values.RowView(next)))
}

// UpdateTerminal updates the value of taking action in state when the
// transition ended the episode
func (q *QTable) UpdateTerminal(state, action int, reward float64) {
	q.update(state, action, reward)
}

func (q *QTable) update(state, action int, target float64) {
	old := q.values.At(state, action)
	q.values.Set(state, action, (1-q.alpha)*old+q.alpha*target)
}

// At returns the value of taking action in state
func (q *QTable) At(state, action int) float64 {
	return q.values.At(state, action)
}

// Values returns a copy of the action values in state
func (q *QTable) Values(state int) []float64 {
	return mat.Row(nil, state, q.values)
}

// Greedy returns an action of maximum value in state. Ties are broken
// uniformly at random.
func (q *QTable) Greedy(state int) int {
	_, maxIndices := floatutils.MaxSlice(q.Values(state))
	return maxIndices[q.rng.Intn(len(maxIndices))]
}

// NumStates returns the number of states in the table
func (q *QTable) NumStates() int {
	states, _ := q.values.Dims()
	return states
}

// NumActions returns the number of actions in the table
func (q *QTable) NumActions() int {
	_, actions := q.values.Dims()
	return actions
}

// LearningRate returns the learning rate α
func (q *QTable) LearningRate() float64 {
	return q.alpha
}

// Discount returns the discount γ
func (q *QTable) Discount() float64 {
	return q.gamma
}

// String implements the fmt.Stringer interface
func (q *QTable) String() string {
	return fmt.Sprintf("QTable(α=%v, γ=%v)\n%v", q.alpha, q.gamma,
		mat.Formatted(q.values, mat.Squeeze()))
}
