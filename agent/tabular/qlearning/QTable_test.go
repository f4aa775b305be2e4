package qlearning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	q, err := New(6, 4, 0.5, 0.9, 1)
	require.NoError(t, err)

	assert.Equal(t, 6, q.NumStates())
	assert.Equal(t, 4, q.NumActions())
	for s := 0; s < 6; s++ {
		assert.Equal(t, []float64{0, 0, 0, 0}, q.Values(s))
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name            string
		states, actions int
		alpha, gamma    float64
	}{
		{"NoStates", 0, 4, 0.1, 0.9},
		{"NoActions", 4, 0, 0.1, 0.9},
		{"ZeroAlpha", 4, 4, 0, 0.9},
		{"LargeAlpha", 4, 4, 1.5, 0.9},
		{"NegativeGamma", 4, 4, 0.1, -0.1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.states, test.actions, test.alpha, test.gamma, 1)
			assert.Error(t, err)
		})
	}
}

func TestUpdate(t *testing.T) {
	q, err := New(3, 2, 0.5, 0.9, 1)
	require.NoError(t, err)

	// Q(1, 0) = 0.5 * 0 + 0.5 * (1 + 0.9 * 0) = 0.5
	q.Update(1, 0, 1, 2)
	assert.InDelta(t, 0.5, q.At(1, 0), 1e-12)

	// Q(0, 1) = 0.5 * 0 + 0.5 * (-0.1 + 0.9 * 0.5) = 0.175
	q.Update(0, 1, -0.1, 1)
	assert.InDelta(t, 0.175, q.At(0, 1), 1e-12)

	// Q(0, 1) = 0.5 * 0.175 + 0.5 * (-0.1 + 0.9 * 0.5) = 0.175 + ...
	q.Update(0, 1, -0.1, 1)
	assert.InDelta(t, 0.5*0.175+0.5*0.35, q.At(0, 1), 1e-12)

	// Other entries are untouched
	assert.Equal(t, 0.0, q.At(0, 0))
	assert.Equal(t, 0.0, q.At(1, 1))
}

func TestUpdateTerminal(t *testing.T) {
	q, err := New(2, 2, 0.25, 0.9, 1)
	require.NoError(t, err)

	q.Update(1, 1, 0, 0)
	q.UpdateTerminal(0, 1, 100)
	assert.InDelta(t, 25, q.At(0, 1), 1e-12)
}

func TestUpdatePanics(t *testing.T) {
	q, err := New(2, 2, 0.5, 0.9, 1)
	require.NoError(t, err)

	assert.Panics(t, func() { q.Update(2, 0, 0, 0) })
	assert.Panics(t, func() { q.Update(0, 2, 0, 0) })
	assert.Panics(t, func() { q.Update(0, 0, 0, -1) })
}

func TestGreedy(t *testing.T) {
	q, err := New(1, 4, 1, 0, 1)
	require.NoError(t, err)

	q.UpdateTerminal(0, 2, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 2, q.Greedy(0))
	}

	// Ties between actions 1 and 2 are broken randomly
	q.UpdateTerminal(0, 1, 5)
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		a := q.Greedy(0)
		require.Contains(t, []int{1, 2}, a)
		seen[a] = true
	}
	assert.Len(t, seen, 2)
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	q, err := c.Create(4, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, c.LearningRate, q.LearningRate())
	assert.Equal(t, c.Discount, q.Discount())

	c.Epsilon = 2
	_, err = c.Create(4, 4, 1)
	assert.Error(t, err)
}
