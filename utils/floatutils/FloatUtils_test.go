package floatutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxSlice(t *testing.T) {
	tests := []struct {
		values  []float64
		max     float64
		indices []int
	}{
		{[]float64{1}, 1, []int{0}},
		{[]float64{3, 1, 2}, 3, []int{0}},
		{[]float64{-1, 4, 4, 0}, 4, []int{1, 2}},
		{[]float64{0, 0, 0}, 0, []int{0, 1, 2}},
		{[]float64{-5, -2, -3}, -2, []int{1}},
	}

	for _, test := range tests {
		max, indices := MaxSlice(test.values)
		assert.Equal(t, test.max, max)
		assert.Equal(t, test.indices, indices)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, Clip(2, 0, 1))
	assert.Equal(t, 0.0, Clip(-2, 0, 1))
	assert.Equal(t, 0.5, Clip(0.5, 0, 1))
}
