// Package expreplay implements a bounded experience replay buffer of
// Transitions with uniform sampling without replacement.
package expreplay

import (
	"fmt"
	"strings"

	ts "github.com/samuelfneumann/mazerl/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// DefaultCapacity is the default maximum number of Transitions stored
const DefaultCapacity int = 10000

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer, evicting the oldest
	// transition if the buffer is full
	Add(t ts.Transition)

	// Sample returns min(n, Len()) distinct transitions chosen
	// uniformly at random
	Sample(n int) ([]ts.Transition, error)

	// Len returns the current number of transitions in the buffer
	Len() int

	// Capacity returns the maximum number of transitions in the buffer
	Capacity() int
}

// Buffer implements a concrete ExperienceReplayer as a ring buffer.
// Elements are removed from the buffer in a FiFo manner, one at a time,
// once the buffer is full.
//
// A Buffer is not safe for concurrent use; see Synchronized.
type Buffer struct {
	data []ts.Transition

	// next is the index at which the next transition is inserted. Once
	// the buffer is full it is also the index of the oldest transition.
	next   int
	isFull bool

	src rand.Source
}

var _ ExperienceReplayer = &Buffer{}

// New returns a new Buffer holding at most capacity transitions. The
// seed determines the sequence of samples drawn from the buffer.
func New(capacity int, seed int64) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("new: capacity must be >= 1, have(%v)",
			capacity)
	}

	return &Buffer{
		data: make([]ts.Transition, 0, capacity),
		src:  rand.NewSource(uint64(seed)),
	}, nil
}

// Add adds a transition to the buffer
func (b *Buffer) Add(t ts.Transition) {
	if !b.isFull {
		b.data = append(b.data, t)
	} else {
		b.data[b.next] = t
	}

	b.next++
	if b.next == cap(b.data) {
		b.next = 0
		b.isFull = true
	}
}

// Sample samples and returns a batch of transitions from the buffer.
// The batch size is clamped to the number of transitions in the buffer.
// An error is returned only if the buffer is empty and n > 0.
func (b *Buffer) Sample(n int) ([]ts.Transition, error) {
	if n <= 0 {
		return []ts.Transition{}, nil
	}
	if b.Len() == 0 {
		return nil, &ExpReplayError{
			Op:  "sample",
			Err: errEmptyCache,
		}
	}
	if n > b.Len() {
		n = b.Len()
	}

	indices := make([]int, n)
	sampleuv.WithoutReplacement(indices, b.Len(), b.src)

	batch := make([]ts.Transition, n)
	for i, index := range indices {
		batch[i] = b.data[index]
	}
	return batch, nil
}

// At returns the transition at position i in insertion order, where
// position 0 is the oldest transition in the buffer. At panics if i is
// not in [0, Len()).
func (b *Buffer) At(i int) ts.Transition {
	if i < 0 || i >= b.Len() {
		panic(fmt.Sprintf("at: index %v out of range [0, %v)", i, b.Len()))
	}
	if !b.isFull {
		return b.data[i]
	}
	return b.data[(b.next+i)%len(b.data)]
}

// Len returns the current number of transitions in the buffer
func (b *Buffer) Len() int {
	return len(b.data)
}

// Capacity returns the maximum number of transitions in the buffer
func (b *Buffer) Capacity() int {
	return cap(b.data)
}

// String returns the string representation of the Buffer
func (b *Buffer) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "Buffer | Size: %v  |  Capacity: %v", b.Len(),
		b.Capacity())
	for i := 0; i < b.Len(); i++ {
		fmt.Fprintf(&s, "\n%v", b.At(i))
	}
	return s.String()
}
