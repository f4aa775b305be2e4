package expreplay

import (
	"sync"

	ts "github.com/samuelfneumann/mazerl/timestep"
)

// SyncBuffer wraps an ExperienceReplayer so that it can be shared by
// multiple producers and consumers
type SyncBuffer struct {
	mu     sync.Mutex
	buffer ExperienceReplayer
}

var _ ExperienceReplayer = &SyncBuffer{}

// Synchronized returns an ExperienceReplayer which serializes all calls
// to b. The caller must not use b directly afterwards.
func Synchronized(b ExperienceReplayer) *SyncBuffer {
	return &SyncBuffer{buffer: b}
}

// Add adds a transition to the buffer
func (s *SyncBuffer) Add(t ts.Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.Add(t)
}

// Sample samples a batch of transitions from the buffer
func (s *SyncBuffer) Sample(n int) ([]ts.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Sample(n)
}

// Len returns the current number of transitions in the buffer
func (s *SyncBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer.Len()
}

// Capacity returns the maximum number of transitions in the buffer
func (s *SyncBuffer) Capacity() int {
	return s.buffer.Capacity()
}
