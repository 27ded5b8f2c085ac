package mocks

import (
	"github.com/mcoot/festivalboard/internal/dependencies/random"
)

// MockRandom returns queued values from Intn
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// Fallback is returned once the queue is exhausted
	Fallback int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result (clamped into [0, n)), or Fallback
func (r *MockRandom) Intn(n int) int {
	result := r.Fallback
	if r.intnIndex < len(r.IntnResults) {
		result = r.IntnResults[r.intnIndex]
		r.intnIndex++
	}
	if n <= 0 {
		return 0
	}
	if result < 0 {
		return 0
	}
	if result >= n {
		return n - 1
	}
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
}
