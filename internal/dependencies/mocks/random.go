package mocks

import (
	"fmt"

	"github.com/roomsync/roomsync/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntResults is a queue of results to return from Intn and IntRange
	IntResults []int
	intIndex   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	fallbackCount int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intIndex >= len(r.IntResults) {
		return 0
	}
	result := r.IntResults[r.intIndex]
	r.intIndex++
	return result
}

// IntRange returns the next queued result, or lo if none remaining
func (r *MockRandom) IntRange(lo, hi int) int {
	if r.intIndex >= len(r.IntResults) {
		return lo
	}
	result := r.IntResults[r.intIndex]
	r.intIndex++
	return result
}

// String returns the next queued result. With nothing queued it falls back
// to a deterministic sequence, so uniqueness-retry loops still terminate.
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		r.fallbackCount++
		return fmt.Sprintf("mockstring%d", r.fallbackCount)
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueInt adds values to the Intn/IntRange result queue
func (r *MockRandom) QueueInt(values ...int) {
	r.IntResults = append(r.IntResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IntResults = nil
	r.intIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
	r.fallbackCount = 0
}
