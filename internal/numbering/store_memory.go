package numbering

import (
	"context"
	"sync"

	id "suratdesa/pkg/domain"
)

// InMemoryCounterStore serializes counter increments with a single mutex.
// Sequence values per (letterType, period) are strictly increasing with no
// duplicates and no gaps.
type InMemoryCounterStore struct {
	mu       sync.Mutex
	counters map[counterKey]int
}

type counterKey struct {
	letterTypeID id.LetterTypeID
	period       string
}

// NewInMemoryCounterStore constructs an empty in-memory counter store.
func NewInMemoryCounterStore() *InMemoryCounterStore {
	return &InMemoryCounterStore{counters: make(map[counterKey]int)}
}

func (s *InMemoryCounterStore) Next(_ context.Context, letterTypeID id.LetterTypeID, period string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := counterKey{letterTypeID: letterTypeID, period: period}
	s.counters[key]++
	return s.counters[key], nil
}

// Peek returns the current counter value without incrementing; test helper.
func (s *InMemoryCounterStore) Peek(letterTypeID id.LetterTypeID, period string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[counterKey{letterTypeID: letterTypeID, period: period}]
}
