package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit events in memory for tests and local development.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByLetter(_ context.Context, letterID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.LetterID == letterID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every recorded event; test helper.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events...)
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
