package store

import (
	"context"
	"sort"
	"sync"

	"suratdesa/internal/letter/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

// InMemoryStore keeps letters in memory for tests and local runs. Update
// compares the stored status under the lock, which gives the same
// serialization guarantee the conditional UPDATE gives in PostgreSQL.
type InMemoryStore struct {
	mu      sync.RWMutex
	letters map[id.LetterID]*models.Letter
}

// New constructs an empty in-memory letter store.
func New() *InMemoryStore {
	return &InMemoryStore{letters: make(map[id.LetterID]*models.Letter)}
}

func (s *InMemoryStore) Create(_ context.Context, letter *models.Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.letters[letter.ID]; ok {
		return sentinel.ErrConflict
	}
	s.letters[letter.ID] = letter.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, letterID id.LetterID) (*models.Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	letter, ok := s.letters[letterID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return letter.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]*models.Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var listed []*models.Letter
	for _, letter := range s.letters {
		if !matches(letter, filter) {
			continue
		}
		listed = append(listed, letter.Clone())
	}
	sort.Slice(listed, func(i, j int) bool {
		return listed[i].SubmittedAt.Before(listed[j].SubmittedAt)
	})
	return listed, nil
}

func (s *InMemoryStore) Update(_ context.Context, letter *models.Letter, expected models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.letters[letter.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Status != expected {
		return sentinel.ErrConflict
	}
	s.letters[letter.ID] = letter.Clone()
	return nil
}

func matches(letter *models.Letter, filter Filter) bool {
	if !filter.ApplicantID.IsNil() && letter.ApplicantID != filter.ApplicantID {
		return false
	}
	if !filter.LetterTypeID.IsNil() && letter.LetterTypeID != filter.LetterTypeID {
		return false
	}
	if filter.Status != "" && letter.Status != filter.Status {
		return false
	}
	if filter.Unit != "" && letter.ApplicantUnit != filter.Unit {
		return false
	}
	if filter.SubUnit != "" && letter.ApplicantSubUnit != filter.SubUnit {
		return false
	}
	return true
}
