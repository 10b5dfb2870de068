package store

import (
	"context"
	"sort"
	"sync"

	"suratdesa/internal/lettertype/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

// InMemoryStore keeps letter types in memory for tests and local runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	types map[id.LetterTypeID]*models.LetterType
}

// New constructs an empty in-memory letter type store.
func New() *InMemoryStore {
	return &InMemoryStore{types: make(map[id.LetterTypeID]*models.LetterType)}
}

func (s *InMemoryStore) Save(_ context.Context, letterType *models.LetterType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if existing.Code == letterType.Code && existing.ID != letterType.ID {
			return sentinel.ErrConflict
		}
	}
	copyType := *letterType
	s.types[letterType.ID] = &copyType
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, typeID id.LetterTypeID) (*models.LetterType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	letterType, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyType := *letterType
	return &copyType, nil
}

func (s *InMemoryStore) FindByCode(_ context.Context, code string) (*models.LetterType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, letterType := range s.types {
		if letterType.Code == code {
			copyType := *letterType
			return &copyType, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, includeInactive bool) ([]*models.LetterType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var listed []*models.LetterType
	for _, letterType := range s.types {
		if !includeInactive && !letterType.Active {
			continue
		}
		copyType := *letterType
		listed = append(listed, &copyType)
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].Code < listed[j].Code })
	return listed, nil
}

func (s *InMemoryStore) Update(_ context.Context, letterType *models.LetterType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[letterType.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copyType := *letterType
	s.types[letterType.ID] = &copyType
	return nil
}
