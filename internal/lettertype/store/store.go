package store

import (
	"context"

	"suratdesa/internal/lettertype/models"
	id "suratdesa/pkg/domain"
)

// Store is the persistence contract for letter types.
// Error Contract:
// - FindByID and FindByCode return sentinel.ErrNotFound when no type exists
// - Save returns sentinel.ErrConflict when the code is already taken
// - Other failures come back wrapped with context
type Store interface {
	Save(ctx context.Context, letterType *models.LetterType) error
	FindByID(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error)
	FindByCode(ctx context.Context, code string) (*models.LetterType, error)
	List(ctx context.Context, includeInactive bool) ([]*models.LetterType, error)
	Update(ctx context.Context, letterType *models.LetterType) error
}
