package store

import (
	"context"

	"suratdesa/internal/letter/models"
	id "suratdesa/pkg/domain"
)

// Filter narrows letter listings. Zero values mean "any".
type Filter struct {
	ApplicantID  id.UserID
	LetterTypeID id.LetterTypeID
	Status       models.Status
	Unit         string
	SubUnit      string
}

// Store is the persistence contract for letters.
// Error Contract:
// - FindByID returns sentinel.ErrNotFound when no letter exists
// - Update returns sentinel.ErrConflict when the letter's stored status no
//   longer matches expected; the decision raced with another one
// - Other failures come back wrapped with context
type Store interface {
	Create(ctx context.Context, letter *models.Letter) error
	FindByID(ctx context.Context, letterID id.LetterID) (*models.Letter, error)
	List(ctx context.Context, filter Filter) ([]*models.Letter, error)
	// Update persists the letter only if its stored status still equals
	// expected. This is the per-instance serialization point.
	Update(ctx context.Context, letter *models.Letter, expected models.Status) error
}
