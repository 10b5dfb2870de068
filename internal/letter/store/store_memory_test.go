package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/letter/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

func newAwaitingLetter() *models.Letter {
	now := time.Now()
	return &models.Letter{
		ID:                  id.NewLetterID(),
		LetterTypeID:        id.NewLetterTypeID(),
		LetterTypeCode:      "SKD",
		ApplicantID:         id.NewUserID(),
		ApplicantNationalID: "3174012345678901",
		ApplicantUnit:       "RW-05",
		ApplicantSubUnit:    "RT-02",
		Values:              map[string]string{"full_name": "Siti Aminah"},
		Status:              models.StatusAwaitingTier1,
		SubmittedAt:         now,
		UpdatedAt:           now,
	}
}

func TestCreateAndFind(t *testing.T) {
	s := New()
	ctx := context.Background()
	letter := newAwaitingLetter()

	require.NoError(t, s.Create(ctx, letter))

	found, err := s.FindByID(ctx, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, letter.ID, found.ID)
	assert.Equal(t, models.StatusAwaitingTier1, found.Status)
}

func TestCreateDuplicateConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()
	letter := newAwaitingLetter()

	require.NoError(t, s.Create(ctx, letter))
	assert.ErrorIs(t, s.Create(ctx, letter), sentinel.ErrConflict)
}

func TestFindMissing(t *testing.T) {
	s := New()
	_, err := s.FindByID(context.Background(), id.NewLetterID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestUpdateChecksExpectedStatus(t *testing.T) {
	s := New()
	ctx := context.Background()
	letter := newAwaitingLetter()
	require.NoError(t, s.Create(ctx, letter))

	// First decision wins
	decided := letter.Clone()
	decided.Status = models.StatusAwaitingTier2
	require.NoError(t, s.Update(ctx, decided, models.StatusAwaitingTier1))

	// A racing decision saw the old status and must conflict
	racing := letter.Clone()
	racing.Status = models.StatusRejected
	assert.ErrorIs(t, s.Update(ctx, racing, models.StatusAwaitingTier1), sentinel.ErrConflict)

	found, err := s.FindByID(ctx, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingTier2, found.Status)
}

func TestUpdateMissing(t *testing.T) {
	s := New()
	letter := newAwaitingLetter()
	assert.ErrorIs(t, s.Update(context.Background(), letter, models.StatusAwaitingTier1), sentinel.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := newAwaitingLetter()
	require.NoError(t, s.Create(ctx, first))

	second := newAwaitingLetter()
	second.ApplicantUnit = "RW-03"
	second.ApplicantSubUnit = "RT-01"
	second.Status = models.StatusFinalized
	second.SubmittedAt = first.SubmittedAt.Add(time.Minute)
	require.NoError(t, s.Create(ctx, second))

	byApplicant, err := s.List(ctx, Filter{ApplicantID: first.ApplicantID})
	require.NoError(t, err)
	require.Len(t, byApplicant, 1)
	assert.Equal(t, first.ID, byApplicant[0].ID)

	byStatus, err := s.List(ctx, Filter{Status: models.StatusFinalized})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second.ID, byStatus[0].ID)

	byUnit, err := s.List(ctx, Filter{Unit: "RW-05"})
	require.NoError(t, err)
	require.Len(t, byUnit, 1)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].SubmittedAt.Before(all[1].SubmittedAt), "sorted by submission time")
}

func TestReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	letter := newAwaitingLetter()
	require.NoError(t, s.Create(ctx, letter))

	found, err := s.FindByID(ctx, letter.ID)
	require.NoError(t, err)
	found.Values["full_name"] = "mutated"
	found.Status = models.StatusRejected

	again, err := s.FindByID(ctx, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siti Aminah", again.Values["full_name"])
	assert.Equal(t, models.StatusAwaitingTier1, again.Status)
}
