//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"suratdesa/internal/letter/models"
	"suratdesa/internal/letter/store"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
	"suratdesa/pkg/testutil"
	"suratdesa/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	typeID   id.LetterTypeID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateModuleTables(ctx)
	s.Require().NoError(err)
	s.typeID = s.postgres.CreateTestLetterType(ctx, s.T(), "SKD")
}

func (s *PostgresStoreSuite) newLetter() *models.Letter {
	letter := testutil.NewLetterBuilder().Build()
	letter.LetterTypeID = s.typeID
	return letter
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	letter := s.newLetter()
	letter.History = []models.VerificationRecord{{
		Tier:      1,
		ActorID:   id.NewUserID().String(),
		ActorRole: "tier1_verifier",
		Decision:  models.DecisionApproved,
		From:      models.StatusAwaitingTier1,
		To:        models.StatusApprovedTier1,
		DecidedAt: time.Now(),
	}}

	s.Require().NoError(s.store.Create(ctx, letter))

	found, err := s.store.FindByID(ctx, letter.ID)
	s.Require().NoError(err)
	s.Equal(letter.ID, found.ID)
	s.Equal(letter.Values, found.Values)
	s.Equal(letter.ApplicantNationalID, found.ApplicantNationalID)
	s.Require().Len(found.History, 1)
	s.Equal(models.StatusApprovedTier1, found.History[0].To)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewLetterID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateCreateConflicts() {
	ctx := context.Background()
	letter := s.newLetter()

	s.Require().NoError(s.store.Create(ctx, letter))
	s.ErrorIs(s.store.Create(ctx, letter), sentinel.ErrConflict)
}

// TestConcurrentUpdateSingleWinner verifies the conditional update lets exactly
// one of many racing decisions through; the rest observe a conflict.
func (s *PostgresStoreSuite) TestConcurrentUpdateSingleWinner() {
	ctx := context.Background()
	letter := s.newLetter()
	s.Require().NoError(s.store.Create(ctx, letter))

	const goroutines = 20
	result := testutil.RunConcurrent(goroutines, func(idx int) error {
		updated := letter.Clone()
		updated.Status = models.StatusAwaitingTier2
		updated.UpdatedAt = time.Now()
		return s.store.Update(ctx, updated, models.StatusAwaitingTier1)
	})

	s.Equal(int32(1), result.Successes, "exactly one decision should win")
	s.Equal(int32(goroutines-1), result.Conflicts)
	s.Equal(int32(0), result.Errors)

	found, err := s.store.FindByID(ctx, letter.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAwaitingTier2, found.Status)
}

func (s *PostgresStoreSuite) TestUpdateMissingLetter() {
	ctx := context.Background()
	letter := s.newLetter()

	err := s.store.Update(ctx, letter, models.StatusAwaitingTier1)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListFilters() {
	ctx := context.Background()

	mine := s.newLetter()
	s.Require().NoError(s.store.Create(ctx, mine))

	other := testutil.NewLetterBuilder().
		WithApplicant(testutil.TestIDs.UserID2, "3174015678901234").
		WithScope("RW-03", "RT-01").
		Build()
	other.LetterTypeID = s.typeID
	s.Require().NoError(s.store.Create(ctx, other))

	byApplicant, err := s.store.List(ctx, store.Filter{ApplicantID: mine.ApplicantID})
	s.Require().NoError(err)
	s.Require().Len(byApplicant, 1)
	s.Equal(mine.ID, byApplicant[0].ID)

	byScope, err := s.store.List(ctx, store.Filter{Unit: "RW-03"})
	s.Require().NoError(err)
	s.Require().Len(byScope, 1)
	s.Equal(other.ID, byScope[0].ID)

	all, err := s.store.List(ctx, store.Filter{})
	s.Require().NoError(err)
	s.Len(all, 2)
}
