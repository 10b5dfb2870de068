//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"suratdesa/internal/audit"
	"suratdesa/pkg/testutil/containers"
)

type PostgresAuditSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
}

func TestPostgresAuditSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
}

func (s *PostgresAuditSuite) SetupTest() {
	err := s.postgres.TruncateModuleTables(context.Background())
	s.Require().NoError(err)
}

// TestAppendAndListByLetter verifies events round trip and come back in
// chronological order for the requested letter.
func (s *PostgresAuditSuite) TestAppendAndListByLetter() {
	ctx := context.Background()
	store := audit.NewPostgresStore(s.postgres.DB)

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	letterID := "2f0c5f48-9a3e-4f1c-8a44-7b1d9a4a0c11"

	submitted := audit.Event{
		Timestamp: base,
		ActorID:   "applicant-1",
		ActorRole: "applicant",
		LetterID:  letterID,
		Action:    audit.ActionLetterSubmitted,
		Device:    "Mozilla/5.0",
	}
	approved := audit.Event{
		Timestamp: base.Add(time.Hour),
		ActorID:   "verifier-1",
		ActorRole: "tier1_verifier",
		LetterID:  letterID,
		Action:    audit.ActionLetterApproved,
		Decision:  audit.DecisionApproved,
		Note:      "checked against registry",
	}

	// Append out of order; listing must sort by time.
	s.Require().NoError(store.Append(ctx, approved))
	s.Require().NoError(store.Append(ctx, submitted))

	events, err := store.ListByLetter(ctx, letterID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionLetterSubmitted, events[0].Action)
	s.Equal(audit.ActionLetterApproved, events[1].Action)
	s.Equal("checked against registry", events[1].Note)
	s.Equal(audit.DecisionApproved, events[1].Decision)
	s.True(events[0].Timestamp.Equal(base))
}

// TestListScopedToLetter verifies events for other letters and letter-less
// events stay out of the result.
func (s *PostgresAuditSuite) TestListScopedToLetter() {
	ctx := context.Background()
	store := audit.NewPostgresStore(s.postgres.DB)
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(store.Append(ctx, audit.Event{
		Timestamp: now,
		ActorID:   "applicant-1",
		ActorRole: "applicant",
		LetterID:  "letter-a",
		Action:    audit.ActionLetterSubmitted,
	}))
	s.Require().NoError(store.Append(ctx, audit.Event{
		Timestamp: now,
		ActorID:   "applicant-2",
		ActorRole: "applicant",
		LetterID:  "letter-b",
		Action:    audit.ActionLetterSubmitted,
	}))
	s.Require().NoError(store.Append(ctx, audit.Event{
		Timestamp: now,
		ActorID:   "admin-1",
		ActorRole: "admin",
		Action:    audit.ActionLetterTypeSaved,
	}))

	events, err := store.ListByLetter(ctx, "letter-a")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("applicant-1", events[0].ActorID)
	s.Equal("letter-a", events[0].LetterID)
}

// TestListMissingLetterIsEmpty verifies an unknown letter yields no events
// and no error.
func (s *PostgresAuditSuite) TestListMissingLetterIsEmpty() {
	ctx := context.Background()
	store := audit.NewPostgresStore(s.postgres.DB)

	events, err := store.ListByLetter(ctx, "no-such-letter")
	s.Require().NoError(err)
	s.Empty(events)
}
