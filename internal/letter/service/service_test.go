package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/audit"
	"suratdesa/internal/auth"
	"suratdesa/internal/letter/models"
	"suratdesa/internal/letter/store"
	ltmodels "suratdesa/internal/lettertype/models"
	ltservice "suratdesa/internal/lettertype/service"
	ltstore "suratdesa/internal/lettertype/store"
	"suratdesa/internal/numbering"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
)

type fixture struct {
	svc      *Service
	types    *ltservice.Service
	counters *numbering.InMemoryCounterStore
	audits   *audit.InMemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore)
	t.Cleanup(auditor.Close)

	types := ltservice.NewService(ltstore.New(), auditor, logger)
	counters := numbering.NewInMemoryCounterStore()
	generator := numbering.NewGenerator(counters, numbering.ResetYearly)

	svc := NewService(store.New(), types, generator, auditor, logger)
	return &fixture{svc: svc, types: types, counters: counters, audits: auditStore}
}

func (f *fixture) createType(t *testing.T, requiresVerification bool) *ltmodels.LetterType {
	t.Helper()
	letterType, err := f.types.Create(adminCtx(), ltservice.CreateInput{
		Name:         "Certificate of Domicile",
		Code:         "SKD",
		NumberFormat: "NOMOR/KODE/BULAN/TAHUN",
		Template:     "This certifies (full_name) resides at (address) for (purpose).",
		Fields: []ltmodels.FieldSchema{
			{Name: "full_name", Kind: ltmodels.FieldText, Required: true},
			{Name: "address", Kind: ltmodels.FieldMultiline, Required: true},
			{Name: "purpose", Kind: ltmodels.FieldMultiline, Required: true},
		},
		RequiresVerification: requiresVerification,
	})
	require.NoError(t, err)
	return letterType
}

var (
	applicantID = id.NewUserID()
	tier1ID     = id.NewUserID()
	tier2ID     = id.NewUserID()
	adminID     = id.NewUserID()
)

func sessionCtx(userID id.UserID, role auth.Role, scope auth.Scope) context.Context {
	return auth.WithSession(context.Background(), auth.Session{
		UserID:     userID,
		NationalID: "3174012345678901",
		Role:       role,
		Scope:      scope,
	})
}

func applicantCtx() context.Context {
	return sessionCtx(applicantID, auth.RoleApplicant, auth.Scope{Unit: "RW-05", SubUnit: "RT-02"})
}

func tier1Ctx() context.Context {
	return sessionCtx(tier1ID, auth.RoleTier1Verifier, auth.Scope{Unit: "RW-05", SubUnit: "RT-02"})
}

func tier2Ctx() context.Context {
	return sessionCtx(tier2ID, auth.RoleTier2Verifier, auth.Scope{Unit: "RW-05", SubUnit: "RT-01"})
}

func adminCtx() context.Context {
	return sessionCtx(adminID, auth.RoleAdmin, auth.Scope{})
}

func completeValues() map[string]string {
	return map[string]string{
		"full_name": "Siti Aminah",
		"address":   "Jalan Melati 12",
		"purpose":   "bank account opening",
	}
}

func TestSubmitWithoutVerificationFinalizesImmediately(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, false)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	assert.Equal(t, models.StatusFinalized, letter.Status)
	assert.NotEmpty(t, letter.Number)
	assert.Contains(t, letter.DocumentText, "Siti Aminah")
	assert.NotContains(t, letter.DocumentText, "(full_name)")
}

func TestSubmitWithVerificationAwaitsTier1(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	assert.Equal(t, models.StatusAwaitingTier1, letter.Status)
	assert.Empty(t, letter.Number)
	assert.Empty(t, letter.DocumentText)
}

func TestSubmitRejectsIncompleteValues(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	_, err := f.svc.Submit(applicantCtx(), letterType.ID, map[string]string{"full_name": "Siti"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSubmitToDeactivatedTypeConflicts(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)
	_, err := f.types.Deactivate(adminCtx(), letterType.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestFullTwoTierApprovalFlow(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	afterTier1, err := f.svc.Approve(tier1Ctx(), letter.ID, "looks right")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingTier2, afterTier1.Status)
	assert.Empty(t, afterTier1.Number, "number must not be assigned before tier 2")

	afterTier2, err := f.svc.Approve(tier2Ctx(), letter.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalized, afterTier2.Status)
	assert.NotEmpty(t, afterTier2.Number)
	assert.Contains(t, afterTier2.DocumentText, "Siti Aminah")

	require.Len(t, afterTier2.History, 2)
	assert.Equal(t, 1, afterTier2.History[0].Tier)
	assert.Equal(t, models.StatusAwaitingTier1, afterTier2.History[0].From)
	assert.Equal(t, models.StatusAwaitingTier2, afterTier2.History[0].To)
	assert.Equal(t, 2, afterTier2.History[1].Tier)
	assert.Equal(t, models.StatusFinalized, afterTier2.History[1].To)
}

func TestRejectRequiresNote(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	_, err = f.svc.Reject(tier1Ctx(), letter.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = f.svc.Reject(tier1Ctx(), letter.ID, "   \t")
	require.Error(t, err, "a whitespace-only note is no note")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	unchanged, err := f.svc.Get(tier1Ctx(), letter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingTier1, unchanged.Status)
	assert.Empty(t, unchanged.History)
}

func TestRejectAtTier1LandsOnRejected(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	rejected, err := f.svc.Reject(tier1Ctx(), letter.ID, "address does not match records")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Empty(t, rejected.Number)
	require.Len(t, rejected.History, 1)
	assert.Equal(t, models.DecisionRejected, rejected.History[0].Decision)
	assert.Equal(t, "address does not match records", rejected.History[0].Note)
}

func TestScopeMismatchIsRejectedBeforeMutation(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	otherSubUnit := sessionCtx(id.NewUserID(), auth.RoleTier1Verifier, auth.Scope{Unit: "RW-05", SubUnit: "RT-07"})
	_, err = f.svc.Approve(otherSubUnit, letter.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	otherUnit := sessionCtx(id.NewUserID(), auth.RoleTier2Verifier, auth.Scope{Unit: "RW-09"})
	_, err = f.svc.Reject(otherUnit, letter.ID, "wrong unit")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	unchanged, err := f.svc.Get(tier1Ctx(), letter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingTier1, unchanged.Status)
	assert.Empty(t, unchanged.History)
}

func TestTier1RoleCannotDecideTier2(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)
	_, err = f.svc.Approve(tier1Ctx(), letter.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Approve(tier1Ctx(), letter.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestDecidingSettledLetterConflicts(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)
	_, err = f.svc.Reject(tier1Ctx(), letter.ID, "no")
	require.NoError(t, err)

	_, err = f.svc.Approve(tier1Ctx(), letter.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

type failingCounters struct{}

func (failingCounters) Next(context.Context, id.LetterTypeID, string) (int, error) {
	return 0, assert.AnError
}

func TestNumberingFailureRollsBackApproval(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)
	_, err = f.svc.Approve(tier1Ctx(), letter.ID, "")
	require.NoError(t, err)

	f.svc.numbering = numbering.NewGenerator(failingCounters{}, numbering.ResetYearly)
	_, err = f.svc.Approve(tier2Ctx(), letter.ID, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	unchanged, err := f.svc.Get(tier2Ctx(), letter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingTier2, unchanged.Status)
	assert.Empty(t, unchanged.Number)
	assert.Len(t, unchanged.History, 1, "failed approval must not append history")
}

// gatedCounters blocks inside Next until released, holding a finalizing
// decision open so a competing decision can run against the claimed letter.
type gatedCounters struct {
	inner   *numbering.InMemoryCounterStore
	entered chan struct{}
	release chan struct{}
}

func (g *gatedCounters) Next(ctx context.Context, letterTypeID id.LetterTypeID, period string) (int, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.inner.Next(ctx, letterTypeID, period)
}

func TestRacingTier2DecisionsConsumeOneSequenceValue(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)
	_, err = f.svc.Approve(tier1Ctx(), letter.ID, "")
	require.NoError(t, err)

	gate := &gatedCounters{
		inner:   f.counters,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f.svc.numbering = numbering.NewGenerator(gate, numbering.ResetYearly)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Approve(tier2Ctx(), letter.ID, "")
		done <- err
	}()
	<-gate.entered // first approver now holds the claim inside numbering

	otherTier2 := sessionCtx(id.NewUserID(), auth.RoleTier2Verifier, auth.Scope{Unit: "RW-05"})
	_, err = f.svc.Approve(otherTier2, letter.ID, "")
	require.Error(t, err, "second decision must lose before the counter moves")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	close(gate.release)
	require.NoError(t, <-done)

	finalized, err := f.svc.Get(adminCtx(), letter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalized, finalized.Status)
	require.Len(t, finalized.History, 2)

	period := numbering.ResetYearly.PeriodKey(time.Now())
	assert.Equal(t, 1, f.counters.Peek(letterType.ID, period),
		"one finalized letter must consume exactly one sequence value")
}

func TestUnresolvedPlaceholderBlocksFinalization(t *testing.T) {
	f := newFixture(t)
	letterType, err := f.types.Create(adminCtx(), ltservice.CreateInput{
		Name:         "Business Certificate",
		Code:         "SKU",
		NumberFormat: "NOMOR/KODE/TAHUN",
		Template:     "Business (business_name) run by (full_name).",
		Fields: []ltmodels.FieldSchema{
			{Name: "full_name", Kind: ltmodels.FieldText, Required: true},
		},
		RequiresVerification: false,
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(applicantCtx(), letterType.ID, map[string]string{"full_name": "Budi"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestListScoping(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	_, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	otherApplicant := sessionCtx(id.NewUserID(), auth.RoleApplicant, auth.Scope{Unit: "RW-09", SubUnit: "RT-01"})
	_, err = f.svc.Submit(otherApplicant, letterType.ID, completeValues())
	require.NoError(t, err)

	mine, err := f.svc.List(applicantCtx(), "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	queue, err := f.svc.List(tier1Ctx(), models.StatusAwaitingTier1)
	require.NoError(t, err)
	assert.Len(t, queue, 1)

	unitWide, err := f.svc.List(tier2Ctx(), "")
	require.NoError(t, err)
	assert.Len(t, unitWide, 1)

	all, err := f.svc.List(adminCtx(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDocumentOnlyForFinalizedLetters(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, true)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	_, err = f.svc.Document(applicantCtx(), letter.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = f.svc.Approve(tier1Ctx(), letter.ID, "")
	require.NoError(t, err)
	_, err = f.svc.Approve(tier2Ctx(), letter.ID, "")
	require.NoError(t, err)

	doc, err := f.svc.Document(applicantCtx(), letter.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Number)
	assert.Contains(t, doc.DocumentText, "bank account opening")
}

func TestAuditTrailRecordsLifecycle(t *testing.T) {
	f := newFixture(t)
	letterType := f.createType(t, false)

	letter, err := f.svc.Submit(applicantCtx(), letterType.ID, completeValues())
	require.NoError(t, err)

	// publisher is async; give it a moment to drain
	require.Eventually(t, func() bool {
		events, err := f.audits.ListByLetter(context.Background(), letter.ID.String())
		return err == nil && len(events) >= 2
	}, time.Second, 10*time.Millisecond)

	events, err := f.audits.ListByLetter(context.Background(), letter.ID.String())
	require.NoError(t, err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, audit.ActionLetterSubmitted)
	assert.Contains(t, actions, audit.ActionNumberAssigned)
}
