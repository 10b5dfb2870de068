package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"suratdesa/internal/audit"
	"suratdesa/internal/auth"
	"suratdesa/internal/letter/metrics"
	"suratdesa/internal/letter/models"
	"suratdesa/internal/letter/store"
	ltmodels "suratdesa/internal/lettertype/models"
	ltservice "suratdesa/internal/lettertype/service"
	"suratdesa/internal/platform/device"
	"suratdesa/internal/renderer"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
	"suratdesa/pkg/requestcontext"
)

// LetterTypes loads catalogue entries for submission and rendering.
type LetterTypes interface {
	Get(ctx context.Context, typeID id.LetterTypeID) (*ltmodels.LetterType, error)
}

// Numbering assigns document numbers at finalization.
type Numbering interface {
	Assign(ctx context.Context, letterTypeID id.LetterTypeID, code, format string, at time.Time) (string, error)
}

type Option func(*Service)

// Service drives letters through the verification flow. Per-instance
// serialization rides on the store's status-conditional Update: finalizing
// transitions claim the decision state first, so the counter only moves for
// the actor holding the claim and a numbering failure releases it.
type Service struct {
	store       store.Store
	letterTypes LetterTypes
	numbering   Numbering
	auditor     *audit.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewService(s store.Store, letterTypes LetterTypes, numbering Numbering, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:       s,
		letterTypes: letterTypes,
		numbering:   numbering,
		auditor:     auditor,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Submit creates a letter from the session's applicant identity. Types that
// skip verification finalize in the same call, number included; everything
// else lands in awaiting_tier1.
func (s *Service) Submit(ctx context.Context, letterTypeID id.LetterTypeID, values map[string]string) (*models.Letter, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing session context")
	}
	if !session.Role.Can(auth.CapSubmitLetter) {
		return nil, dErrors.New(dErrors.CodeForbidden, "role cannot submit letters")
	}

	letterType, err := s.letterTypes.Get(ctx, letterTypeID)
	if err != nil {
		return nil, err
	}
	if !letterType.Active {
		return nil, dErrors.New(dErrors.CodeConflict, "letter type is no longer accepting submissions")
	}
	if err := ltservice.Resolve(letterType, values); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	letter := &models.Letter{
		ID:                  id.NewLetterID(),
		LetterTypeID:        letterType.ID,
		LetterTypeCode:      letterType.Code,
		ApplicantID:         session.UserID,
		ApplicantNationalID: session.NationalID,
		ApplicantUnit:       session.Scope.Unit,
		ApplicantSubUnit:    session.Scope.SubUnit,
		Values:              values,
		Status:              models.StatusDraft,
		SubmittedAt:         now,
		UpdatedAt:           now,
	}

	event := models.EventSubmit
	if !letterType.RequiresVerification {
		event = models.EventSubmitDirect
	}
	next, err := models.Next(letter.Status, event)
	if err != nil {
		return nil, err
	}

	if next == models.StatusFinalized {
		text, err := s.renderFinal(ctx, letter, letterType)
		if err != nil {
			return nil, err
		}
		// The draft row must exist before the counter moves; a save
		// failure then cannot leave a gap in the sequence.
		if err := s.store.Create(ctx, letter); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save letter")
		}
		number, err := s.numbering.Assign(ctx, letterType.ID, letterType.Code, letterType.NumberFormat, now)
		if err != nil {
			return nil, err
		}
		letter.Number = number
		letter.DocumentText = text
		letter.Status = next
		if err := s.store.Update(ctx, letter, models.StatusDraft); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save letter")
		}
	} else {
		letter.Status = next
		if err := s.store.Create(ctx, letter); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save letter")
		}
	}

	s.emit(ctx, letter, audit.Event{Action: audit.ActionLetterSubmitted})
	if letter.Status == models.StatusFinalized {
		s.emit(ctx, letter, audit.Event{Action: audit.ActionNumberAssigned, Note: letter.Number})
	}
	if s.metrics != nil {
		s.metrics.IncrementSubmitted(letter.LetterTypeCode)
		s.metrics.RecordStatus(string(letter.Status))
	}
	return letter, nil
}

// Approve applies the current awaiting tier's approval. The actor's scope
// must cover the applicant before any mutation, and a tier-2 approval only
// completes if numbering and final rendering both succeed.
func (s *Service) Approve(ctx context.Context, letterID id.LetterID, note string) (*models.Letter, error) {
	return s.decide(ctx, letterID, models.EventApprove, note)
}

// Reject applies the current awaiting tier's rejection. A note is required;
// without one nothing changes.
func (s *Service) Reject(ctx context.Context, letterID id.LetterID, note string) (*models.Letter, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "a rejection note is required")
	}
	return s.decide(ctx, letterID, models.EventReject, note)
}

func (s *Service) decide(ctx context.Context, letterID id.LetterID, event models.Event, note string) (*models.Letter, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing session context")
	}

	letter, err := s.getByID(ctx, letterID)
	if err != nil {
		return nil, err
	}

	tier := letter.AwaitingTier()
	if tier == 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "letter is not awaiting a decision")
	}
	if err := s.authorizeTier(session, letter, tier); err != nil {
		return nil, err
	}

	loaded := letter.Status
	decided, err := models.Next(loaded, event)
	if err != nil {
		return nil, err
	}
	resting := models.Advance(decided)

	decision := models.DecisionApproved
	action := audit.ActionLetterApproved
	if event == models.EventReject {
		decision = models.DecisionRejected
		action = audit.ActionLetterRejected
	}

	now := requestcontext.Now(ctx)
	letter.History = append(letter.History, models.VerificationRecord{
		Tier:      tier,
		ActorID:   session.UserID.String(),
		ActorRole: session.Role.Name(),
		Decision:  decision,
		Note:      note,
		From:      loaded,
		To:        resting,
		DecidedAt: now,
	})
	letter.UpdatedAt = now

	if resting == models.StatusFinalized {
		letterType, err := s.letterTypes.Get(ctx, letter.LetterTypeID)
		if err != nil {
			return nil, err
		}
		// Claim the decision state under CAS before the counter moves; a
		// losing racer conflicts here without consuming a sequence value.
		letter.Status = decided
		if err := s.store.Update(ctx, letter, loaded); err != nil {
			return nil, translateUpdateErr(err)
		}
		if err := s.finalize(ctx, letter, letterType, now); err != nil {
			s.releaseClaim(ctx, letter, decided, loaded)
			return nil, err
		}
		letter.Status = resting
		if err := s.store.Update(ctx, letter, decided); err != nil {
			return nil, translateUpdateErr(err)
		}
	} else {
		letter.Status = resting
		if err := s.store.Update(ctx, letter, loaded); err != nil {
			return nil, translateUpdateErr(err)
		}
	}

	s.emit(ctx, letter, audit.Event{Action: action, Decision: decision, Note: note})
	if letter.Status == models.StatusFinalized {
		s.emit(ctx, letter, audit.Event{Action: audit.ActionLetterFinalized})
		s.emit(ctx, letter, audit.Event{Action: audit.ActionNumberAssigned, Note: letter.Number})
	}
	if s.metrics != nil {
		s.metrics.IncrementDecisions(tier, decision)
		s.metrics.RecordStatus(string(letter.Status))
	}
	return letter, nil
}

// finalize renders the final text and assigns the document number. The
// caller must already hold the letter's transition claim; on error nothing
// is attached and no sequence value has been consumed.
func (s *Service) finalize(ctx context.Context, letter *models.Letter, letterType *ltmodels.LetterType, now time.Time) error {
	text, err := s.renderFinal(ctx, letter, letterType)
	if err != nil {
		return err
	}
	number, err := s.numbering.Assign(ctx, letterType.ID, letterType.Code, letterType.NumberFormat, now)
	if err != nil {
		return err
	}
	letter.Number = number
	letter.DocumentText = text
	return nil
}

// renderFinal renders the final document text, refusing unresolved
// placeholders.
func (s *Service) renderFinal(ctx context.Context, letter *models.Letter, letterType *ltmodels.LetterType) (string, error) {
	res := renderer.Render(letterType.Template, letterType.OpeningStatement, letter.Values, renderer.ModeFinal)
	if len(res.Unresolved) > 0 {
		s.logger.ErrorContext(ctx, "finalization blocked by unresolved placeholders",
			"letter_id", letter.ID,
			"unresolved", res.Unresolved,
		)
		return "", dErrors.New(dErrors.CodeInvariantViolation,
			"template has unresolved placeholders: cannot finalize")
	}
	return res.Text, nil
}

// releaseClaim returns a claimed decision to its awaiting state after
// finalization fails. The pending history record goes with it.
func (s *Service) releaseClaim(ctx context.Context, letter *models.Letter, claimed, awaiting models.Status) {
	letter.History = letter.History[:len(letter.History)-1]
	letter.Status = awaiting
	if err := s.store.Update(ctx, letter, claimed); err != nil {
		s.logger.ErrorContext(ctx, "failed to release claimed decision",
			"letter_id", letter.ID,
			"error", err,
		)
	}
}

func translateUpdateErr(err error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "letter was decided by someone else; refresh and retry")
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "letter not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update letter")
}

// authorizeTier checks role capability and scope before any mutation.
func (s *Service) authorizeTier(session auth.Session, letter *models.Letter, tier int) error {
	capability := auth.CapDecideTier1
	if tier == 2 {
		capability = auth.CapDecideTier2
	}
	if !session.Role.Can(capability) {
		return dErrors.New(dErrors.CodeForbidden, "role cannot decide at this tier")
	}
	applicant := auth.Scope{Unit: letter.ApplicantUnit, SubUnit: letter.ApplicantSubUnit}
	if !session.Scope.Covers(applicant, tier) {
		return dErrors.New(dErrors.CodeForbidden, "letter is outside your assigned scope")
	}
	return nil
}

// Get returns one letter, visible to its applicant, to verifiers whose scope
// covers it, and to admins.
func (s *Service) Get(ctx context.Context, letterID id.LetterID) (*models.Letter, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing session context")
	}
	letter, err := s.getByID(ctx, letterID)
	if err != nil {
		return nil, err
	}
	if !s.canView(session, letter) {
		return nil, dErrors.New(dErrors.CodeForbidden, "letter is outside your assigned scope")
	}
	return letter, nil
}

// List returns letters visible to the session: applicants see their own,
// verifiers see their scope's queue, admins see everything.
func (s *Service) List(ctx context.Context, status models.Status) ([]*models.Letter, error) {
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing session context")
	}
	if status != "" && !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown status filter: "+string(status))
	}

	filter := store.Filter{Status: status}
	switch {
	case session.Role.Can(auth.CapViewAllLetters):
		// no scoping
	case session.Role.Can(auth.CapDecideTier1):
		filter.Unit = session.Scope.Unit
		filter.SubUnit = session.Scope.SubUnit
	case session.Role.Can(auth.CapDecideTier2):
		filter.Unit = session.Scope.Unit
	default:
		filter.ApplicantID = session.UserID
	}

	listed, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list letters")
	}
	return listed, nil
}

// Document returns the final rendered text and number. Only finalized
// letters have one.
func (s *Service) Document(ctx context.Context, letterID id.LetterID) (*models.Letter, error) {
	letter, err := s.Get(ctx, letterID)
	if err != nil {
		return nil, err
	}
	if letter.Status != models.StatusFinalized {
		return nil, dErrors.New(dErrors.CodeConflict, "letter has no final document yet")
	}
	return letter, nil
}

func (s *Service) getByID(ctx context.Context, letterID id.LetterID) (*models.Letter, error) {
	if letterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "letter ID is required")
	}
	letter, err := s.store.FindByID(ctx, letterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "letter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read letter")
	}
	return letter, nil
}

func (s *Service) canView(session auth.Session, letter *models.Letter) bool {
	if session.Role.Can(auth.CapViewAllLetters) {
		return true
	}
	if letter.ApplicantID == session.UserID {
		return true
	}
	applicant := auth.Scope{Unit: letter.ApplicantUnit, SubUnit: letter.ApplicantSubUnit}
	if session.Role.Can(auth.CapDecideTier1) && session.Scope.Covers(applicant, 1) {
		return true
	}
	if session.Role.Can(auth.CapDecideTier2) && session.Scope.Covers(applicant, 2) {
		return true
	}
	return false
}

func (s *Service) emit(ctx context.Context, letter *models.Letter, event audit.Event) {
	if s.auditor == nil {
		return
	}
	session, _ := auth.SessionFrom(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	event.ActorID = session.UserID.String()
	event.ActorRole = session.Role.Name()
	event.LetterID = letter.ID.String()
	event.Device = device.Summary(requestcontext.UserAgent(ctx))
	_ = s.auditor.Emit(ctx, event)
}
