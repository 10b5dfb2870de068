package service

import (
	"context"
	"errors"
	"log/slog"

	"suratdesa/internal/audit"
	"suratdesa/internal/lettertype/metrics"
	"suratdesa/internal/lettertype/models"
	"suratdesa/internal/lettertype/store"
	"suratdesa/internal/platform/device"
	"suratdesa/internal/renderer"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
	"suratdesa/pkg/requestcontext"
)

type Option func(*Service)

// Service manages the administrator-defined letter type catalogue.
type Service struct {
	store   store.Store
	auditor *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(s store.Store, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:   s,
		auditor: auditor,
		logger:  logger,
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

// CreateInput carries everything an administrator supplies for a new type.
type CreateInput struct {
	Name                 string
	Code                 string
	NumberFormat         string
	OpeningStatement     string
	Template             string
	Fields               []models.FieldSchema
	RequiresVerification bool
}

// Create registers a new letter type. The code must be unique and the number
// format must carry a sequence token.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.LetterType, error) {
	letterType, err := models.NewLetterType(
		id.NewLetterTypeID(),
		in.Name,
		in.Code,
		in.NumberFormat,
		in.OpeningStatement,
		in.Fields,
		in.RequiresVerification,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	letterType.Template = in.Template

	if err := s.store.Save(ctx, letterType); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "letter type code already in use: "+in.Code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save letter type")
	}

	s.emitSaved(ctx, letterType, "created")
	if s.metrics != nil {
		s.metrics.IncrementTypesSaved("create")
	}
	return letterType, nil
}

// UpdateInput mirrors CreateInput; zero-value activity is controlled via
// Deactivate, not here.
type UpdateInput struct {
	Name                 string
	Code                 string
	NumberFormat         string
	OpeningStatement     string
	Template             string
	Fields               []models.FieldSchema
	RequiresVerification bool
}

// Update replaces the catalogue entry. Letters already submitted keep the
// values they snapshotted, so schema edits never touch them.
func (s *Service) Update(ctx context.Context, typeID id.LetterTypeID, in UpdateInput) (*models.LetterType, error) {
	existing, err := s.getByID(ctx, typeID)
	if err != nil {
		return nil, err
	}

	updated, err := models.NewLetterType(
		existing.ID,
		in.Name,
		in.Code,
		in.NumberFormat,
		in.OpeningStatement,
		in.Fields,
		in.RequiresVerification,
		existing.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	updated.Template = in.Template
	updated.Active = existing.Active

	if err := s.store.Update(ctx, updated); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "letter type not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update letter type")
	}

	s.emitSaved(ctx, updated, "updated")
	if s.metrics != nil {
		s.metrics.IncrementTypesSaved("update")
	}
	return updated, nil
}

// Deactivate retires a type from new submissions without deleting it, so
// letters that reference it keep resolving.
func (s *Service) Deactivate(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error) {
	existing, err := s.getByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if !existing.Active {
		return existing, nil
	}
	existing.Active = false
	if err := s.store.Update(ctx, existing); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate letter type")
	}
	s.emitSaved(ctx, existing, "deactivated")
	if s.metrics != nil {
		s.metrics.IncrementTypesSaved("deactivate")
	}
	return existing, nil
}

// Get returns one letter type by ID.
func (s *Service) Get(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error) {
	return s.getByID(ctx, typeID)
}

// List returns the catalogue, optionally including deactivated types.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]*models.LetterType, error) {
	listed, err := s.store.List(ctx, includeInactive)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list letter types")
	}
	return listed, nil
}

// Preview renders a template draft with sample values so administrators can
// check placeholder wiring before saving. It touches no stored state.
func (s *Service) Preview(ctx context.Context, template, opening string, values map[string]string) renderer.Result {
	res := renderer.Render(template, opening, values, renderer.ModePreview)
	if s.metrics != nil {
		s.metrics.ObserveUnresolvedPerPreview(float64(len(res.Unresolved)))
	}
	return res
}

// ApplyPreset swaps a canned body into the draft template, guarding against
// silent overwrites of hand-written bodies.
func (s *Service) ApplyPreset(_ context.Context, current, preset string, confirmOverwrite bool) (string, error) {
	return renderer.ApplyPreset(current, preset, confirmOverwrite)
}

func (s *Service) getByID(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error) {
	if typeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "letter type ID is required")
	}
	letterType, err := s.store.FindByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "letter type not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read letter type")
	}
	return letterType, nil
}

func (s *Service) emitSaved(ctx context.Context, letterType *models.LetterType, change string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		ActorID:   requestcontext.UserID(ctx).String(),
		Action:    audit.ActionLetterTypeSaved,
		Note:      letterType.Code + " " + change,
		Device:    device.Summary(requestcontext.UserAgent(ctx)),
	})
}

// Resolve validates a submitted value map against the type's schema: required
// fields present, choice values among the declared choices, unknown keys
// rejected. Letter submission runs through this before anything persists.
func Resolve(letterType *models.LetterType, values map[string]string) error {
	for name := range values {
		if _, ok := letterType.FieldByName(name); !ok {
			return dErrors.New(dErrors.CodeValidation, "unknown field: "+name)
		}
	}
	for _, f := range letterType.Fields {
		value, present := values[f.Name]
		if f.Required && (!present || value == "") {
			return dErrors.New(dErrors.CodeValidation, "missing required field: "+f.Name)
		}
		if present && value != "" && f.Kind == models.FieldChoice && !f.HasChoice(value) {
			return dErrors.New(dErrors.CodeValidation, "value for "+f.Name+" is not an allowed choice")
		}
	}
	return nil
}
