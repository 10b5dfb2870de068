package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"suratdesa/internal/lettertype/models"
	"suratdesa/internal/lettertype/service"
	"suratdesa/internal/renderer"
	"suratdesa/internal/transport/http/shared"
	respond "suratdesa/internal/transport/http/shared/json"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
	"suratdesa/pkg/requestcontext"
	"suratdesa/pkg/validation"
)

// Service defines the interface for letter type catalogue operations.
type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.LetterType, error)
	Update(ctx context.Context, typeID id.LetterTypeID, in service.UpdateInput) (*models.LetterType, error)
	Deactivate(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error)
	Get(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error)
	List(ctx context.Context, includeInactive bool) ([]*models.LetterType, error)
	Preview(ctx context.Context, template, opening string, values map[string]string) renderer.Result
	ApplyPreset(ctx context.Context, current, preset string, confirmOverwrite bool) (string, error)
}

// Handler handles letter type catalogue endpoints.
type Handler struct {
	logger      *slog.Logger
	letterTypes Service
}

// New creates a letter type Handler.
func New(letterTypes Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		letterTypes: letterTypes,
	}
}

// Register registers the catalogue read routes. Any authenticated session may
// browse letter types; applicants need them to submit.
func (h *Handler) Register(r chi.Router) {
	r.Get("/letter-types", h.handleList)
	r.Get("/letter-types/{id}", h.handleGet)
}

// RegisterAdmin registers the authoring routes. The caller wraps these in the
// manage-letter-types capability check.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/letter-types", h.handleCreate)
	r.Get("/letter-types/presets", h.handleListPresets)
	r.Post("/letter-types/preview", h.handlePreview)
	r.Post("/letter-types/preset", h.handleApplyPreset)
	r.Put("/letter-types/{id}", h.handleUpdate)
	r.Post("/letter-types/{id}/deactivate", h.handleDeactivate)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := h.decodeSaveRequest(w, r)
	if !ok {
		return
	}

	letterType, err := h.letterTypes.Create(ctx, service.CreateInput{
		Name:                 req.Name,
		Code:                 req.Code,
		NumberFormat:         req.NumberFormat,
		OpeningStatement:     req.OpeningStatement,
		Template:             req.Template,
		Fields:               req.fields(),
		RequiresVerification: req.RequiresVerification,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create letter type",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, formatLetterType(letterType))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, ok := h.parseTypeID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeSaveRequest(w, r)
	if !ok {
		return
	}

	letterType, err := h.letterTypes.Update(ctx, typeID, service.UpdateInput{
		Name:                 req.Name,
		Code:                 req.Code,
		NumberFormat:         req.NumberFormat,
		OpeningStatement:     req.OpeningStatement,
		Template:             req.Template,
		Fields:               req.fields(),
		RequiresVerification: req.RequiresVerification,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update letter type",
			"request_id", requestcontext.RequestID(ctx),
			"letter_type_id", typeID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, formatLetterType(letterType))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, ok := h.parseTypeID(w, r)
	if !ok {
		return
	}

	letterType, err := h.letterTypes.Deactivate(ctx, typeID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to deactivate letter type",
			"request_id", requestcontext.RequestID(ctx),
			"letter_type_id", typeID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, formatLetterType(letterType))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, ok := h.parseTypeID(w, r)
	if !ok {
		return
	}

	letterType, err := h.letterTypes.Get(ctx, typeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, formatLetterType(letterType))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	listed, err := h.letterTypes.List(ctx, includeInactive)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list letter types",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	res := ListResponse{LetterTypes: make([]LetterTypeResponse, 0, len(listed))}
	for _, letterType := range listed {
		res.LetterTypes = append(res.LetterTypes, formatLetterType(letterType))
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	res := h.letterTypes.Preview(ctx, req.Template, req.OpeningStatement, req.Values)
	respond.WriteJSON(w, http.StatusOK, formatPreview(res))
}

func (h *Handler) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ApplyPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	body, err := h.letterTypes.ApplyPreset(ctx, req.CurrentTemplate, req.Preset, req.ConfirmOverwrite)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, PresetBodyResponse{Template: body})
}

func (h *Handler) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	respond.WriteJSON(w, http.StatusOK, PresetsResponse{Presets: renderer.PresetNames()})
}

func (h *Handler) decodeSaveRequest(w http.ResponseWriter, r *http.Request) (*SaveLetterTypeRequest, bool) {
	ctx := r.Context()
	var req SaveLetterTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode letter type request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	req.sanitize()
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return nil, false
	}
	return &req, true
}

func (h *Handler) parseTypeID(w http.ResponseWriter, r *http.Request) (id.LetterTypeID, bool) {
	typeID, err := id.ParseLetterTypeID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return id.LetterTypeID{}, false
	}
	return typeID, true
}
