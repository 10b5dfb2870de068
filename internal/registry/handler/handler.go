package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	ltmodels "suratdesa/internal/lettertype/models"
	"suratdesa/internal/registry/resolver"
	"suratdesa/internal/transport/http/shared"
	respond "suratdesa/internal/transport/http/shared/json"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
	"suratdesa/pkg/requestcontext"
	"suratdesa/pkg/strutil"
	"suratdesa/pkg/validation"
)

// LetterTypes loads field schemas for autofill requests.
type LetterTypes interface {
	Get(ctx context.Context, typeID id.LetterTypeID) (*ltmodels.LetterType, error)
}

// Resolver runs the registry reconciliation pass.
type Resolver interface {
	Resolve(ctx context.Context, nationalID id.NationalID, fields []ltmodels.FieldSchema, current map[string]string) (*resolver.Resolution, error)
}

// Handler handles the autofill endpoint.
type Handler struct {
	logger      *slog.Logger
	resolver    Resolver
	letterTypes LetterTypes
}

// New creates an autofill Handler.
func New(r Resolver, letterTypes LetterTypes, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		resolver:    r,
		letterTypes: letterTypes,
	}
}

// Register registers the autofill route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/letters/autofill", h.handleResolve)
}

// ResolveRequest asks for registry suggestions against one letter type's
// schema. Values carries what the applicant has typed so far.
type ResolveRequest struct {
	NationalID   string            `json:"national_id" validate:"required,notblank"`
	LetterTypeID string            `json:"letter_type_id" validate:"required,notblank"`
	Values       map[string]string `json:"values"`
}

// ResolveResponse returns suggestions plus whether the registry knew the
// identifier at all.
type ResolveResponse struct {
	Values map[string]string `json:"values"`
	Found  bool              `json:"found"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	strutil.TrimStrings(&req.NationalID, &req.LetterTypeID)
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	typeID, err := id.ParseLetterTypeID(req.LetterTypeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	letterType, err := h.letterTypes.Get(ctx, typeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// Partial identifiers resolve to an empty suggestion set, not an error;
	// the client calls this on every keystroke past the length threshold.
	res, err := h.resolver.Resolve(ctx, id.NationalID(req.NationalID), letterType.Fields, req.Values)
	if err != nil {
		h.logger.WarnContext(ctx, "autofill resolution failed",
			"request_id", requestcontext.RequestID(ctx),
			"letter_type_id", typeID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, ResolveResponse{Values: res.Values, Found: res.Found})
}
