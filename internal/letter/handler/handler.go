package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"suratdesa/internal/letter/metrics"
	"suratdesa/internal/letter/models"
	"suratdesa/internal/transport/http/shared"
	respond "suratdesa/internal/transport/http/shared/json"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
	"suratdesa/pkg/requestcontext"
	"suratdesa/pkg/validation"
)

// Service defines the interface for letter lifecycle operations.
type Service interface {
	Submit(ctx context.Context, letterTypeID id.LetterTypeID, values map[string]string) (*models.Letter, error)
	Approve(ctx context.Context, letterID id.LetterID, note string) (*models.Letter, error)
	Reject(ctx context.Context, letterID id.LetterID, note string) (*models.Letter, error)
	Get(ctx context.Context, letterID id.LetterID) (*models.Letter, error)
	List(ctx context.Context, status models.Status) ([]*models.Letter, error)
	Document(ctx context.Context, letterID id.LetterID) (*models.Letter, error)
}

// Handler handles letter lifecycle endpoints.
type Handler struct {
	logger  *slog.Logger
	letters Service
	metrics *metrics.Metrics
}

// New creates a letter Handler.
func New(letters Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		letters: letters,
		metrics: metrics,
	}
}

// Register registers the letter routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/letters", h.handleSubmit)
	r.Get("/letters", h.handleList)
	r.Get("/letters/{id}", h.handleGet)
	r.Get("/letters/{id}/document", h.handleDocument)
	r.Post("/letters/{id}/approve", h.handleApprove)
	r.Post("/letters/{id}/reject", h.handleReject)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode submit request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.sanitize()
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	typeID, err := id.ParseLetterTypeID(req.LetterTypeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	letter, err := h.letters.Submit(ctx, typeID, req.Values)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to submit letter",
			"request_id", requestcontext.RequestID(ctx),
			"letter_type_id", typeID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, formatLetter(letter))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.letters.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.letters.Reject)
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request, decide func(context.Context, id.LetterID, string) (*models.Letter, error)) {
	ctx := r.Context()
	start := time.Now()
	defer func() {
		if h.metrics != nil {
			h.metrics.ObserveDecisionLatency(time.Since(start).Seconds())
		}
	}()

	letterID, ok := h.parseLetterID(w, r)
	if !ok {
		return
	}

	var req DecisionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
		req.sanitize()
	}

	letter, err := decide(ctx, letterID, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "letter decision rejected",
			"request_id", requestcontext.RequestID(ctx),
			"letter_id", letterID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, formatLetter(letter))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	letterID, ok := h.parseLetterID(w, r)
	if !ok {
		return
	}

	letter, err := h.letters.Get(ctx, letterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, formatLetter(letter))
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	letterID, ok := h.parseLetterID(w, r)
	if !ok {
		return
	}

	letter, err := h.letters.Document(ctx, letterID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, DocumentResponse{
		ID:     letter.ID.String(),
		Number: letter.Number,
		Text:   letter.DocumentText,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := models.Status(r.URL.Query().Get("status"))

	listed, err := h.letters.List(ctx, status)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list letters",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	res := ListResponse{Letters: make([]LetterResponse, 0, len(listed))}
	for _, letter := range listed {
		res.Letters = append(res.Letters, formatLetter(letter))
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) parseLetterID(w http.ResponseWriter, r *http.Request) (id.LetterID, bool) {
	letterID, err := id.ParseLetterID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return id.LetterID{}, false
	}
	return letterID, true
}
