// Package httptransport assembles the HTTP surface: middleware stack, health
// probes, metrics, and the capability-gated API routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"suratdesa/internal/auth"
	letterhandler "suratdesa/internal/letter/handler"
	lettertypehandler "suratdesa/internal/lettertype/handler"
	"suratdesa/internal/platform/health"
	"suratdesa/internal/platform/metrics"
	"suratdesa/internal/platform/middleware"
	registryhandler "suratdesa/internal/registry/handler"
)

// Handlers collects the per-vertical HTTP handlers the router mounts.
type Handlers struct {
	Health      *health.Handler
	LetterTypes *lettertypehandler.Handler
	Letters     *letterhandler.Handler
	Autofill    *registryhandler.Handler
}

// NewRouter wires all endpoints behind the middleware stack. Health and
// metrics stay outside the session gate; everything under /api/v1 requires a
// valid bearer token, with authoring and autofill routes further gated by
// capability.
func NewRouter(h Handlers, sessions middleware.SessionValidator, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	h.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(sessions, logger))

		h.LetterTypes.Register(r)
		h.Letters.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(auth.CapManageLetterTypes))
			h.LetterTypes.RegisterAdmin(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(auth.CapResolveAutofill))
			h.Autofill.Register(r)
		})
	})

	return r
}
