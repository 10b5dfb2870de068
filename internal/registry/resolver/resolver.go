package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"suratdesa/internal/audit"
	ltmodels "suratdesa/internal/lettertype/models"
	"suratdesa/internal/platform/device"
	"suratdesa/internal/registry/client"
	"suratdesa/internal/registry/metrics"
	"suratdesa/internal/registry/models"
	"suratdesa/internal/registry/tracer"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
	"suratdesa/pkg/requestcontext"
)

// Cache is the read-through layer in front of the registry client.
// Find returns sentinel.ErrNotFound on a miss.
type Cache interface {
	Find(ctx context.Context, nationalID id.NationalID) (*models.Record, error)
	Save(ctx context.Context, record *models.Record) error
}

// Resolution is the outcome of one autofill pass.
type Resolution struct {
	// Values holds suggestions for schema fields the registry could answer,
	// keyed by field name. Fields the caller already set are never included.
	Values map[string]string
	// Found is false when the identifier is not in the registry. That is a
	// "no data" condition, not an error; the form stays manual.
	Found bool
}

type Option func(*Resolver)

// Resolver reconciles a letter type's field schema against registry records.
// Lookups for the same identifier are coalesced so a burst of keystroke-
// triggered requests costs one upstream call.
type Resolver struct {
	client  client.Client
	cache   Cache
	tracer  tracer.Tracer
	auditor *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	group   singleflight.Group
}

func New(c client.Client, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		client: c,
		tracer: tracer.NewNoop(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithCache sets the read-through cache.
func WithCache(cache Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithTracer sets the tracer; defaults to no-op.
func WithTracer(t tracer.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithAuditor sets the audit publisher.
func WithAuditor(auditor *audit.Publisher) Option {
	return func(r *Resolver) {
		r.auditor = auditor
	}
}

// WithMetrics sets the metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// Resolve fills schema fields from the registry record for nationalID.
// A partial identifier is a no-op. Fields already holding a caller value are
// left untouched, and only fields declared in the schema are ever suggested.
// Registry transport failures come back as CodeUnavailable so callers can
// retry; a missing record is reported via Resolution.Found, not an error.
func (r *Resolver) Resolve(ctx context.Context, nationalID id.NationalID, fields []ltmodels.FieldSchema, current map[string]string) (*Resolution, error) {
	if !nationalID.IsComplete() {
		return &Resolution{Values: map[string]string{}, Found: false}, nil
	}

	ctx, span := r.tracer.Start(ctx, tracer.SpanAutofillResolve,
		tracer.String(tracer.AttrNationalID, tracer.HashNationalID(nationalID.String())),
	)

	start := time.Now()
	record, err := r.lookup(ctx, nationalID)
	if r.metrics != nil {
		r.metrics.ObserveLookupLatency(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			r.recordOutcome("not_found")
			span.SetAttributes(tracer.String(tracer.AttrOutcome, "not_found"))
			span.End(nil)
			return &Resolution{Values: map[string]string{}, Found: false}, nil
		}
		r.recordOutcome("unavailable")
		span.End(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry lookup failed")
	}

	values := reconcile(record, fields, current)
	r.recordOutcome("filled")
	if r.metrics != nil {
		r.metrics.ObserveFieldsFilled(float64(len(values)))
	}
	span.SetAttributes(
		tracer.String(tracer.AttrOutcome, "filled"),
		tracer.Int64(tracer.AttrFieldsFilled, int64(len(values))),
	)
	span.End(nil)

	r.emitResolved(ctx, nationalID, len(values))
	return &Resolution{Values: values, Found: true}, nil
}

// lookup goes cache first, then upstream, coalescing concurrent calls for
// the same identifier onto one flight.
func (r *Resolver) lookup(ctx context.Context, nationalID id.NationalID) (*models.Record, error) {
	if r.cache != nil {
		record, err := r.cache.Find(ctx, nationalID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "registry cache read failed",
				"error", err,
			)
		}
	}

	result, err, shared := r.group.Do(nationalID.String(), func() (any, error) {
		ctx, span := r.tracer.Start(ctx, tracer.SpanRegistryLookup)
		record, err := r.client.Lookup(ctx, nationalID)
		span.End(err)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			if err := r.cache.Save(ctx, record); err != nil {
				r.logger.WarnContext(ctx, "registry cache write failed",
					"error", err,
				)
			}
		}
		return record, nil
	})
	if shared && r.metrics != nil {
		r.metrics.RecordSharedLookup()
	}
	if err != nil {
		return nil, err
	}
	return result.(*models.Record), nil
}

// reconcile bridges the two vocabularies: loosely named schema fields on one
// side, canonical registry attributes on the other.
func reconcile(record *models.Record, fields []ltmodels.FieldSchema, current map[string]string) map[string]string {
	attributes := record.Attributes()
	values := make(map[string]string)
	for _, f := range fields {
		if current[f.Name] != "" {
			continue
		}
		attribute, ok := attributes[ltmodels.NormalizeName(f.Name)]
		if !ok || attribute == "" {
			continue
		}
		values[f.Name] = attribute
	}
	return values
}

func (r *Resolver) recordOutcome(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordLookup(outcome)
	}
}

func (r *Resolver) emitResolved(ctx context.Context, nationalID id.NationalID, filled int) {
	if r.auditor == nil || filled == 0 {
		return
	}
	_ = r.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		ActorID:   requestcontext.UserID(ctx).String(),
		Action:    audit.ActionAutofillResolved,
		Note:      tracer.HashNationalID(nationalID.String()),
		Device:    device.Summary(requestcontext.UserAgent(ctx)),
	})
}
