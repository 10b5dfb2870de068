// Package tracer is a small tracing abstraction for registry autofill.
// It keeps OpenTelemetry out of the resolver's signature so tests run with
// the no-op implementation.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// HashNationalID returns a truncated SHA-256 of the national ID so traces
// can be correlated without exposing the identifier itself.
func HashNationalID(nationalID string) string {
	if nationalID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(nationalID))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the autofill resolver.
const (
	SpanAutofillResolve = "registry.autofill"
	SpanRegistryLookup  = "registry.lookup"
)

// Attribute keys used by the autofill resolver.
const (
	AttrNationalID   = "national_id"
	AttrCacheHit     = "cache.hit"
	AttrFieldsFilled = "fields.filled"
	AttrOutcome      = "outcome"
)
