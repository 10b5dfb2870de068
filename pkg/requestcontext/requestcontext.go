// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Context keys and getter/setter functions live here for values that are set
// by middleware but consumed by services. Keeping this package free of
// net/http dependencies lets services import only what they need.
//
// Usage in services (read values):
//
//	userID := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithUserID(ctx, userID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "suratdesa/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	userIDKey      struct{}
	nationalIDKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	userAgentKey   struct{}
	clientIPKey    struct{}
)

// UserID retrieves the authenticated user ID from the context.
// Returns the zero value (nil UUID) if not set.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(userIDKey{}).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects a user ID into the context.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// NationalID retrieves the authenticated user's registry identifier.
func NationalID(ctx context.Context) id.NationalID {
	if nid, ok := ctx.Value(nationalIDKey{}).(id.NationalID); ok {
		return nid
	}
	return ""
}

// WithNationalID injects the registry identifier into the context.
func WithNationalID(ctx context.Context, nid id.NationalID) context.Context {
	return context.WithValue(ctx, nationalIDKey{}, nid)
}

// RequestID retrieves the request correlation ID.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a request correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request time from the context, falling back to time.Now().
// Tests inject a fixed time with WithTime for deterministic behavior.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed request time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// UserAgent retrieves the raw user agent string.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// WithUserAgent injects the raw user agent string into the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, ua)
}

// ClientIP retrieves the remote client address.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects the remote client address into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}
