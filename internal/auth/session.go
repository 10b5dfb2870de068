package auth

import (
	"context"

	id "suratdesa/pkg/domain"
)

// Scope is the neighborhood scope an actor is authorized for.
// Tier-1 verifiers carry both unit and sub-unit; tier-2 verifiers carry only
// the unit and may act on any sub-unit within it.
type Scope struct {
	Unit    string
	SubUnit string
}

// Covers reports whether the actor scope covers an applicant scope for the
// given tier. Scope mismatch must be rejected before any state mutation.
func (s Scope) Covers(applicant Scope, tier int) bool {
	switch tier {
	case 1:
		return s.Unit == applicant.Unit && s.SubUnit == applicant.SubUnit
	case 2:
		return s.Unit == applicant.Unit
	default:
		return false
	}
}

// Session is the explicit per-request actor context. It is created once at
// token validation (login boundary) and passed to every operation; there are
// no ambient global reads of identity.
type Session struct {
	UserID     id.UserID
	NationalID id.NationalID
	Role       Role
	Scope      Scope
}

type sessionKey struct{}

// WithSession injects a session into the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom retrieves the session from the context.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
