package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"suratdesa/internal/auth"
	"suratdesa/pkg/requestcontext"
)

// SessionValidator validates a bearer token into a session.
type SessionValidator interface {
	Validate(tokenString string) (auth.Session, error)
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// Session authenticates the request with a bearer token and injects the
// resolved session into the context. The role variant is resolved exactly
// once here; downstream code only asks the session what it can do.
func Session(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			session, err := validator.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.WarnContext(ctx, "session token rejected",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid session token")
				return
			}

			ctx = auth.WithSession(ctx, session)
			ctx = requestcontext.WithUserID(ctx, session.UserID)
			ctx = requestcontext.WithNationalID(ctx, session.NationalID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects requests whose session lacks the given capability.
// It must run after Session.
func RequireCapability(cap auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := auth.SessionFrom(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing session")
				return
			}
			if !session.Role.Can(cap) {
				writeJSONError(w, http.StatusForbidden, "forbidden", "role lacks required capability")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
