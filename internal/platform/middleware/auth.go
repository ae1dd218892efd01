package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"pandacare/internal/platform/httputil"
	dErrors "pandacare/pkg/domain-errors"
)

// TokenValidator validates bearer tokens and extracts their subject.
// Validate collapses every failure mode to false; Subject is only
// called after Validate succeeds.
type TokenValidator interface {
	Validate(token string) bool
	Subject(token string) (int64, error)
}

type contextKeyUserID struct{}

// ContextKeyUserID is exported for use in handlers.
var ContextKeyUserID = contextKeyUserID{}

// GetUserID retrieves the authenticated user ID from the context.
// The second return is false when no identity was established.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int64)
	return id, ok
}

// RequireAuth rejects requests without a valid bearer token and makes
// the authenticated subject available on the request context. Protected
// handlers downstream can assume a validated subject is present.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "

			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || !validator.Validate(token) {
				logger.WarnContext(r.Context(), "unauthorized access - missing or invalid token",
					"request_id", GetRequestID(r.Context()),
				)
				writeUnauthorized(w)
				return
			}

			subject, err := validator.Subject(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - unreadable subject",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid bearer token"))
}
