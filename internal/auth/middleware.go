package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crowdprep/interview-bank/pkg/http/respond"
)

type callerKey struct{}

// Caller is the verified principal attached to a request.
type Caller struct {
	ID   string
	Role string
}

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// Middleware parses an optional bearer token and injects the caller into the
// request context. Requests without an Authorization header pass through
// anonymously; a malformed or invalid token is rejected outright.
func Middleware(tm *TokenManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respond.Error(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := tm.Parse(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			caller := Caller{ID: claims.Subject, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
		})
	}
}

// RequireAuth rejects requests that carry no authenticated caller.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CallerFromContext(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
