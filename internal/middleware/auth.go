package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/transport"
)

// TokenResolver turns a bearer token back into the principal it was issued to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// resolved principal to the request context.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				transport.WriteError(w, http.StatusUnauthorized, "not authorized to access this route", nil)
				return
			}

			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUnauthenticated) {
					transport.WriteError(w, http.StatusUnauthorized, "not authorized to access this route", nil)
					return
				}
				transport.WriteError(w, http.StatusInternalServerError, "server error", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch err := auth.Authorize(auth.PrincipalFromContext(r.Context()), role); {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrForbidden):
				transport.WriteError(w, http.StatusForbidden, "user role is not authorized to access this route", nil)
			default:
				transport.WriteError(w, http.StatusUnauthorized, "not authorized to access this route", nil)
			}
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
