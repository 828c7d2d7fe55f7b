package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// contextKey keeps the principal key private to this package.
type contextKey string

const principalKey = contextKey("principal")

// PrincipalFromContext returns the Principal stored by Middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Middleware creates a middleware for protecting routes. It extracts the
// bearer token, resolves it and passes the Principal down via context.
func Middleware(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try to get the token from the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			// 2. If not in header, fall back to the cookie
			if tokenStr == "" {
				if cookie, err := r.Cookie("token"); err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			principal, err := resolver.Resolve(tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, apperr.ErrAccountInactive):
					http.Error(w, "Account is inactive", http.StatusForbidden)
				case errors.Is(err, apperr.ErrUnauthenticated):
					http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				default:
					log.Error().Err(err).Msg("Failed to resolve token")
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that rejects principals without the
// given role. Must run after Middleware.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}
			if err := AuthorizeRole(principal, role); err != nil {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
