package middleware

import (
	"net/http"
	"strings"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/rs/zerolog"
)

// RequireAuth resolves the caller from the Authorization bearer token (or
// X-API-Token header) and stores the user in the request context. Requests
// without a valid token are rejected.
func RequireAuth(users ports.UserRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByToken(r.Context(), token)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to resolve API token")
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "invalid API token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects callers that do not hold the admin role. Must run
// after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if !user.IsAdmin() {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("X-API-Token")
}
