package middleware

import (
	"net/http"
	"strings"

	"github.com/placeradar/backend/internal/adapters/providers/auth"
)

// AuthTokenMiddleware extracts the caller's bearer token and carries it on the
// request context for forwarding to the upstream backend. No verification
// happens here: the upstream owns authentication, this service only relays.
func AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			r = r.WithContext(auth.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
