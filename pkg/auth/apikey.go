// Package auth provides the admin capability check for the contact API:
// a static API key presented in the X-API-Key header.
package auth

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"net/http"
)

// HeaderAPIKey is the request header carrying the admin API key.
const HeaderAPIKey = "X-API-Key"

type contextKey string

const isAdminKey contextKey = "is_admin"

// WithIsAdmin stores the admin capability flag in the context.
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// IsAdminFromContext returns whether the request passed the admin API-key
// check. Returns false when not set.
func IsAdminFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(isAdminKey).(bool)
	return v
}

// RequireAPIKey returns middleware that rejects requests whose X-API-Key
// header does not match apiKey, using a constant-time comparison. On match
// the admin capability is recorded in the request context.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(HeaderAPIKey)
			if apiKey == "" || !hmac.Equal([]byte(presented), []byte(apiKey)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_api_key"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIsAdmin(r.Context(), true)))
		})
	}
}
