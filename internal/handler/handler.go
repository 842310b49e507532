package handler

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Pinger is the subset of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db             Pinger
	allowedOrigins []string
}

func New(db Pinger, allowedOrigins []string) *Handler {
	return &Handler{db: db, allowedOrigins: allowedOrigins}
}

// CORS allows cross-origin requests from the configured origins only.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range h.allowedOrigins {
			if origin == allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				break
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the client address used as the rate-limit identifier:
// the first X-Forwarded-For entry when present, else the connection peer.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
