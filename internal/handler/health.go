package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	serviceName    = "Triple C Contact API"
	serviceVersion = "1.0.0"
)

// Root handles GET / with basic service information.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": serviceName,
		"status":  "operational",
		"version": serviceVersion,
	})
}

type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health and reports datastore reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Error("database health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:    "degraded",
			Database:  "unhealthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Database:  "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
