package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/triplec/contact-api/internal/model"
	"github.com/triplec/contact-api/internal/repository"
	"github.com/triplec/contact-api/internal/service"
	"github.com/triplec/contact-api/pkg/auth"
)

// SubmissionHandler handles contact-form submission and admin endpoints.
type SubmissionHandler struct {
	svc service.SubmissionService

	// retryAfter, when set, supplies the Retry-After duration for a
	// rate-limited client.
	retryAfter func(clientID string) time.Duration
}

// NewSubmissionHandler creates a SubmissionHandler. retryAfter may be nil.
func NewSubmissionHandler(svc service.SubmissionService, retryAfter func(string) time.Duration) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, retryAfter: retryAfter}
}

// submitRequest is the expected JSON body for POST /api/contact. The
// _gotcha field is the honeypot: hidden in the form, empty for humans.
type submitRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Message      string `json:"message"`
	Honeypot     string `json:"_gotcha"`
}

// contactResponse is the JSON response for POST /api/contact.
type contactResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID int64  `json:"submission_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Submit handles POST /api/contact.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, contactResponse{
			Success: false,
			Message: "Invalid request body.",
		})
		return
	}

	clientIP := ClientIP(r)
	res, err := h.svc.Submit(r.Context(), service.SubmitRequest{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Message:      req.Message,
		Honeypot:     req.Honeypot,
	}, clientIP)

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, contactResponse{
			Success: false,
			Message: verr.Error(),
		})
		return
	case errors.Is(err, service.ErrRateLimited):
		if h.retryAfter != nil {
			secs := int(h.retryAfter(clientIP).Seconds()) + 1
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		writeJSON(w, http.StatusTooManyRequests, contactResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	case err != nil:
		slog.Error("submission failed", "error", err, "ip", clientIP)
		writeJSON(w, http.StatusInternalServerError, contactResponse{
			Success: false,
			Message: "An error occurred processing your request. Please try again.",
		})
		return
	}

	if res.Silent {
		// Honeypot path: indistinguishable from a real acceptance.
		writeJSON(w, http.StatusOK, contactResponse{
			Success: true,
			Message: "Thank you for your message. We'll be in touch soon.",
		})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{
		Success:      true,
		Message:      "Thank you for your message. We'll be in touch within 24 hours.",
		SubmissionID: res.ID,
	})
}

// listResponse is the JSON response for GET /api/submissions.
type listResponse struct {
	Submissions []*model.Submission `json:"submissions"`
}

// List handles GET /api/submissions (admin only).
// Supports query params: status, limit (default 50, max 100), offset.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	opts := model.SubmissionListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  50,
		Offset: 0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	subs, err := h.svc.List(r.Context(), opts)
	if err != nil {
		slog.Error("list submissions failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if subs == nil {
		subs = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, listResponse{Submissions: subs})
}

// Count handles GET /api/submissions/count (admin only).
func (h *SubmissionHandler) Count(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	count, err := h.svc.Count(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("count submissions failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "count_failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Get handles GET /api/submissions/{id} (admin only).
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	sub, err := h.svc.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "submission_not_found"})
		return
	}
	if err != nil {
		slog.Error("get submission failed", "error", err, "submission_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get_failed"})
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// updateStatusRequest is the JSON body for PATCH /api/submissions/{id}/status.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/submissions/{id}/status (admin only).
func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	ok, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_status"})
		return
	}
	if err != nil {
		slog.Error("update submission status failed", "error", err, "submission_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "update_failed"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "submission_not_found"})
		return
	}

	slog.Info("submission status updated", "submission_id", id, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Status updated to " + req.Status,
		"submission_id": id,
	})
}

func (h *SubmissionHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !auth.IsAdminFromContext(r.Context()) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return false
	}
	return true
}
