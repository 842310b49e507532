package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/triplec/contact-api/internal/model"
)

// ErrRateLimited is returned by Submit when the client has exhausted its
// rate-limit window. Maps to 429 at the API boundary.
var ErrRateLimited = errors.New("too many requests")

// ValidationError describes a user-correctable input problem. Maps to 400
// at the API boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubmitRequest is the sanitized input to Submit. Honeypot carries the
// hidden form field real users never fill in.
type SubmitRequest struct {
	Name         string
	Email        string
	Organization string
	Message      string
	Honeypot     string
}

// SubmitResult is the outcome of an accepted submission. Silent marks the
// honeypot path: the caller must present success to the client even though
// nothing was stored.
type SubmitResult struct {
	ID     int64
	Silent bool
}

// RateLimiter gates submissions per client identifier.
type RateLimiter interface {
	Allow(clientID string) bool
}

// Notifier dispatches notification emails for a stored submission. Dispatch
// must not block and must not propagate failure; delivery is best-effort.
type Notifier interface {
	Dispatch(sub *model.Submission)
}

// SubmissionService defines the business logic for contact-form submissions.
type SubmissionService interface {
	// Submit runs the honeypot filter, rate limit, validation and
	// persistence pipeline, then dispatches notifications asynchronously.
	Submit(ctx context.Context, req SubmitRequest, clientIP string) (*SubmitResult, error)

	// List returns submissions according to the given options.
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, error)

	// GetByID returns a single submission, or repository.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Submission, error)

	// UpdateStatus changes a submission's status; false when id is unknown.
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)

	// Count returns the number of submissions matching the status filter.
	Count(ctx context.Context, status string) (int, error)
}
