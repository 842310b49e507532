package model

import "time"

// Submission statuses. A submission starts as "new" and may be moved freely
// between any of these values by an admin.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusResolved  = "resolved"
	StatusSpam      = "spam"
)

// ValidStatus reports whether s is one of the recognized submission statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusResolved, StatusSpam:
		return true
	}
	return false
}

// Submission represents a contact-form submission. ID is assigned once at
// creation and never reused; CreatedAt and IPAddress are immutable after
// creation; only Status changes, via an explicit update.
type Submission struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	IPAddress    string    `json:"ip_address"`
	Status       string    `json:"status"`
}

// SubmissionListOptions carries filter and pagination parameters for listing
// submissions.
type SubmissionListOptions struct {
	// Status filters by exact status match; empty string returns all.
	Status string
	Limit  int
	Offset int
}
