package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/triplec/contact-api/internal/model"
	"github.com/triplec/contact-api/internal/repository"
)

// Field length bounds for contact-form input, counted in runes after
// trimming surrounding whitespace.
const (
	minNameLength         = 2
	maxNameLength         = 100
	minMessageLength      = 10
	maxMessageLength      = 5000
	maxOrganizationLength = 200
)

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo     repository.SubmissionRepository
	limiter  RateLimiter
	notifier Notifier
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService backed by the given
// repository, rate limiter and notifier.
func NewSubmissionService(repo repository.SubmissionRepository, limiter RateLimiter, notifier Notifier) SubmissionService {
	return &submissionServiceImpl{
		repo:     repo,
		limiter:  limiter,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit processes one contact-form submission:
//
//  1. Honeypot filter: bots that filled the hidden field get a
//     success-shaped result without any side effect, so they cannot tell
//     they were caught. Runs before the rate limit so probes do not burn a
//     legitimate client's quota behind shared NAT.
//  2. Rate limit per client IP.
//  3. Field validation.
//  4. Persistence (authoritative for the success response).
//  5. Asynchronous notification dispatch (best-effort).
func (s *submissionServiceImpl) Submit(ctx context.Context, req SubmitRequest, clientIP string) (*SubmitResult, error) {
	if strings.TrimSpace(req.Honeypot) != "" {
		slog.Warn("honeypot triggered", "email", req.Email, "ip", clientIP)
		return &SubmitResult{Silent: true}, nil
	}

	if !s.limiter.Allow(clientIP) {
		slog.Warn("rate limit exceeded", "ip", clientIP)
		return nil, ErrRateLimited
	}

	sub := &model.Submission{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Organization: strings.TrimSpace(req.Organization),
		Message:      strings.TrimSpace(req.Message),
		CreatedAt:    s.now().UTC(),
		IPAddress:    clientIP,
		Status:       model.StatusNew,
	}

	if err := validate(sub); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	slog.Info("new submission", "submission_id", sub.ID, "email", sub.Email)

	s.notifier.Dispatch(sub)

	return &SubmitResult{ID: sub.ID}, nil
}

func validate(sub *model.Submission) error {
	if n := len([]rune(sub.Name)); n < minNameLength || n > maxNameLength {
		return &ValidationError{Field: "name", Reason: "must be 2-100 characters"}
	}
	if !validEmail(sub.Email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len([]rune(sub.Organization)) > maxOrganizationLength {
		return &ValidationError{Field: "organization", Reason: "must be at most 200 characters"}
	}
	if n := len([]rune(sub.Message)); n < minMessageLength || n > maxMessageLength {
		return &ValidationError{Field: "message", Reason: "must be 10-5000 characters"}
	}
	return nil
}

// validEmail accepts bare addr-spec addresses only; "Name <a@b>" forms that
// net/mail would otherwise parse are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (s *submissionServiceImpl) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, error) {
	return s.repo.List(ctx, opts)
}

func (s *submissionServiceImpl) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *submissionServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	if !model.ValidStatus(status) {
		return false, &ValidationError{Field: "status", Reason: "must be one of new, contacted, resolved, spam"}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *submissionServiceImpl) Count(ctx context.Context, status string) (int, error) {
	return s.repo.Count(ctx, status)
}
