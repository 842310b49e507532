package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/triplec/contact-api/internal/model"
)

// timeLayout is a fixed-width UTC timestamp format so that lexicographic
// comparison of stored created_at values matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SubmissionRepository defines the persistence interface for contact-form
// submissions. It is defined here (in repository) to avoid an import cycle
// with service.
type SubmissionRepository interface {
	// Save inserts a new submission row and populates sub.ID from the
	// autoincrement key. The row is durable before Save returns.
	Save(ctx context.Context, sub *model.Submission) error

	// GetByID returns the submission with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Submission, error)

	// List returns submissions filtered by status and paginated by
	// limit/offset, newest first.
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, error)

	// UpdateStatus sets the status of a submission. It returns (false, nil)
	// when no submission with that id exists.
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)

	// Count returns the number of submissions, optionally restricted to an
	// exact status match.
	Count(ctx context.Context, status string) (int, error)

	// ListByEmail returns all submissions from an email address, newest first.
	ListByEmail(ctx context.Context, email string) ([]*model.Submission, error)

	// ListByIP returns submissions from an IP address created within the
	// trailing window of hours, newest first.
	ListByIP(ctx context.Context, ipAddress string, hours int) ([]*model.Submission, error)
}

// SQLiteSubmissionRepository is the SQLite implementation of
// SubmissionRepository.
type SQLiteSubmissionRepository struct {
	db *sql.DB
}

// NewSQLiteSubmissionRepository creates a SQLiteSubmissionRepository backed
// by the given database handle.
func NewSQLiteSubmissionRepository(db *sql.DB) *SQLiteSubmissionRepository {
	return &SQLiteSubmissionRepository{db: db}
}

// Ensure SQLiteSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*SQLiteSubmissionRepository)(nil)

const submissionColumns = `id, name, email, COALESCE(organization, ''), message, created_at, ip_address, status`

func (r *SQLiteSubmissionRepository) Save(ctx context.Context, sub *model.Submission) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (name, email, organization, message, created_at, ip_address, status)
		 VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?)`,
		sub.Name, sub.Email, sub.Organization, sub.Message,
		sub.CreatedAt.UTC().Format(timeLayout), sub.IPAddress, sub.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read submission id: %w", err)
	}
	sub.ID = id
	return nil
}

func (r *SQLiteSubmissionRepository) GetByID(ctx context.Context, id int64) (*model.Submission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %d: %w", id, err)
	}
	return sub, nil
}

func (r *SQLiteSubmissionRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	var args []any

	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, opts.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	return r.queryList(ctx, query, args...)
}

func (r *SQLiteSubmissionRepository) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, fmt.Errorf("failed to update submission %d status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *SQLiteSubmissionRepository) Count(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

func (r *SQLiteSubmissionRepository) ListByEmail(ctx context.Context, email string) ([]*model.Submission, error) {
	return r.queryList(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE email = ? ORDER BY created_at DESC, id DESC`, email)
}

func (r *SQLiteSubmissionRepository) ListByIP(ctx context.Context, ipAddress string, hours int) ([]*model.Submission, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour).Format(timeLayout)
	return r.queryList(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE ip_address = ? AND created_at > ? ORDER BY created_at DESC, id DESC`,
		ipAddress, cutoff)
}

func (r *SQLiteSubmissionRepository) queryList(ctx context.Context, query string, args ...any) ([]*model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submission rows: %w", err)
	}
	return subs, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*model.Submission, error) {
	var sub model.Submission
	var createdAt string
	if err := s.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Organization,
		&sub.Message, &createdAt, &sub.IPAddress, &sub.Status); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	sub.CreatedAt = t
	return &sub, nil
}
