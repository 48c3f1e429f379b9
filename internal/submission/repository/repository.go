// Package repository provides data access for lead submissions.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadrouting_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const submissionColumns = `id, report_id, category_key, partner_id,
	idempotency_key, status, retry_count, last_error, external_id,
	payout_amount_cents, payout_due_date, queued_at, sent_at, updated_at`

// CreateQueued inserts a queued submission unless one already exists for the
// idempotency key. The unique index makes the check-then-insert atomic under
// concurrent enqueues. Returns false when the key was already taken.
func (r *Repository) CreateQueued(ctx context.Context, s *Submission) (bool, error) {
	query := `
		INSERT INTO lead_submissions (id, report_id, category_key, partner_id,
			idempotency_key, status, payout_amount_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING queued_at`

	err := r.pool.QueryRow(ctx, query,
		s.ID, s.ReportID, s.CategoryKey, s.PartnerID,
		s.IdempotencyKey, StatusQueued, s.PayoutAmountCents,
	).Scan(&s.QueuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create queued submission: %w", err)
	}
	s.Status = StatusQueued
	return true, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM lead_submissions WHERE id = $1`, submissionColumns)

	s, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("submission not found")
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return s, nil
}

// ListQueued returns queued submissions oldest first, capped at limit.
func (r *Repository) ListQueued(ctx context.Context, limit int) ([]*Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lead_submissions
		WHERE status = $1
		ORDER BY queued_at
		LIMIT $2`, submissionColumns)

	return r.querySubmissions(ctx, query, StatusQueued, limit)
}

func (r *Repository) ListByReport(ctx context.Context, reportID string) ([]*Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lead_submissions
		WHERE report_id = $1
		ORDER BY queued_at DESC`, submissionColumns)

	return r.querySubmissions(ctx, query, reportID)
}

// MarkSent finalizes a successful delivery with the partner's external id and
// the computed payout due date.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, externalID string, payoutDue *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_submissions
		SET status = $2, external_id = $3, payout_due_date = $4,
			sent_at = now(), last_error = NULL, updated_at = now()
		WHERE id = $1`,
		id, StatusSent, externalID, payoutDue)
	if err != nil {
		return fmt.Errorf("mark submission sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("submission not found")
	}
	return nil
}

// MarkRetry records a failed attempt, keeping the submission queued for the
// next sweep.
func (r *Repository) MarkRetry(ctx context.Context, id uuid.UUID, lastError string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_submissions
		SET retry_count = retry_count + 1, last_error = $2, updated_at = now()
		WHERE id = $1`,
		id, lastError)
	if err != nil {
		return fmt.Errorf("mark submission retry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("submission not found")
	}
	return nil
}

// MarkFailed moves a submission to its terminal failed state.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_submissions
		SET status = $2, retry_count = retry_count + 1, last_error = $3, updated_at = now()
		WHERE id = $1`,
		id, StatusFailed, lastError)
	if err != nil {
		return fmt.Errorf("mark submission failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("submission not found")
	}
	return nil
}

func (r *Repository) querySubmissions(ctx context.Context, query string, args ...any) ([]*Submission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var s Submission
	err := row.Scan(
		&s.ID, &s.ReportID, &s.CategoryKey, &s.PartnerID,
		&s.IdempotencyKey, &s.Status, &s.RetryCount, &s.LastError,
		&s.ExternalID, &s.PayoutAmountCents, &s.PayoutDueDate,
		&s.QueuedAt, &s.SentAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
