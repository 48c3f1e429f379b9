// Package repository provides append-only data access for consent records.
package repository

import (
	"context"
	"errors"
	"fmt"

	"leadrouting_backend/internal/category"

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

const consentColumns = `id, report_id, category_key, partner_id, channel,
	consent_type, revoked, revoked_at, revoke_reason, client_ip, user_agent,
	referer, timezone, gpc_signal, session_id, created_at`

// Append inserts a new consent row. Consents are never updated in place.
func (r *Repository) Append(ctx context.Context, c *Consent) error {
	query := `
		INSERT INTO consents (id, report_id, category_key, partner_id, channel,
			consent_type, client_ip, user_agent, referer, timezone, gpc_signal, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.ReportID, c.CategoryKey, c.PartnerID, c.Channel, c.Type,
		c.Capture.ClientIP, c.Capture.UserAgent, c.Capture.Referer,
		c.Capture.Timezone, c.Capture.GPCSignal, c.Capture.SessionID,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("append consent: %w", err)
	}
	return nil
}

// ListByReport returns every consent row for a report, newest first, including
// revoked rows. The eligibility functions filter as needed.
func (r *Repository) ListByReport(ctx context.Context, reportID string) ([]*Consent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM consents
		WHERE report_id = $1
		ORDER BY created_at DESC`, consentColumns)

	return r.queryConsents(ctx, query, reportID)
}

// ListByReportCategory returns every consent row for one (report, category).
func (r *Repository) ListByReportCategory(ctx context.Context, reportID string, key category.Key) ([]*Consent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM consents
		WHERE report_id = $1 AND category_key = $2
		ORDER BY created_at DESC`, consentColumns)

	return r.queryConsents(ctx, query, reportID, key)
}

// RevokeByID flags one consent row by id. Returns nil when the row does not
// exist or is already revoked; revocation is idempotent.
func (r *Repository) RevokeByID(ctx context.Context, id uuid.UUID, reason string) (*Consent, error) {
	query := fmt.Sprintf(`
		UPDATE consents
		SET revoked = true, revoked_at = now(), revoke_reason = NULLIF($2, '')
		WHERE id = $1 AND revoked = false
		RETURNING %s`, consentColumns)

	c, err := scanConsent(r.pool.QueryRow(ctx, query, id, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("revoke consent: %w", err)
	}
	return c, nil
}

// Revoke flags all non-revoked consents matching the filter. A zero filter
// field matches everything; this supports both channel-level and blanket
// unsubscribes. Returns the ids of the rows revoked.
func (r *Repository) Revoke(ctx context.Context, reportID string, key category.Key, channel Channel, reason string) ([]uuid.UUID, error) {
	query := `
		UPDATE consents
		SET revoked = true, revoked_at = now(), revoke_reason = NULLIF($2, '')
		WHERE report_id = $1 AND revoked = false`
	args := []any{reportID, reason}

	if key != "" {
		args = append(args, key)
		query += fmt.Sprintf(` AND category_key = $%d`, len(args))
	}
	if channel != "" {
		args = append(args, channel)
		query += fmt.Sprintf(` AND channel = $%d`, len(args))
	}
	query += ` RETURNING id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("revoke consents: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan revoked id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) queryConsents(ctx context.Context, query string, args ...any) ([]*Consent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query consents: %w", err)
	}
	defer rows.Close()

	var consents []*Consent
	for rows.Next() {
		c, err := scanConsent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		consents = append(consents, c)
	}
	return consents, rows.Err()
}

func scanConsent(row pgx.Row) (*Consent, error) {
	var c Consent
	err := row.Scan(
		&c.ID, &c.ReportID, &c.CategoryKey, &c.PartnerID, &c.Channel,
		&c.Type, &c.Revoked, &c.RevokedAt, &c.RevokeReason,
		&c.Capture.ClientIP, &c.Capture.UserAgent, &c.Capture.Referer,
		&c.Capture.Timezone, &c.Capture.GPCSignal, &c.Capture.SessionID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
