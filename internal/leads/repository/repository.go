// Package repository provides data access for lead profiles, the interest
// matrix, and evidence assets.
package repository

import (
	"context"
	"errors"
	"fmt"

	"leadrouting_backend/internal/category"
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

// UpsertProfile inserts or refreshes the profile keyed by report_id. Contact
// and address fields follow the latest finalization; the row id is stable.
func (r *Repository) UpsertProfile(ctx context.Context, p *LeadProfile) error {
	query := `
		INSERT INTO lead_profiles (id, report_id, homeowner_name, email, phone,
			address_line, city, region, postal_code, closing_date, issues, finalized_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (report_id) DO UPDATE SET
			homeowner_name = EXCLUDED.homeowner_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address_line = EXCLUDED.address_line,
			city = EXCLUDED.city,
			region = EXCLUDED.region,
			postal_code = EXCLUDED.postal_code,
			closing_date = EXCLUDED.closing_date,
			issues = EXCLUDED.issues,
			finalized_at = EXCLUDED.finalized_at,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.ReportID, p.HomeownerName, p.Email, p.Phone,
		p.AddressLine, p.City, p.Region, p.PostalCode, p.ClosingDate,
		p.Issues, p.FinalizedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert lead profile: %w", err)
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, reportID string) (*LeadProfile, error) {
	query := `
		SELECT id, report_id, homeowner_name, email, phone, address_line, city,
			region, postal_code, closing_date, issues, finalized_at, created_at, updated_at
		FROM lead_profiles
		WHERE report_id = $1`

	var p LeadProfile
	err := r.pool.QueryRow(ctx, query, reportID).Scan(
		&p.ID, &p.ReportID, &p.HomeownerName, &p.Email, &p.Phone,
		&p.AddressLine, &p.City, &p.Region, &p.PostalCode, &p.ClosingDate,
		&p.Issues, &p.FinalizedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lead profile not found")
		}
		return nil, fmt.Errorf("get lead profile: %w", err)
	}
	return &p, nil
}

// SeedMatrixEntry inserts one report×category cell if it does not exist yet.
// Existing cells keep their interest and partner choices.
func (r *Repository) SeedMatrixEntry(ctx context.Context, e *MatrixEntry) error {
	query := `
		INSERT INTO lead_matrix_entries (id, report_id, category_key, is_interested, partner_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (report_id, category_key) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, e.ID, e.ReportID, e.CategoryKey, e.IsInterested, e.PartnerID)
	if err != nil {
		return fmt.Errorf("seed matrix entry: %w", err)
	}
	return nil
}

func (r *Repository) GetMatrix(ctx context.Context, reportID string) ([]*MatrixEntry, error) {
	query := `
		SELECT id, report_id, category_key, is_interested, partner_id, created_at, updated_at
		FROM lead_matrix_entries
		WHERE report_id = $1`

	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("get matrix: %w", err)
	}
	defer rows.Close()

	var entries []*MatrixEntry
	for rows.Next() {
		var e MatrixEntry
		err := rows.Scan(&e.ID, &e.ReportID, &e.CategoryKey, &e.IsInterested,
			&e.PartnerID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan matrix entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *Repository) GetMatrixEntry(ctx context.Context, reportID string, key category.Key) (*MatrixEntry, error) {
	query := `
		SELECT id, report_id, category_key, is_interested, partner_id, created_at, updated_at
		FROM lead_matrix_entries
		WHERE report_id = $1 AND category_key = $2`

	var e MatrixEntry
	err := r.pool.QueryRow(ctx, query, reportID, key).Scan(
		&e.ID, &e.ReportID, &e.CategoryKey, &e.IsInterested,
		&e.PartnerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("matrix entry not found")
		}
		return nil, fmt.Errorf("get matrix entry: %w", err)
	}
	return &e, nil
}

func (r *Repository) UpdateInterest(ctx context.Context, reportID string, key category.Key, interested bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_matrix_entries
		SET is_interested = $3, updated_at = now()
		WHERE report_id = $1 AND category_key = $2`,
		reportID, key, interested)
	if err != nil {
		return fmt.Errorf("update interest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("matrix entry not found")
	}
	return nil
}

func (r *Repository) UpdatePartner(ctx context.Context, reportID string, key category.Key, partnerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lead_matrix_entries
		SET partner_id = $3, updated_at = now()
		WHERE report_id = $1 AND category_key = $2`,
		reportID, key, partnerID)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("matrix entry not found")
	}
	return nil
}

// ReplaceEvidenceAssets swaps the asset set for one cell in a single
// transaction. Finalization always sends the full set.
func (r *Repository) ReplaceEvidenceAssets(ctx context.Context, reportID string, key category.Key, assets []*EvidenceAsset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace assets: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM lead_evidence_assets WHERE report_id = $1 AND category_key = $2`,
		reportID, key)
	if err != nil {
		return fmt.Errorf("delete evidence assets: %w", err)
	}

	for _, a := range assets {
		_, err = tx.Exec(ctx, `
			INSERT INTO lead_evidence_assets (id, report_id, category_key, object_key, caption)
			VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.ReportID, a.CategoryKey, a.ObjectKey, a.Caption)
		if err != nil {
			return fmt.Errorf("insert evidence asset: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) ListEvidenceAssets(ctx context.Context, reportID string) ([]*EvidenceAsset, error) {
	query := `
		SELECT id, report_id, category_key, object_key, caption, created_at
		FROM lead_evidence_assets
		WHERE report_id = $1
		ORDER BY category_key, created_at`

	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("list evidence assets: %w", err)
	}
	defer rows.Close()

	var assets []*EvidenceAsset
	for rows.Next() {
		var a EvidenceAsset
		err := rows.Scan(&a.ID, &a.ReportID, &a.CategoryKey, &a.ObjectKey, &a.Caption, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan evidence asset: %w", err)
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}
