// Package repository provides data access for partners and their
// state/category routing mappings.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const partnerColumns = `id, name, category_key, contact_email, contact_phone,
	endpoint_url, endpoint_auth_token, rating, total_leads, converted_leads,
	payout_amount_cents, payout_net_days, last_assigned_at, active,
	created_at, updated_at`

func scanPartner(row pgx.Row) (*Partner, error) {
	var p Partner
	err := row.Scan(
		&p.ID, &p.Name, &p.CategoryKey, &p.ContactEmail, &p.ContactPhone,
		&p.EndpointURL, &p.EndpointAuthToken, &p.Rating, &p.TotalLeads,
		&p.ConvertedLeads, &p.PayoutAmountCents, &p.PayoutNetDays,
		&p.LastAssignedAt, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *Partner) error {
	query := `
		INSERT INTO partners (id, name, category_key, contact_email, contact_phone,
			endpoint_url, endpoint_auth_token, rating,
			payout_amount_cents, payout_net_days, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.CategoryKey, p.ContactEmail, p.ContactPhone,
		p.EndpointURL, p.EndpointAuthToken, p.Rating,
		p.PayoutAmountCents, p.PayoutNetDays, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Partner, error) {
	query := fmt.Sprintf(`SELECT %s FROM partners WHERE id = $1`, partnerColumns)

	p, err := scanPartner(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("partner not found")
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// List returns partners, optionally filtered by category and active state.
func (r *Repository) List(ctx context.Context, categoryKey category.Key, activeOnly bool) ([]*Partner, error) {
	query := fmt.Sprintf(`SELECT %s FROM partners WHERE 1=1`, partnerColumns)
	args := []any{}

	if categoryKey != "" {
		args = append(args, categoryKey)
		query += fmt.Sprintf(` AND category_key = $%d`, len(args))
	}
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []*Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (r *Repository) Update(ctx context.Context, p *Partner) error {
	query := `
		UPDATE partners
		SET name = $2, category_key = $3, contact_email = $4, contact_phone = $5,
			endpoint_url = $6, endpoint_auth_token = $7, rating = $8,
			payout_amount_cents = $9, payout_net_days = $10,
			active = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.CategoryKey, p.ContactEmail, p.ContactPhone,
		p.EndpointURL, p.EndpointAuthToken, p.Rating,
		p.PayoutAmountCents, p.PayoutNetDays, p.Active,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("partner not found")
		}
		return fmt.Errorf("update partner: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a partner. Existing submissions keep their reference.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE partners SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate partner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("partner not found")
	}
	return nil
}

// MarkAssigned records that a partner just received an assignment, advancing
// the round-robin cursor and the lead counter.
func (r *Repository) MarkAssigned(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE partners
		SET last_assigned_at = $2, total_leads = total_leads + 1, updated_at = now()
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark partner assigned: %w", err)
	}
	return nil
}

// RecordConversion counts a lead the partner converted to a sale.
func (r *Repository) RecordConversion(ctx context.Context, id uuid.UUID) (*Partner, error) {
	query := fmt.Sprintf(`
		UPDATE partners
		SET converted_leads = converted_leads + 1, updated_at = now()
		WHERE id = $1
		RETURNING %s`, partnerColumns)

	p, err := scanPartner(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("partner not found")
		}
		return nil, fmt.Errorf("record partner conversion: %w", err)
	}
	return p, nil
}

// ListCandidates returns the active partners mapped to (region, category),
// ordered by mapping priority. This is the candidate pool every distribution
// strategy selects from.
func (r *Repository) ListCandidates(ctx context.Context, region string, categoryKey category.Key) ([]*MappedPartner, error) {
	query := fmt.Sprintf(`
		SELECT %s, m.priority
		FROM state_partner_mappings m
		JOIN partners p ON p.id = m.partner_id
		WHERE m.region = $1 AND m.category_key = $2
			AND m.active = true AND p.active = true
		ORDER BY m.priority, p.name`,
		prefixColumns("p", partnerColumns))

	rows, err := r.pool.Query(ctx, query, region, categoryKey)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*MappedPartner
	for rows.Next() {
		var mp MappedPartner
		err := rows.Scan(
			&mp.ID, &mp.Name, &mp.CategoryKey, &mp.ContactEmail, &mp.ContactPhone,
			&mp.EndpointURL, &mp.EndpointAuthToken, &mp.Rating, &mp.TotalLeads,
			&mp.ConvertedLeads, &mp.PayoutAmountCents, &mp.PayoutNetDays,
			&mp.LastAssignedAt, &mp.Active, &mp.CreatedAt, &mp.UpdatedAt,
			&mp.Priority,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, &mp)
	}
	return candidates, rows.Err()
}

func (r *Repository) CreateMapping(ctx context.Context, m *StatePartnerMapping) error {
	query := `
		INSERT INTO state_partner_mappings (id, region, category_key, partner_id, priority, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		m.ID, m.Region, m.CategoryKey, m.PartnerID, m.Priority, m.Active,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create mapping: %w", err)
	}
	return nil
}

func (r *Repository) ListMappings(ctx context.Context, region string, categoryKey category.Key) ([]*StatePartnerMapping, error) {
	query := `
		SELECT id, region, category_key, partner_id, priority, active, created_at
		FROM state_partner_mappings
		WHERE 1=1`
	args := []any{}

	if region != "" {
		args = append(args, region)
		query += fmt.Sprintf(` AND region = $%d`, len(args))
	}
	if categoryKey != "" {
		args = append(args, categoryKey)
		query += fmt.Sprintf(` AND category_key = $%d`, len(args))
	}
	query += ` ORDER BY region, category_key, priority`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*StatePartnerMapping
	for rows.Next() {
		var m StatePartnerMapping
		err := rows.Scan(&m.ID, &m.Region, &m.CategoryKey, &m.PartnerID, &m.Priority, &m.Active, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, &m)
	}
	return mappings, rows.Err()
}

func (r *Repository) UpdateMapping(ctx context.Context, m *StatePartnerMapping) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE state_partner_mappings SET priority = $2, active = $3 WHERE id = $1`,
		m.ID, m.Priority, m.Active)
	if err != nil {
		return fmt.Errorf("update mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapping not found")
	}
	return nil
}

func (r *Repository) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM state_partner_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapping not found")
	}
	return nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

