// Package repository provides data access for distribution rules, marketplace
// contractors, and general leads.
package repository

import (
	"context"
	"errors"
	"fmt"
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

const ruleColumns = `id, region, category_key, strategy, rating_weight,
	conversion_weight, priority_weight, active, created_at, updated_at`

// FindRule returns the active rule for (region, category), preferring a
// region-specific rule over a region-wildcard one. Returns nil when no rule
// matches; callers fall back to round-robin.
func (r *Repository) FindRule(ctx context.Context, region string, key category.Key) (*Rule, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM distribution_rules
		WHERE category_key = $2 AND active = true AND region IN ($1, '')
		ORDER BY region DESC
		LIMIT 1`, ruleColumns)

	rule, err := scanRule(r.pool.QueryRow(ctx, query, region, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find rule: %w", err)
	}
	return rule, nil
}

func (r *Repository) CreateRule(ctx context.Context, rule *Rule) error {
	query := `
		INSERT INTO distribution_rules (id, region, category_key, strategy,
			rating_weight, conversion_weight, priority_weight, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		rule.ID, rule.Region, rule.CategoryKey, rule.Strategy,
		rule.RatingWeight, rule.ConversionWeight, rule.PriorityWeight, rule.Active,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

func (r *Repository) ListRules(ctx context.Context) ([]*Rule, error) {
	query := fmt.Sprintf(`SELECT %s FROM distribution_rules ORDER BY region, category_key`, ruleColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *Repository) UpdateRule(ctx context.Context, rule *Rule) error {
	query := `
		UPDATE distribution_rules
		SET strategy = $2, rating_weight = $3, conversion_weight = $4,
			priority_weight = $5, active = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		rule.ID, rule.Strategy, rule.RatingWeight, rule.ConversionWeight,
		rule.PriorityWeight, rule.Active,
	).Scan(&rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("rule not found")
		}
		return fmt.Errorf("update rule: %w", err)
	}
	return nil
}

func (r *Repository) DeleteRule(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM distribution_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("rule not found")
	}
	return nil
}

func scanRule(row pgx.Row) (*Rule, error) {
	var rule Rule
	err := row.Scan(
		&rule.ID, &rule.Region, &rule.CategoryKey, &rule.Strategy,
		&rule.RatingWeight, &rule.ConversionWeight, &rule.PriorityWeight,
		&rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

const contractorColumns = `id, name, category_key, contact_email, contact_phone,
	region, rating, total_leads, converted_leads, priority, last_assigned_at,
	active, created_at, updated_at`

func (r *Repository) CreateContractor(ctx context.Context, c *Contractor) error {
	query := `
		INSERT INTO contractors (id, name, category_key, contact_email, contact_phone,
			region, rating, priority, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.CategoryKey, c.ContactEmail, c.ContactPhone,
		c.Region, c.Rating, c.Priority, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create contractor: %w", err)
	}
	return nil
}

func (r *Repository) GetContractor(ctx context.Context, id uuid.UUID) (*Contractor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contractors WHERE id = $1`, contractorColumns)

	c, err := scanContractor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("contractor not found")
		}
		return nil, fmt.Errorf("get contractor: %w", err)
	}
	return c, nil
}

func (r *Repository) ListContractors(ctx context.Context, region string, key category.Key, activeOnly bool) ([]*Contractor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contractors WHERE 1=1`, contractorColumns)
	args := []any{}

	if region != "" {
		args = append(args, region)
		query += fmt.Sprintf(` AND region = $%d`, len(args))
	}
	if key != "" {
		args = append(args, key)
		query += fmt.Sprintf(` AND category_key = $%d`, len(args))
	}
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY region, priority, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contractors: %w", err)
	}
	defer rows.Close()

	var contractors []*Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}

func (r *Repository) UpdateContractor(ctx context.Context, c *Contractor) error {
	query := `
		UPDATE contractors
		SET name = $2, category_key = $3, contact_email = $4, contact_phone = $5,
			region = $6, rating = $7, priority = $8,
			active = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.CategoryKey, c.ContactEmail, c.ContactPhone,
		c.Region, c.Rating, c.Priority, c.Active,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("contractor not found")
		}
		return fmt.Errorf("update contractor: %w", err)
	}
	return nil
}

func (r *Repository) MarkContractorAssigned(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE contractors
		SET last_assigned_at = $2, total_leads = total_leads + 1, updated_at = now()
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark contractor assigned: %w", err)
	}
	return nil
}

// RecordContractorConversion counts a marketplace lead the contractor closed.
func (r *Repository) RecordContractorConversion(ctx context.Context, id uuid.UUID) (*Contractor, error) {
	query := fmt.Sprintf(`
		UPDATE contractors
		SET converted_leads = converted_leads + 1, updated_at = now()
		WHERE id = $1
		RETURNING %s`, contractorColumns)

	c, err := scanContractor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("contractor not found")
		}
		return nil, fmt.Errorf("record contractor conversion: %w", err)
	}
	return c, nil
}

func scanContractor(row pgx.Row) (*Contractor, error) {
	var c Contractor
	err := row.Scan(
		&c.ID, &c.Name, &c.CategoryKey, &c.ContactEmail, &c.ContactPhone,
		&c.Region, &c.Rating, &c.TotalLeads, &c.ConvertedLeads, &c.Priority,
		&c.LastAssignedAt, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateGeneralLead(ctx context.Context, l *GeneralLead) error {
	query := `
		INSERT INTO general_leads (id, contractor_id, name, email, phone,
			region, category_key, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		l.ID, l.ContractorID, l.Name, l.Email, l.Phone,
		l.Region, l.CategoryKey, l.Description, l.Status,
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create general lead: %w", err)
	}
	return nil
}

func (r *Repository) ListGeneralLeads(ctx context.Context, key category.Key) ([]*GeneralLead, error) {
	query := `
		SELECT id, contractor_id, name, email, phone, region, category_key,
			description, status, created_at
		FROM general_leads WHERE 1=1`
	args := []any{}

	if key != "" {
		args = append(args, key)
		query += fmt.Sprintf(` AND category_key = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list general leads: %w", err)
	}
	defer rows.Close()

	var leads []*GeneralLead
	for rows.Next() {
		var l GeneralLead
		err := rows.Scan(&l.ID, &l.ContractorID, &l.Name, &l.Email, &l.Phone,
			&l.Region, &l.CategoryKey, &l.Description, &l.Status, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan general lead: %w", err)
		}
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}
