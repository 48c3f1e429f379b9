package repository

import (
	"time"

	"leadrouting_backend/internal/category"
	"leadrouting_backend/internal/distribution/strategy"

	"github.com/google/uuid"
)

// Rule configures which strategy distributes leads for a (region, category)
// pair. A missing rule means round-robin. An empty region applies to every
// region without a more specific rule.
type Rule struct {
	ID               uuid.UUID
	Region           string
	CategoryKey      category.Key
	Strategy         strategy.Name
	RatingWeight     float64
	ConversionWeight float64
	PriorityWeight   float64
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Weights returns the rule's score weights.
func (r *Rule) Weights() strategy.Weights {
	return strategy.Weights{
		Rating:     r.RatingWeight,
		Conversion: r.ConversionWeight,
		Priority:   r.PriorityWeight,
	}
}

// Contractor is a marketplace destination for general (non-report) leads.
type Contractor struct {
	ID             uuid.UUID
	Name           string
	CategoryKey    category.Key
	ContactEmail   string
	ContactPhone   string
	Region         string
	Rating         float64
	TotalLeads     int
	ConvertedLeads int
	Priority       int
	LastAssignedAt *time.Time
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConversionRate derives the historical conversion rate from the lead
// counters. Zero until the contractor has received a lead.
func (c *Contractor) ConversionRate() float64 {
	if c.TotalLeads == 0 {
		return 0
	}
	return float64(c.ConvertedLeads) / float64(c.TotalLeads)
}

// GeneralLeadStatus tracks a marketplace lead's lifecycle.
type GeneralLeadStatus string

const (
	GeneralLeadNew      GeneralLeadStatus = "new"
	GeneralLeadAssigned GeneralLeadStatus = "assigned"
)

// GeneralLead is a marketplace lead submitted outside the inspection-report
// flow. It carries its own contact details rather than referencing a report.
type GeneralLead struct {
	ID           uuid.UUID
	ContractorID *uuid.UUID
	Name         string
	Email        string
	Phone        string
	Region       string
	CategoryKey  category.Key
	Description  string
	Status       GeneralLeadStatus
	CreatedAt    time.Time
}
