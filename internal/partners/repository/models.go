package repository

import (
	"time"

	"leadrouting_backend/internal/category"

	"github.com/google/uuid"
)

// Partner is a routing destination for leads in one category.
// EndpointURL is the outbound delivery target; a nil value means the partner
// receives no webhook and deliveries to it complete without an outbound call.
type Partner struct {
	ID                uuid.UUID
	Name              string
	CategoryKey       category.Key
	ContactEmail      string
	ContactPhone      string
	EndpointURL       *string
	EndpointAuthToken *string
	Rating            float64
	TotalLeads        int
	ConvertedLeads    int
	PayoutAmountCents int64
	PayoutNetDays     int
	LastAssignedAt    *time.Time
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ConversionRate derives the historical conversion rate from the lead
// counters. Zero until the partner has received a lead.
func (p *Partner) ConversionRate() float64 {
	if p.TotalLeads == 0 {
		return 0
	}
	return float64(p.ConvertedLeads) / float64(p.TotalLeads)
}

// StatePartnerMapping binds a partner to a (region, category) pair with a
// priority. Lower priority wins. Region is a two-letter state code.
type StatePartnerMapping struct {
	ID          uuid.UUID
	Region      string
	CategoryKey category.Key
	PartnerID   uuid.UUID
	Priority    int
	Active      bool
	CreatedAt   time.Time
}

// MappedPartner is a partner joined with its mapping priority for a given
// (region, category). Distribution strategies select from these rows.
type MappedPartner struct {
	Partner
	Priority int
}
