// Package transport defines the HTTP request and response shapes for the
// partners module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreatePartnerRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=200"`
	CategoryKey       string  `json:"categoryKey" validate:"required"`
	ContactEmail      string  `json:"contactEmail" validate:"required,email"`
	ContactPhone      string  `json:"contactPhone" validate:"omitempty,max=30"`
	EndpointURL       *string `json:"endpointUrl" validate:"omitempty,url"`
	EndpointAuthToken *string `json:"endpointAuthToken" validate:"omitempty,max=500"`
	Rating            float64 `json:"rating" validate:"gte=0,lte=5"`
	PayoutAmountCents int64   `json:"payoutAmountCents" validate:"gte=0"`
	PayoutNetDays     int     `json:"payoutNetDays" validate:"gte=0,lte=365"`
}

type UpdatePartnerRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=200"`
	CategoryKey       string  `json:"categoryKey" validate:"required"`
	ContactEmail      string  `json:"contactEmail" validate:"required,email"`
	ContactPhone      string  `json:"contactPhone" validate:"omitempty,max=30"`
	EndpointURL       *string `json:"endpointUrl" validate:"omitempty,url"`
	EndpointAuthToken *string `json:"endpointAuthToken" validate:"omitempty,max=500"`
	Rating            float64 `json:"rating" validate:"gte=0,lte=5"`
	PayoutAmountCents int64   `json:"payoutAmountCents" validate:"gte=0"`
	PayoutNetDays     int     `json:"payoutNetDays" validate:"gte=0,lte=365"`
	Active            bool    `json:"active"`
}

type PartnerResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	CategoryKey       string     `json:"categoryKey"`
	CategoryLabel     string     `json:"categoryLabel"`
	ContactEmail      string     `json:"contactEmail"`
	ContactPhone      string     `json:"contactPhone,omitempty"`
	EndpointURL       *string    `json:"endpointUrl,omitempty"`
	Rating            float64    `json:"rating"`
	TotalLeads        int        `json:"totalLeads"`
	ConvertedLeads    int        `json:"convertedLeads"`
	ConversionRate    float64    `json:"conversionRate"`
	PayoutAmountCents int64      `json:"payoutAmountCents"`
	PayoutNetDays     int        `json:"payoutNetDays"`
	LastAssignedAt    *time.Time `json:"lastAssignedAt,omitempty"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PublicPartnerResponse is the reduced shape exposed on the unauthenticated
// by-category listing. Contact and payout details stay internal.
type PublicPartnerResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	CategoryKey   string    `json:"categoryKey"`
	CategoryLabel string    `json:"categoryLabel"`
	Rating        float64   `json:"rating"`
}

type CreateMappingRequest struct {
	Region      string    `json:"region" validate:"required,len=2,alpha"`
	CategoryKey string    `json:"categoryKey" validate:"required"`
	PartnerID   uuid.UUID `json:"partnerId" validate:"required"`
	Priority    int       `json:"priority" validate:"gte=0,lte=1000"`
}

type UpdateMappingRequest struct {
	Priority int  `json:"priority" validate:"gte=0,lte=1000"`
	Active   bool `json:"active"`
}

type MappingResponse struct {
	ID          uuid.UUID `json:"id"`
	Region      string    `json:"region"`
	CategoryKey string    `json:"categoryKey"`
	PartnerID   uuid.UUID `json:"partnerId"`
	Priority    int       `json:"priority"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}
