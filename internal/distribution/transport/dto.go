// Package transport defines the HTTP request and response shapes for the
// distribution module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateRuleRequest struct {
	Region           string  `json:"region" validate:"omitempty,len=2,alpha"`
	CategoryKey      string  `json:"categoryKey" validate:"required"`
	Strategy         string  `json:"strategy" validate:"required,oneof=round_robin score priority_list"`
	RatingWeight     float64 `json:"ratingWeight" validate:"gte=0,lte=1"`
	ConversionWeight float64 `json:"conversionWeight" validate:"gte=0,lte=1"`
	PriorityWeight   float64 `json:"priorityWeight" validate:"gte=0,lte=1"`
}

type UpdateRuleRequest struct {
	Strategy         string  `json:"strategy" validate:"required,oneof=round_robin score priority_list"`
	RatingWeight     float64 `json:"ratingWeight" validate:"gte=0,lte=1"`
	ConversionWeight float64 `json:"conversionWeight" validate:"gte=0,lte=1"`
	PriorityWeight   float64 `json:"priorityWeight" validate:"gte=0,lte=1"`
	Active           bool    `json:"active"`
}

type RuleResponse struct {
	ID               uuid.UUID `json:"id"`
	Region           string    `json:"region"`
	CategoryKey      string    `json:"categoryKey"`
	Strategy         string    `json:"strategy"`
	RatingWeight     float64   `json:"ratingWeight"`
	ConversionWeight float64   `json:"conversionWeight"`
	PriorityWeight   float64   `json:"priorityWeight"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type CreateContractorRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	CategoryKey  string  `json:"categoryKey" validate:"required"`
	ContactEmail string  `json:"contactEmail" validate:"required,email"`
	ContactPhone string  `json:"contactPhone" validate:"omitempty,max=30"`
	Region       string  `json:"region" validate:"required,len=2,alpha"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	Priority     int     `json:"priority" validate:"gte=0,lte=1000"`
}

type UpdateContractorRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	CategoryKey  string  `json:"categoryKey" validate:"required"`
	ContactEmail string  `json:"contactEmail" validate:"required,email"`
	ContactPhone string  `json:"contactPhone" validate:"omitempty,max=30"`
	Region       string  `json:"region" validate:"required,len=2,alpha"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	Priority     int     `json:"priority" validate:"gte=0,lte=1000"`
	Active       bool    `json:"active"`
}

type ContractorResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	CategoryKey    string     `json:"categoryKey"`
	ContactEmail   string     `json:"contactEmail"`
	ContactPhone   string     `json:"contactPhone,omitempty"`
	Region         string     `json:"region"`
	Rating         float64    `json:"rating"`
	TotalLeads     int        `json:"totalLeads"`
	ConvertedLeads int        `json:"convertedLeads"`
	ConversionRate float64    `json:"conversionRate"`
	Priority       int        `json:"priority"`
	LastAssignedAt *time.Time `json:"lastAssignedAt,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CreateGeneralLeadRequest is the public marketplace intake form.
type CreateGeneralLeadRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Region      string `json:"region" validate:"required,len=2,alpha"`
	CategoryKey string `json:"categoryKey" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type GeneralLeadResponse struct {
	ID           uuid.UUID  `json:"id"`
	ContractorID *uuid.UUID `json:"contractorId,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Region       string     `json:"region"`
	CategoryKey  string     `json:"categoryKey"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}
