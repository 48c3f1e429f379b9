// Package transport defines the HTTP request and response shapes for the
// consent module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type RecordConsentRequest struct {
	ReportID    string     `json:"reportId" validate:"required,max=100"`
	CategoryKey string     `json:"categoryKey" validate:"required"`
	PartnerID   *uuid.UUID `json:"partnerId" validate:"omitempty"`
	Channels    []string   `json:"channels" validate:"required,min=1,dive,oneof=email phone sms"`
	Type        string     `json:"type" validate:"required,oneof=global_email one_to_one"`
}

// UnsubscribeRequest revokes either one consent row by id, or every matching
// row for a report (category and channel narrow the match when set).
type UnsubscribeRequest struct {
	ConsentID   *uuid.UUID `json:"consentId" validate:"omitempty"`
	ReportID    string     `json:"reportId" validate:"required_without=ConsentID,max=100"`
	CategoryKey string     `json:"categoryKey" validate:"omitempty"`
	Channel     string     `json:"channel" validate:"omitempty,oneof=email phone sms"`
	Reason      string     `json:"reason" validate:"omitempty,max=500"`
}

type ConsentResponse struct {
	ID           uuid.UUID  `json:"id"`
	ReportID     string     `json:"reportId"`
	CategoryKey  string     `json:"categoryKey"`
	PartnerID    *uuid.UUID `json:"partnerId,omitempty"`
	Channel      string     `json:"channel"`
	Type         string     `json:"type"`
	Revoked      bool       `json:"revoked"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty"`
	RevokeReason *string    `json:"revokeReason,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}
