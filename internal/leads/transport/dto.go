// Package transport defines the HTTP request and response shapes for the
// leads module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// FinalizeReportRequest is the ingest payload sent when an inspection report
// is finalized. Re-finalizing the same reportId refreshes the profile without
// disturbing homeowner matrix edits.
type FinalizeReportRequest struct {
	ReportID       string                 `json:"reportId" validate:"required,max=100"`
	HomeownerName  string                 `json:"homeownerName" validate:"required,max=200"`
	Email          string                 `json:"email" validate:"required,email"`
	Phone          string                 `json:"phone" validate:"omitempty,max=30"`
	AddressLine    string                 `json:"addressLine" validate:"required,max=300"`
	City           string                 `json:"city" validate:"required,max=100"`
	Region         string                 `json:"region" validate:"required,len=2,alpha"`
	PostalCode     string                 `json:"postalCode" validate:"required,max=20"`
	ClosingDate    *time.Time             `json:"closingDate"`
	Issues         []string               `json:"issues" validate:"omitempty,dive,max=500"`
	EvidenceAssets []EvidenceAssetRequest `json:"evidenceAssets" validate:"omitempty,dive"`
}

type EvidenceAssetRequest struct {
	CategoryKey string `json:"categoryKey" validate:"required"`
	ObjectKey   string `json:"objectKey" validate:"required,max=500"`
	Caption     string `json:"caption" validate:"omitempty,max=300"`
}

type UpdateInterestRequest struct {
	IsInterested *bool `json:"isInterested" validate:"required"`
}

type UpdatePartnerRequest struct {
	PartnerID uuid.UUID `json:"partnerId" validate:"required"`
}

// OptInRequest is the portal consent form for one category. Omitting the
// partner uses the cell's currently assigned partner.
type OptInRequest struct {
	CategoryKey string     `json:"categoryKey" validate:"required"`
	PartnerID   *uuid.UUID `json:"partnerId" validate:"omitempty"`
	Channels    []string   `json:"channels" validate:"required,min=1,dive,oneof=email phone sms"`
	Type        string     `json:"type" validate:"required,oneof=global_email one_to_one"`
}

type MatrixPartner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Rating float64   `json:"rating"`
}

type MatrixAsset struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// MatrixConsent is a consent row echoed on a matrix entry.
type MatrixConsent struct {
	ID        uuid.UUID  `json:"id"`
	Channel   string     `json:"channel"`
	Type      string     `json:"type"`
	PartnerID *uuid.UUID `json:"partnerId,omitempty"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MatrixSubmission is a submission row echoed on a matrix entry.
type MatrixSubmission struct {
	ID         uuid.UUID  `json:"id"`
	PartnerID  uuid.UUID  `json:"partnerId"`
	Status     string     `json:"status"`
	RetryCount int        `json:"retryCount"`
	ExternalID *string    `json:"externalId,omitempty"`
	QueuedAt   time.Time  `json:"queuedAt"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
}

type MatrixEntryResponse struct {
	CategoryKey      string             `json:"categoryKey"`
	CategoryLabel    string             `json:"categoryLabel"`
	IsInterested     bool               `json:"isInterested"`
	Partner          *MatrixPartner     `json:"partner,omitempty"`
	Eligible         bool               `json:"eligible"`
	CanEditInterest  bool               `json:"canEditInterest"`
	CanChangePartner bool               `json:"canChangePartner"`
	MatchedIssues    []string           `json:"matchedIssues,omitempty"`
	EvidenceAssets   []MatrixAsset      `json:"evidenceAssets,omitempty"`
	Consents         []MatrixConsent    `json:"consents,omitempty"`
	Submissions      []MatrixSubmission `json:"submissions,omitempty"`
}

type MatrixResponse struct {
	ReportID      string                `json:"reportId"`
	HomeownerName string                `json:"homeownerName"`
	Region        string                `json:"region"`
	ClosingDate   *time.Time            `json:"closingDate,omitempty"`
	FinalizedAt   time.Time             `json:"finalizedAt"`
	Entries       []MatrixEntryResponse `json:"entries"`
}

type ProfileResponse struct {
	ID            uuid.UUID  `json:"id"`
	ReportID      string     `json:"reportId"`
	HomeownerName string     `json:"homeownerName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	AddressLine   string     `json:"addressLine"`
	City          string     `json:"city"`
	Region        string     `json:"region"`
	PostalCode    string     `json:"postalCode"`
	ClosingDate   *time.Time `json:"closingDate,omitempty"`
	Issues        []string   `json:"issues,omitempty"`
	FinalizedAt   time.Time  `json:"finalizedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
