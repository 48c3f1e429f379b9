package repository

import (
	"time"

	"leadrouting_backend/internal/category"

	"github.com/google/uuid"
)

// LeadProfile is the homeowner profile created when an inspection report is
// finalized. ReportID is the external report reference and is unique; a
// re-finalized report updates the profile in place.
type LeadProfile struct {
	ID            uuid.UUID
	ReportID      string
	HomeownerName string
	Email         string
	Phone         string
	AddressLine   string
	City          string
	Region        string
	PostalCode    string
	ClosingDate   *time.Time
	Issues        []string
	FinalizedAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MatrixEntry is one report×category cell. Every finalized report gets one
// row per category; seeding is idempotent and never overwrites homeowner
// edits on re-finalization.
type MatrixEntry struct {
	ID           uuid.UUID
	ReportID     string
	CategoryKey  category.Key
	IsInterested bool
	PartnerID    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EvidenceAsset references an inspection photo or document stored in object
// storage, attached to one report×category cell.
type EvidenceAsset struct {
	ID          uuid.UUID
	ReportID    string
	CategoryKey category.Key
	ObjectKey   string
	Caption     string
	CreatedAt   time.Time
}
