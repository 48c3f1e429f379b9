// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadrouting_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Routing Domain Events
// =============================================================================

// ReportFinalized is published after a finalized report has been ingested and
// its lead matrix seeded.
type ReportFinalized struct {
	BaseEvent
	ReportID string `json:"reportId"`
	Region   string `json:"region"`
}

func (e ReportFinalized) EventName() string { return "leads.report.finalized" }

// ConsentRecorded is published when a homeowner consent row is appended.
type ConsentRecorded struct {
	BaseEvent
	ConsentID   uuid.UUID `json:"consentId"`
	ReportID    string    `json:"reportId"`
	CategoryKey string    `json:"categoryKey"`
	PartnerID   uuid.UUID `json:"partnerId"`
	Channel     string    `json:"channel"`
}

func (e ConsentRecorded) EventName() string { return "consent.recorded" }

// ConsentRevoked is published when a consent row is flagged revoked.
type ConsentRevoked struct {
	BaseEvent
	ConsentID   uuid.UUID `json:"consentId"`
	ReportID    string    `json:"reportId"`
	CategoryKey string    `json:"categoryKey"`
	Channel     string    `json:"channel"`
}

func (e ConsentRevoked) EventName() string { return "consent.revoked" }

// SubmissionQueued is published when a new lead submission enters the queue.
// The scheduler subscribes to trigger an immediate delivery attempt instead
// of waiting for the next worker sweep.
type SubmissionQueued struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	ReportID     string    `json:"reportId"`
	CategoryKey  string    `json:"categoryKey"`
	PartnerID    uuid.UUID `json:"partnerId"`
}

func (e SubmissionQueued) EventName() string { return "submission.queued" }

// SubmissionSent is published when a submission reaches the terminal sent state.
type SubmissionSent struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	ReportID     string    `json:"reportId"`
	CategoryKey  string    `json:"categoryKey"`
	PartnerID    uuid.UUID `json:"partnerId"`
	ExternalID   string    `json:"externalId"`
}

func (e SubmissionSent) EventName() string { return "submission.sent" }

// SubmissionFailed is published when a submission exhausts its retries and
// reaches the terminal failed state.
type SubmissionFailed struct {
	BaseEvent
	SubmissionID uuid.UUID `json:"submissionId"`
	ReportID     string    `json:"reportId"`
	CategoryKey  string    `json:"categoryKey"`
	PartnerID    uuid.UUID `json:"partnerId"`
	LastError    string    `json:"lastError"`
	RetryCount   int       `json:"retryCount"`
}

func (e SubmissionFailed) EventName() string { return "submission.failed" }
