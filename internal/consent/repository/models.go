package repository

import (
	"time"

	"leadrouting_backend/internal/category"

	"github.com/google/uuid"
)

// Channel is the communication channel a consent covers.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
	ChannelSMS   Channel = "sms"
)

// Type distinguishes a blanket email opt-in from a consent granted to one
// specific partner.
type Type string

const (
	TypeGlobalEmail Type = "global_email"
	TypeOneToOne    Type = "one_to_one"
)

func ValidChannel(c Channel) bool {
	return c == ChannelEmail || c == ChannelPhone || c == ChannelSMS
}

func ValidType(t Type) bool {
	return t == TypeGlobalEmail || t == TypeOneToOne
}

// Consent is one append-only consent record. Rows are never updated except to
// set the revocation flag; corrections are new rows.
type Consent struct {
	ID           uuid.UUID
	ReportID     string
	CategoryKey  category.Key
	PartnerID    *uuid.UUID
	Channel      Channel
	Type         Type
	Revoked      bool
	RevokedAt    *time.Time
	RevokeReason *string
	Capture      CaptureMetadata
	CreatedAt    time.Time
}

// CaptureMetadata records the context in which a consent was given, for
// compliance audits.
type CaptureMetadata struct {
	ClientIP  string
	UserAgent string
	Referer   string
	Timezone  string
	GPCSignal bool
	SessionID string
}
