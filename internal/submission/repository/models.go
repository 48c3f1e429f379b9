package repository

import (
	"fmt"
	"time"

	"leadrouting_backend/internal/category"

	"github.com/google/uuid"
)

// Status tracks a submission through its lifecycle.
type Status string

const (
	StatusQueued Status = "queued"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Submission is one attempt to deliver a lead to a partner. The idempotency
// key guarantees at most one submission per (report, category, partner);
// re-queuing the same triple is a no-op.
type Submission struct {
	ID                uuid.UUID
	ReportID          string
	CategoryKey       category.Key
	PartnerID         uuid.UUID
	IdempotencyKey    string
	Status            Status
	RetryCount        int
	LastError         *string
	ExternalID        *string
	PayoutAmountCents int64
	PayoutDueDate     *time.Time
	QueuedAt          time.Time
	SentAt            *time.Time
	UpdatedAt         time.Time
}

// IdempotencyKey derives the unique delivery key for a (report, category,
// partner) triple.
func IdempotencyKey(reportID string, key category.Key, partnerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", reportID, key, partnerID)
}
