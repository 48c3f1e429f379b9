// Package transport defines the HTTP response shapes for the submission module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionResponse struct {
	ID                uuid.UUID  `json:"id"`
	ReportID          string     `json:"reportId"`
	CategoryKey       string     `json:"categoryKey"`
	PartnerID         uuid.UUID  `json:"partnerId"`
	Status            string     `json:"status"`
	RetryCount        int        `json:"retryCount"`
	LastError         *string    `json:"lastError,omitempty"`
	ExternalID        *string    `json:"externalId,omitempty"`
	PayoutAmountCents int64      `json:"payoutAmountCents"`
	PayoutDueDate     *time.Time `json:"payoutDueDate,omitempty"`
	QueuedAt          time.Time  `json:"queuedAt"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
}
