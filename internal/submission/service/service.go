// Package service implements the consent-gated submission pipeline: enqueue
// with idempotency, sequential delivery with throttling, and bounded retries.
package service

import (
	"context"
	"time"

	"leadrouting_backend/internal/category"
	consentsvc "leadrouting_backend/internal/consent/service"
	"leadrouting_backend/internal/events"
	leadsrepo "leadrouting_backend/internal/leads/repository"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/internal/submission/repository"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/logger"

	"github.com/google/uuid"
)

const queueBatchSize = 100

// Config carries the delivery tunables.
type Config struct {
	SourceTag   string
	MaxAttempts int
	Throttle    time.Duration
	Timeout     time.Duration
}

type Service struct {
	repo      *repository.Repository
	leads     *leadsrepo.Repository
	partners  *partnerssvc.Service
	consents  *consentsvc.Service
	deliverer *Deliverer
	bus       events.Bus
	log       *logger.Logger
	cfg       Config
}

func New(
	repo *repository.Repository,
	leads *leadsrepo.Repository,
	partners *partnerssvc.Service,
	consents *consentsvc.Service,
	deliverer *Deliverer,
	bus events.Bus,
	log *logger.Logger,
	cfg Config,
) *Service {
	return &Service{
		repo:      repo,
		leads:     leads,
		partners:  partners,
		consents:  consents,
		deliverer: deliverer,
		bus:       bus,
		log:       log,
		cfg:       cfg,
	}
}

// Enqueue queues a lead for delivery to a partner. The idempotency key keeps
// the (report, category, partner) triple unique; a duplicate returns a bad
// request error the caller may surface or absorb.
func (s *Service) Enqueue(ctx context.Context, reportID string, key category.Key, partnerID uuid.UUID) error {
	partner, err := s.partners.GetPartner(ctx, partnerID)
	if err != nil {
		return err
	}

	sub := &repository.Submission{
		ID:                uuid.New(),
		ReportID:          reportID,
		CategoryKey:       key,
		PartnerID:         partnerID,
		IdempotencyKey:    repository.IdempotencyKey(reportID, key, partnerID),
		PayoutAmountCents: partner.PayoutAmountCents,
	}

	created, err := s.repo.CreateQueued(ctx, sub)
	if err != nil {
		return err
	}
	if !created {
		s.log.Debug("submission already exists", "idempotencyKey", sub.IdempotencyKey)
		return apperr.BadRequest("a submission already exists for this category and partner")
	}

	s.log.SubmissionEvent("submission queued", sub.IdempotencyKey, 0)
	s.bus.Publish(ctx, events.SubmissionQueued{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: sub.ID,
		ReportID:     reportID,
		CategoryKey:  string(key),
		PartnerID:    partnerID,
	})
	return nil
}

// ProcessQueue delivers all queued submissions sequentially, pausing between
// deliveries so partner endpoints never see a burst.
func (s *Service) ProcessQueue(ctx context.Context) error {
	queued, err := s.repo.ListQueued(ctx, queueBatchSize)
	if err != nil {
		return err
	}
	if len(queued) == 0 {
		return nil
	}

	s.log.Info("processing submission queue", "count", len(queued))
	for i, sub := range queued {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.processOne(ctx, sub)

		if i < len(queued)-1 {
			select {
			case <-time.After(s.cfg.Throttle):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// ProcessByID delivers one submission immediately, used by the deliver-now
// task that fires right after enqueue.
func (s *Service) ProcessByID(ctx context.Context, id uuid.UUID) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != repository.StatusQueued {
		return nil
	}
	s.processOne(ctx, sub)
	return nil
}

// processOne runs one delivery attempt. Failures are recorded on the
// submission rather than returned; the queue keeps moving.
func (s *Service) processOne(ctx context.Context, sub *repository.Submission) {
	// Consent may have been revoked since enqueue. An ineligible submission
	// stays queued without counting an attempt; consent may arrive later, and
	// the re-check here means a revocation can never ride into a delivery.
	flags, err := s.consents.FlagsFor(ctx, sub.ReportID, sub.CategoryKey)
	if err != nil {
		s.recordFailure(ctx, sub, "eligibility check failed: "+err.Error())
		return
	}
	if !flags.Eligible {
		s.log.Debug("submission not eligible, leaving queued", "idempotencyKey", sub.IdempotencyKey)
		return
	}

	profile, err := s.leads.GetProfile(ctx, sub.ReportID)
	if err != nil {
		s.recordFailure(ctx, sub, "load profile: "+err.Error())
		return
	}
	partner, err := s.partners.GetPartner(ctx, sub.PartnerID)
	if err != nil {
		s.recordFailure(ctx, sub, "load partner: "+err.Error())
		return
	}
	if !partner.Active {
		s.fail(ctx, sub, "partner is no longer active")
		return
	}

	payload := BuildPayload(s.cfg.SourceTag, profile, sub.CategoryKey)

	deliverCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	externalID, err := s.deliverer.Deliver(deliverCtx, partner, payload)
	if err != nil {
		s.recordFailure(ctx, sub, err.Error())
		return
	}

	payoutDue := payoutDueDate(time.Now(), partner.PayoutNetDays)
	if err := s.repo.MarkSent(ctx, sub.ID, externalID, payoutDue); err != nil {
		s.log.DatabaseError("mark submission sent", err)
		return
	}

	s.log.SubmissionEvent("submission sent", sub.IdempotencyKey, sub.RetryCount)
	s.bus.Publish(ctx, events.SubmissionSent{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: sub.ID,
		ReportID:     sub.ReportID,
		CategoryKey:  string(sub.CategoryKey),
		PartnerID:    sub.PartnerID,
		ExternalID:   externalID,
	})
}

// recordFailure counts the attempt and either requeues or fails terminally
// once the attempt budget is spent.
func (s *Service) recordFailure(ctx context.Context, sub *repository.Submission, reason string) {
	if sub.RetryCount+1 >= s.cfg.MaxAttempts {
		s.fail(ctx, sub, reason)
		return
	}

	if err := s.repo.MarkRetry(ctx, sub.ID, reason); err != nil {
		s.log.DatabaseError("mark submission retry", err)
		return
	}
	s.log.SubmissionEvent("submission retry scheduled", sub.IdempotencyKey, sub.RetryCount+1)
}

func (s *Service) fail(ctx context.Context, sub *repository.Submission, reason string) {
	if err := s.repo.MarkFailed(ctx, sub.ID, reason); err != nil {
		s.log.DatabaseError("mark submission failed", err)
		return
	}

	s.log.SubmissionEvent("submission failed", sub.IdempotencyKey, sub.RetryCount+1)
	s.bus.Publish(ctx, events.SubmissionFailed{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: sub.ID,
		ReportID:     sub.ReportID,
		CategoryKey:  string(sub.CategoryKey),
		PartnerID:    sub.PartnerID,
		LastError:    reason,
		RetryCount:   sub.RetryCount + 1,
	})
}

// ListByReport returns a report's submission history.
func (s *Service) ListByReport(ctx context.Context, reportID string) ([]*repository.Submission, error) {
	if reportID == "" {
		return nil, apperr.Validation("reportId is required")
	}
	return s.repo.ListByReport(ctx, reportID)
}

// payoutDueDate computes when the partner payout falls due: net-days after
// the delivery date, normalized to end of day UTC.
func payoutDueDate(sentAt time.Time, netDays int) *time.Time {
	if netDays <= 0 {
		return nil
	}
	due := sentAt.UTC().AddDate(0, 0, netDays)
	due = time.Date(due.Year(), due.Month(), due.Day(), 23, 59, 59, 0, time.UTC)
	return &due
}
