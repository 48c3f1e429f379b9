// Package service implements consent recording, revocation, and the derived
// eligibility flags.
package service

import (
	"context"

	"leadrouting_backend/internal/category"
	"leadrouting_backend/internal/consent/repository"
	"leadrouting_backend/internal/consent/transport"
	"leadrouting_backend/internal/events"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// RecordConsent appends one consent row per requested channel. A one_to_one
// consent requires a partner; global_email forbids one and only covers email.
func (s *Service) RecordConsent(ctx context.Context, req transport.RecordConsentRequest, capture repository.CaptureMetadata) ([]*repository.Consent, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	consentType := repository.Type(req.Type)
	switch consentType {
	case repository.TypeOneToOne:
		if req.PartnerID == nil {
			return nil, apperr.Validation("one_to_one consent requires a partnerId")
		}
	case repository.TypeGlobalEmail:
		if req.PartnerID != nil {
			return nil, apperr.Validation("global_email consent cannot name a partner")
		}
		if len(req.Channels) != 1 || repository.Channel(req.Channels[0]) != repository.ChannelEmail {
			return nil, apperr.Validation("global_email consent covers the email channel only")
		}
	}

	recorded := make([]*repository.Consent, 0, len(req.Channels))
	for _, ch := range req.Channels {
		channel := repository.Channel(ch)
		if !repository.ValidChannel(channel) {
			return nil, apperr.Validation("unknown channel: " + ch)
		}

		c := &repository.Consent{
			ID:          uuid.New(),
			ReportID:    req.ReportID,
			CategoryKey: key,
			PartnerID:   req.PartnerID,
			Channel:     channel,
			Type:        consentType,
			Capture:     capture,
		}
		if err := s.repo.Append(ctx, c); err != nil {
			return nil, err
		}
		recorded = append(recorded, c)

		s.log.ConsentEvent("consent recorded", c.ReportID, string(c.CategoryKey), string(c.Channel))
		partnerID := uuid.Nil
		if c.PartnerID != nil {
			partnerID = *c.PartnerID
		}
		s.bus.Publish(ctx, events.ConsentRecorded{
			BaseEvent:   events.NewBaseEvent(),
			ConsentID:   c.ID,
			ReportID:    c.ReportID,
			CategoryKey: string(c.CategoryKey),
			PartnerID:   partnerID,
			Channel:     string(c.Channel),
		})
	}
	return recorded, nil
}

// Unsubscribe revokes consents without deleting them. With a consentId it
// revokes that one row; otherwise it revokes all matching rows for the report,
// where an empty category or channel matches everything. Revoking is
// idempotent: revoking nothing is not an error.
func (s *Service) Unsubscribe(ctx context.Context, req transport.UnsubscribeRequest) (int, error) {
	if req.ConsentID != nil {
		c, err := s.repo.RevokeByID(ctx, *req.ConsentID, req.Reason)
		if err != nil {
			return 0, err
		}
		if c == nil {
			return 0, nil
		}

		s.log.ConsentEvent("consent revoked", c.ReportID, string(c.CategoryKey), string(c.Channel))
		s.bus.Publish(ctx, events.ConsentRevoked{
			BaseEvent:   events.NewBaseEvent(),
			ConsentID:   c.ID,
			ReportID:    c.ReportID,
			CategoryKey: string(c.CategoryKey),
			Channel:     string(c.Channel),
		})
		return 1, nil
	}

	key := category.Key(req.CategoryKey)
	if req.CategoryKey != "" && !category.IsValid(key) {
		return 0, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	ids, err := s.repo.Revoke(ctx, req.ReportID, key, repository.Channel(req.Channel), req.Reason)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		s.bus.Publish(ctx, events.ConsentRevoked{
			BaseEvent:   events.NewBaseEvent(),
			ConsentID:   id,
			ReportID:    req.ReportID,
			CategoryKey: req.CategoryKey,
			Channel:     req.Channel,
		})
	}
	if len(ids) > 0 {
		s.log.ConsentEvent("consent revoked", req.ReportID, req.CategoryKey, req.Channel)
	}
	return len(ids), nil
}

// FlagsFor derives the consent flags for one (report, category).
func (s *Service) FlagsFor(ctx context.Context, reportID string, key category.Key) (Flags, error) {
	consents, err := s.repo.ListByReportCategory(ctx, reportID, key)
	if err != nil {
		return Flags{}, err
	}
	return DeriveFlags(consents), nil
}

// FlagsForReport derives the consent flags for every category of a report in
// one query. Categories with no consents get the zero-consent flags.
func (s *Service) FlagsForReport(ctx context.Context, reportID string) (map[category.Key]Flags, error) {
	consents, err := s.repo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[category.Key][]*repository.Consent)
	for _, c := range consents {
		grouped[c.CategoryKey] = append(grouped[c.CategoryKey], c)
	}

	flags := make(map[category.Key]Flags, len(category.All()))
	for _, key := range category.All() {
		flags[key] = DeriveFlags(grouped[key])
	}
	return flags, nil
}

// ListByReport returns the full consent history for a report, for operator audit.
func (s *Service) ListByReport(ctx context.Context, reportID string) ([]*repository.Consent, error) {
	return s.repo.ListByReport(ctx, reportID)
}
