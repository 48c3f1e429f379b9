// Package service implements the lead lifecycle: profile creation on report
// finalization, matrix seeding and edits, portal opt-in, and submission
// hand-off.
package service

import (
	"context"
	"strings"
	"time"

	"leadrouting_backend/internal/category"
	consentrepo "leadrouting_backend/internal/consent/repository"
	consentsvc "leadrouting_backend/internal/consent/service"
	consenttransport "leadrouting_backend/internal/consent/transport"
	distributionsvc "leadrouting_backend/internal/distribution/service"
	"leadrouting_backend/internal/events"
	"leadrouting_backend/internal/leads/repository"
	"leadrouting_backend/internal/leads/transport"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/internal/storage"
	submissionrepo "leadrouting_backend/internal/submission/repository"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/phone"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// Enqueuer queues a lead submission for delivery. Implemented by the
// submission module; injected after construction to keep module wiring acyclic.
type Enqueuer interface {
	Enqueue(ctx context.Context, reportID string, key category.Key, partnerID uuid.UUID) error
}

type Service struct {
	repo         *repository.Repository
	consents     *consentsvc.Service
	distribution *distributionsvc.Service
	partners     *partnerssvc.Service
	submissions  *submissionrepo.Repository
	presigner    *storage.Presigner
	bus          events.Bus
	log          *logger.Logger
	enqueuer     Enqueuer
	portalBase   string
}

func New(
	repo *repository.Repository,
	consents *consentsvc.Service,
	distribution *distributionsvc.Service,
	partners *partnerssvc.Service,
	submissions *submissionrepo.Repository,
	presigner *storage.Presigner,
	bus events.Bus,
	log *logger.Logger,
	portalBase string,
) *Service {
	return &Service{
		repo:         repo,
		consents:     consents,
		distribution: distribution,
		partners:     partners,
		submissions:  submissions,
		presigner:    presigner,
		bus:          bus,
		log:          log,
		portalBase:   strings.TrimRight(portalBase, "/"),
	}
}

// SetEnqueuer injects the submission queue after both modules exist.
func (s *Service) SetEnqueuer(e Enqueuer) { s.enqueuer = e }

// HandleReportFinalized upserts the profile, seeds the matrix with one cell
// per category, and stores the evidence assets. Seeding assigns each cell a
// partner through the distribution strategies; existing cells are untouched.
func (s *Service) HandleReportFinalized(ctx context.Context, req transport.FinalizeReportRequest) (*repository.LeadProfile, error) {
	region := strings.ToUpper(strings.TrimSpace(req.Region))

	profile := &repository.LeadProfile{
		ID:            uuid.New(),
		ReportID:      req.ReportID,
		HomeownerName: strings.TrimSpace(req.HomeownerName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         phone.NormalizeE164(req.Phone),
		AddressLine:   strings.TrimSpace(req.AddressLine),
		City:          strings.TrimSpace(req.City),
		Region:        region,
		PostalCode:    strings.TrimSpace(req.PostalCode),
		ClosingDate:   req.ClosingDate,
		Issues:        req.Issues,
		FinalizedAt:   time.Now(),
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	for _, key := range category.All() {
		entry := &repository.MatrixEntry{
			ID:          uuid.New(),
			ReportID:    req.ReportID,
			CategoryKey: key,
		}

		assigned, err := s.distribution.AssignPartner(ctx, region, key)
		if err != nil {
			s.log.Warn("partner assignment failed during seeding",
				"reportId", req.ReportID, "category", key, "error", err)
		} else if assigned != nil {
			entry.PartnerID = &assigned.ID
		}

		if err := s.repo.SeedMatrixEntry(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := s.storeEvidenceAssets(ctx, req); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.ReportFinalized{
		BaseEvent: events.NewBaseEvent(),
		ReportID:  req.ReportID,
		Region:    region,
	})
	s.log.Info("report finalized", "reportId", req.ReportID, "region", region)
	return profile, nil
}

func (s *Service) storeEvidenceAssets(ctx context.Context, req transport.FinalizeReportRequest) error {
	grouped := make(map[category.Key][]*repository.EvidenceAsset)
	for _, a := range req.EvidenceAssets {
		key := category.Key(a.CategoryKey)
		if !category.IsValid(key) {
			return apperr.Validation("unknown category key in evidence asset: " + a.CategoryKey)
		}
		grouped[key] = append(grouped[key], &repository.EvidenceAsset{
			ID:          uuid.New(),
			ReportID:    req.ReportID,
			CategoryKey: key,
			ObjectKey:   a.ObjectKey,
			Caption:     a.Caption,
		})
	}

	for key, assets := range grouped {
		if err := s.repo.ReplaceEvidenceAssets(ctx, req.ReportID, key, assets); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context, reportID string) (*repository.LeadProfile, error) {
	return s.repo.GetProfile(ctx, reportID)
}

// GetMatrix assembles the portal matrix view: one entry per category with the
// assigned partner, derived consent flags, matched inspection issues, and
// presigned evidence asset URLs.
func (s *Service) GetMatrix(ctx context.Context, reportID string) (*transport.MatrixResponse, error) {
	profile, err := s.repo.GetProfile(ctx, reportID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.GetMatrix(ctx, reportID)
	if err != nil {
		return nil, err
	}
	flags, err := s.consents.FlagsForReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	assets, err := s.repo.ListEvidenceAssets(ctx, reportID)
	if err != nil {
		return nil, err
	}
	consents, err := s.consents.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.submissions.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	consentsByKey := make(map[category.Key][]transport.MatrixConsent)
	for _, c := range consents {
		consentsByKey[c.CategoryKey] = append(consentsByKey[c.CategoryKey], transport.MatrixConsent{
			ID:        c.ID,
			Channel:   string(c.Channel),
			Type:      string(c.Type),
			PartnerID: c.PartnerID,
			Revoked:   c.Revoked,
			RevokedAt: c.RevokedAt,
			CreatedAt: c.CreatedAt,
		})
	}

	submissionsByKey := make(map[category.Key][]transport.MatrixSubmission)
	for _, sub := range submissions {
		submissionsByKey[sub.CategoryKey] = append(submissionsByKey[sub.CategoryKey], transport.MatrixSubmission{
			ID:         sub.ID,
			PartnerID:  sub.PartnerID,
			Status:     string(sub.Status),
			RetryCount: sub.RetryCount,
			ExternalID: sub.ExternalID,
			QueuedAt:   sub.QueuedAt,
			SentAt:     sub.SentAt,
		})
	}

	assetsByKey := make(map[category.Key][]transport.MatrixAsset)
	for _, a := range assets {
		assetsByKey[a.CategoryKey] = append(assetsByKey[a.CategoryKey], transport.MatrixAsset{
			URL:     s.presigner.PresignGet(ctx, a.ObjectKey),
			Caption: a.Caption,
		})
	}

	entryByKey := make(map[category.Key]*repository.MatrixEntry, len(entries))
	for _, e := range entries {
		entryByKey[e.CategoryKey] = e
	}

	out := &transport.MatrixResponse{
		ReportID:      profile.ReportID,
		HomeownerName: profile.HomeownerName,
		Region:        profile.Region,
		ClosingDate:   profile.ClosingDate,
		FinalizedAt:   profile.FinalizedAt,
		Entries:       make([]transport.MatrixEntryResponse, 0, len(category.All())),
	}

	for _, key := range category.All() {
		entry, ok := entryByKey[key]
		if !ok {
			continue
		}

		f := flags[key]
		resp := transport.MatrixEntryResponse{
			CategoryKey:      string(key),
			CategoryLabel:    category.Label(key),
			IsInterested:     entry.IsInterested,
			Eligible:         f.Eligible,
			CanEditInterest:  f.CanEditInterest,
			CanChangePartner: f.CanChangePartner,
			MatchedIssues:    category.MatchIssues(key, profile.Issues),
			EvidenceAssets:   assetsByKey[key],
			Consents:         consentsByKey[key],
			Submissions:      submissionsByKey[key],
		}

		if entry.PartnerID != nil {
			partner, err := s.partners.GetPartner(ctx, *entry.PartnerID)
			if err == nil {
				resp.Partner = &transport.MatrixPartner{
					ID:     partner.ID,
					Name:   partner.Name,
					Rating: partner.Rating,
				}
			}
		}
		out.Entries = append(out.Entries, resp)
	}
	return out, nil
}

// UpdateInterest toggles a cell's interest flag. Locked once any consent has
// been recorded for the cell.
func (s *Service) UpdateInterest(ctx context.Context, reportID string, key category.Key, interested bool) error {
	if !category.IsValid(key) {
		return apperr.Validation("unknown category key: " + string(key))
	}

	flags, err := s.consents.FlagsFor(ctx, reportID, key)
	if err != nil {
		return err
	}
	if !flags.CanEditInterest {
		return apperr.BadRequest("interest is locked once consent is on record")
	}
	return s.repo.UpdateInterest(ctx, reportID, key, interested)
}

// UpdatePartner reassigns a cell's partner. Locked while an active phone or
// sms consent exists; the new partner must be active and serve the category.
func (s *Service) UpdatePartner(ctx context.Context, reportID string, key category.Key, partnerID uuid.UUID) error {
	if !category.IsValid(key) {
		return apperr.Validation("unknown category key: " + string(key))
	}

	flags, err := s.consents.FlagsFor(ctx, reportID, key)
	if err != nil {
		return err
	}
	if !flags.CanChangePartner {
		return apperr.BadRequest("partner choice is locked by an active phone or sms consent")
	}

	partner, err := s.partners.GetPartner(ctx, partnerID)
	if err != nil {
		return err
	}
	if !partner.Active {
		return apperr.Validation("partner is not active")
	}
	if partner.CategoryKey != key {
		return apperr.Validation("partner does not serve category " + string(key))
	}
	return s.repo.UpdatePartner(ctx, reportID, key, partnerID)
}

// SubmitCategory queues the lead for delivery to the cell's partner. Requires
// recorded interest, a qualifying consent, and an assigned partner.
func (s *Service) SubmitCategory(ctx context.Context, reportID string, key category.Key) error {
	if !category.IsValid(key) {
		return apperr.Validation("unknown category key: " + string(key))
	}

	entry, err := s.repo.GetMatrixEntry(ctx, reportID, key)
	if err != nil {
		return err
	}
	if !entry.IsInterested {
		return apperr.BadRequest("homeowner has not marked interest in this category")
	}
	if entry.PartnerID == nil {
		return apperr.BadRequest("no partner assigned for this category")
	}

	flags, err := s.consents.FlagsFor(ctx, reportID, key)
	if err != nil {
		return err
	}
	if !flags.Eligible {
		return apperr.BadRequest("no qualifying consent on file for this category")
	}
	return s.enqueuer.Enqueue(ctx, reportID, key, *entry.PartnerID)
}

// OptIn is the combined portal flow: mark interest, record consent, and queue
// the submission when the consent makes the lead eligible.
func (s *Service) OptIn(ctx context.Context, reportID string, req transport.OptInRequest, capture consentrepo.CaptureMetadata) error {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	entry, err := s.repo.GetMatrixEntry(ctx, reportID, key)
	if err != nil {
		return err
	}

	partnerID := req.PartnerID
	if partnerID == nil {
		partnerID = entry.PartnerID
	}
	if req.Type == string(consentrepo.TypeOneToOne) && partnerID == nil {
		return apperr.BadRequest("no partner assigned for this category")
	}

	// Interest must be set before the consent lands; consent locks the flag.
	flags, err := s.consents.FlagsFor(ctx, reportID, key)
	if err != nil {
		return err
	}
	if flags.CanEditInterest && !entry.IsInterested {
		if err := s.repo.UpdateInterest(ctx, reportID, key, true); err != nil {
			return err
		}
	}

	consentReq := consenttransport.RecordConsentRequest{
		ReportID:    reportID,
		CategoryKey: req.CategoryKey,
		Channels:    req.Channels,
		Type:        req.Type,
	}
	if req.Type == string(consentrepo.TypeOneToOne) {
		consentReq.PartnerID = partnerID
	}
	if _, err := s.consents.RecordConsent(ctx, consentReq, capture); err != nil {
		return err
	}

	flags, err = s.consents.FlagsFor(ctx, reportID, key)
	if err != nil {
		return err
	}
	if flags.Eligible && partnerID != nil {
		err := s.enqueuer.Enqueue(ctx, reportID, key, *partnerID)
		// An existing submission is fine here: opting in again for an already
		// queued category must not fail the consent capture.
		if err != nil && !apperr.Is(err, apperr.KindBadRequest) {
			return err
		}
	}
	return nil
}

// PortalQRCode renders a PNG QR code linking to the report's portal page.
func (s *Service) PortalQRCode(ctx context.Context, reportID string) ([]byte, error) {
	if _, err := s.repo.GetProfile(ctx, reportID); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(s.portalBase+"/reports/"+reportID, qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode qr code", err)
	}
	return png, nil
}
