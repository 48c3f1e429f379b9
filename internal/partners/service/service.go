// Package service implements business logic for partner and routing mapping
// management.
package service

import (
	"context"
	"strings"
	"time"

	"leadrouting_backend/internal/category"
	"leadrouting_backend/internal/partners/repository"
	"leadrouting_backend/internal/partners/transport"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) CreatePartner(ctx context.Context, req transport.CreatePartnerRequest) (*repository.Partner, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	p := &repository.Partner{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		CategoryKey:       key,
		ContactEmail:      strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone:      phone.NormalizeE164(req.ContactPhone),
		EndpointURL:       req.EndpointURL,
		EndpointAuthToken: req.EndpointAuthToken,
		Rating:            req.Rating,
		PayoutAmountCents: req.PayoutAmountCents,
		PayoutNetDays:     req.PayoutNetDays,
		Active:            true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("partner created", "partnerId", p.ID, "category", p.CategoryKey)
	return p, nil
}

func (s *Service) GetPartner(ctx context.Context, id uuid.UUID) (*repository.Partner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListPartners(ctx context.Context, categoryKey string, activeOnly bool) ([]*repository.Partner, error) {
	key := category.Key(categoryKey)
	if categoryKey != "" && !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + categoryKey)
	}
	return s.repo.List(ctx, key, activeOnly)
}

// ListPublicByCategory serves the portal's partner listing for one category.
// Only active partners are visible.
func (s *Service) ListPublicByCategory(ctx context.Context, categoryKey string) ([]*repository.Partner, error) {
	key := category.Key(categoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + categoryKey)
	}
	return s.repo.List(ctx, key, true)
}

func (s *Service) UpdatePartner(ctx context.Context, id uuid.UUID, req transport.UpdatePartnerRequest) (*repository.Partner, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(req.Name)
	p.CategoryKey = key
	p.ContactEmail = strings.ToLower(strings.TrimSpace(req.ContactEmail))
	p.ContactPhone = phone.NormalizeE164(req.ContactPhone)
	p.EndpointURL = req.EndpointURL
	p.EndpointAuthToken = req.EndpointAuthToken
	p.Rating = req.Rating
	p.PayoutAmountCents = req.PayoutAmountCents
	p.PayoutNetDays = req.PayoutNetDays
	p.Active = req.Active

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeactivatePartner(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info("partner deactivated", "partnerId", id)
	return nil
}

// MarkAssigned advances the round-robin cursor for a partner after a lead
// assignment. Called by the distribution service.
func (s *Service) MarkAssigned(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.repo.MarkAssigned(ctx, id, at)
}

// RecordConversion counts a converted lead for a partner, feeding the
// score strategy's conversion rate.
func (s *Service) RecordConversion(ctx context.Context, id uuid.UUID) (*repository.Partner, error) {
	p, err := s.repo.RecordConversion(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("partner conversion recorded", "partnerId", id, "convertedLeads", p.ConvertedLeads)
	return p, nil
}

// Candidates returns the active mapped partners for (region, category) in
// priority order. Region comparison is case-insensitive.
func (s *Service) Candidates(ctx context.Context, region string, categoryKey category.Key) ([]*repository.MappedPartner, error) {
	return s.repo.ListCandidates(ctx, normalizeRegion(region), categoryKey)
}

func (s *Service) CreateMapping(ctx context.Context, req transport.CreateMappingRequest) (*repository.StatePartnerMapping, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	// The partner must exist and serve the mapped category.
	p, err := s.repo.GetByID(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}
	if p.CategoryKey != key {
		return nil, apperr.Validation("partner does not serve category " + req.CategoryKey)
	}

	m := &repository.StatePartnerMapping{
		ID:          uuid.New(),
		Region:      normalizeRegion(req.Region),
		CategoryKey: key,
		PartnerID:   req.PartnerID,
		Priority:    req.Priority,
		Active:      true,
	}

	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("mapping created", "region", m.Region, "category", m.CategoryKey, "partnerId", m.PartnerID)
	return m, nil
}

func (s *Service) ListMappings(ctx context.Context, region, categoryKey string) ([]*repository.StatePartnerMapping, error) {
	key := category.Key(categoryKey)
	if categoryKey != "" && !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + categoryKey)
	}
	return s.repo.ListMappings(ctx, normalizeRegion(region), key)
}

func (s *Service) UpdateMapping(ctx context.Context, id uuid.UUID, req transport.UpdateMappingRequest) error {
	return s.repo.UpdateMapping(ctx, &repository.StatePartnerMapping{
		ID:       id,
		Priority: req.Priority,
		Active:   req.Active,
	})
}

func (s *Service) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMapping(ctx, id)
}

func normalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}
