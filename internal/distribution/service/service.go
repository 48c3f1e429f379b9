// Package service implements lead distribution: strategy-driven partner
// selection for report leads and contractor assignment for marketplace leads.
package service

import (
	"context"
	"strings"
	"time"

	"leadrouting_backend/internal/category"
	"leadrouting_backend/internal/distribution/repository"
	"leadrouting_backend/internal/distribution/strategy"
	"leadrouting_backend/internal/distribution/transport"
	partnersrepo "leadrouting_backend/internal/partners/repository"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo     *repository.Repository
	partners *partnerssvc.Service
	log      *logger.Logger
	now      func() time.Time
}

func New(repo *repository.Repository, partners *partnerssvc.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, partners: partners, log: log, now: time.Now}
}

// AssignPartner selects a partner for a (region, category) pair using the
// configured rule, defaulting to round-robin, and advances the selection
// cursor. Returns nil when no active partner is mapped for the pair.
func (s *Service) AssignPartner(ctx context.Context, region string, key category.Key) (*partnersrepo.MappedPartner, error) {
	candidates, err := s.partners.Candidates(ctx, region, key)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	name, weights, err := s.ruleFor(ctx, region, key)
	if err != nil {
		return nil, err
	}

	pool := make([]strategy.Candidate, 0, len(candidates))
	byID := make(map[uuid.UUID]*partnersrepo.MappedPartner, len(candidates))
	for _, c := range candidates {
		pool = append(pool, strategy.Candidate{
			ID:             c.ID,
			Rating:         c.Rating,
			ConversionRate: c.ConversionRate(),
			Priority:       c.Priority,
			LastAssignedAt: c.LastAssignedAt,
		})
		byID[c.ID] = c
	}

	selected, ok := strategy.Select(name, pool, weights)
	if !ok {
		return nil, nil
	}

	if err := s.partners.MarkAssigned(ctx, selected.ID, s.now()); err != nil {
		return nil, err
	}

	winner := byID[selected.ID]
	s.log.Info("partner assigned",
		"partnerId", winner.ID, "region", region, "category", key, "strategy", name)
	return winner, nil
}

func (s *Service) ruleFor(ctx context.Context, region string, key category.Key) (strategy.Name, strategy.Weights, error) {
	rule, err := s.repo.FindRule(ctx, region, key)
	if err != nil {
		return "", strategy.Weights{}, err
	}
	if rule == nil {
		return strategy.RoundRobin, strategy.Weights{}, nil
	}
	return rule.Strategy, rule.Weights(), nil
}

// CreateGeneralLead records a marketplace lead and assigns a contractor using
// the same strategy machinery. Leads with no matching contractor stay in the
// "new" state for manual routing.
func (s *Service) CreateGeneralLead(ctx context.Context, req transport.CreateGeneralLeadRequest) (*repository.GeneralLead, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}
	region := strings.ToUpper(strings.TrimSpace(req.Region))

	lead := &repository.GeneralLead{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       phone.NormalizeE164(req.Phone),
		Region:      region,
		CategoryKey: key,
		Description: strings.TrimSpace(req.Description),
		Status:      repository.GeneralLeadNew,
	}

	contractor, err := s.assignContractor(ctx, region, key)
	if err != nil {
		return nil, err
	}
	if contractor != nil {
		lead.ContractorID = &contractor.ID
		lead.Status = repository.GeneralLeadAssigned
	}

	if err := s.repo.CreateGeneralLead(ctx, lead); err != nil {
		return nil, err
	}

	s.log.Info("general lead created",
		"leadId", lead.ID, "region", region, "category", key, "status", lead.Status)
	return lead, nil
}

func (s *Service) assignContractor(ctx context.Context, region string, key category.Key) (*repository.Contractor, error) {
	contractors, err := s.repo.ListContractors(ctx, region, key, true)
	if err != nil {
		return nil, err
	}
	if len(contractors) == 0 {
		return nil, nil
	}

	name, weights, err := s.ruleFor(ctx, region, key)
	if err != nil {
		return nil, err
	}

	pool := make([]strategy.Candidate, 0, len(contractors))
	byID := make(map[uuid.UUID]*repository.Contractor, len(contractors))
	for _, c := range contractors {
		pool = append(pool, strategy.Candidate{
			ID:             c.ID,
			Rating:         c.Rating,
			ConversionRate: c.ConversionRate(),
			Priority:       c.Priority,
			LastAssignedAt: c.LastAssignedAt,
		})
		byID[c.ID] = c
	}

	selected, ok := strategy.Select(name, pool, weights)
	if !ok {
		return nil, nil
	}
	if err := s.repo.MarkContractorAssigned(ctx, selected.ID, s.now()); err != nil {
		return nil, err
	}
	return byID[selected.ID], nil
}

func (s *Service) ListGeneralLeads(ctx context.Context, categoryKey string) ([]*repository.GeneralLead, error) {
	key := category.Key(categoryKey)
	if categoryKey != "" && !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + categoryKey)
	}
	return s.repo.ListGeneralLeads(ctx, key)
}

func (s *Service) CreateRule(ctx context.Context, req transport.CreateRuleRequest) (*repository.Rule, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	rule := &repository.Rule{
		ID:               uuid.New(),
		Region:           strings.ToUpper(strings.TrimSpace(req.Region)),
		CategoryKey:      key,
		Strategy:         strategy.Name(req.Strategy),
		RatingWeight:     req.RatingWeight,
		ConversionWeight: req.ConversionWeight,
		PriorityWeight:   req.PriorityWeight,
		Active:           true,
	}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) ListRules(ctx context.Context) ([]*repository.Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) UpdateRule(ctx context.Context, id uuid.UUID, req transport.UpdateRuleRequest) error {
	return s.repo.UpdateRule(ctx, &repository.Rule{
		ID:               id,
		Strategy:         strategy.Name(req.Strategy),
		RatingWeight:     req.RatingWeight,
		ConversionWeight: req.ConversionWeight,
		PriorityWeight:   req.PriorityWeight,
		Active:           req.Active,
	})
}

func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRule(ctx, id)
}

func (s *Service) CreateContractor(ctx context.Context, req transport.CreateContractorRequest) (*repository.Contractor, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	c := &repository.Contractor{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		CategoryKey:  key,
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone: phone.NormalizeE164(req.ContactPhone),
		Region:       strings.ToUpper(strings.TrimSpace(req.Region)),
		Rating:       req.Rating,
		Priority:     req.Priority,
		Active:       true,
	}
	if err := s.repo.CreateContractor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetContractor(ctx context.Context, id uuid.UUID) (*repository.Contractor, error) {
	return s.repo.GetContractor(ctx, id)
}

// RecordContractorConversion counts a closed marketplace lead, feeding the
// score strategy's conversion rate.
func (s *Service) RecordContractorConversion(ctx context.Context, id uuid.UUID) (*repository.Contractor, error) {
	c, err := s.repo.RecordContractorConversion(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("contractor conversion recorded", "contractorId", id, "convertedLeads", c.ConvertedLeads)
	return c, nil
}

func (s *Service) ListContractors(ctx context.Context, region, categoryKey string) ([]*repository.Contractor, error) {
	key := category.Key(categoryKey)
	if categoryKey != "" && !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + categoryKey)
	}
	return s.repo.ListContractors(ctx, strings.ToUpper(strings.TrimSpace(region)), key, false)
}

func (s *Service) UpdateContractor(ctx context.Context, id uuid.UUID, req transport.UpdateContractorRequest) (*repository.Contractor, error) {
	key := category.Key(req.CategoryKey)
	if !category.IsValid(key) {
		return nil, apperr.Validation("unknown category key: " + req.CategoryKey)
	}

	c, err := s.repo.GetContractor(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.CategoryKey = key
	c.ContactEmail = strings.ToLower(strings.TrimSpace(req.ContactEmail))
	c.ContactPhone = phone.NormalizeE164(req.ContactPhone)
	c.Region = strings.ToUpper(strings.TrimSpace(req.Region))
	c.Rating = req.Rating
	c.Priority = req.Priority
	c.Active = req.Active

	if err := s.repo.UpdateContractor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
