// Package handler exposes distribution rule management, contractor management,
// and the public marketplace lead intake.
package handler

import (
	"net/http"

	"leadrouting_backend/internal/distribution/repository"
	"leadrouting_backend/internal/distribution/service"
	"leadrouting_backend/internal/distribution/transport"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/httpkit"
	"leadrouting_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateGeneralLead is the public marketplace intake endpoint.
func (h *Handler) CreateGeneralLead(c *gin.Context) {
	var req transport.CreateGeneralLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	lead, err := h.svc.CreateGeneralLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toGeneralLeadResponse(lead))
}

func (h *Handler) ListGeneralLeads(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	leads, err := h.svc.ListGeneralLeads(c.Request.Context(), c.Query("category"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.GeneralLeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toGeneralLeadResponse(lead))
	}
	httpkit.OK(c, gin.H{"leads": out})
}

func (h *Handler) CreateRule(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	var req transport.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	rule, err := h.svc.CreateRule(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toRuleResponse(rule))
}

func (h *Handler) ListRules(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	rules, err := h.svc.ListRules(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRuleResponse(rule))
	}
	httpkit.OK(c, gin.H{"rules": out})
}

func (h *Handler) UpdateRule(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid rule id")
		return
	}

	var req transport.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	if httpkit.HandleError(c, h.svc.UpdateRule(c.Request.Context(), id, req)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteRule(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid rule id")
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteRule(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateContractor(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	var req transport.CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	contractor, err := h.svc.CreateContractor(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toContractorResponse(contractor))
}

func (h *Handler) GetContractor(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid contractor id")
		return
	}

	contractor, err := h.svc.GetContractor(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toContractorResponse(contractor))
}

func (h *Handler) ListContractors(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	contractors, err := h.svc.ListContractors(c.Request.Context(), c.Query("region"), c.Query("category"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ContractorResponse, 0, len(contractors))
	for _, contractor := range contractors {
		out = append(out, toContractorResponse(contractor))
	}
	httpkit.OK(c, gin.H{"contractors": out})
}

func (h *Handler) UpdateContractor(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid contractor id")
		return
	}

	var req transport.UpdateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	contractor, err := h.svc.UpdateContractor(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toContractorResponse(contractor))
}

// RecordConversion counts a closed marketplace lead against a contractor.
func (h *Handler) RecordConversion(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid contractor id")
		return
	}

	contractor, err := h.svc.RecordContractorConversion(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toContractorResponse(contractor))
}

func toRuleResponse(rule *repository.Rule) transport.RuleResponse {
	return transport.RuleResponse{
		ID:               rule.ID,
		Region:           rule.Region,
		CategoryKey:      string(rule.CategoryKey),
		Strategy:         string(rule.Strategy),
		RatingWeight:     rule.RatingWeight,
		ConversionWeight: rule.ConversionWeight,
		PriorityWeight:   rule.PriorityWeight,
		Active:           rule.Active,
		CreatedAt:        rule.CreatedAt,
		UpdatedAt:        rule.UpdatedAt,
	}
}

func toContractorResponse(c *repository.Contractor) transport.ContractorResponse {
	return transport.ContractorResponse{
		ID:             c.ID,
		Name:           c.Name,
		CategoryKey:    string(c.CategoryKey),
		ContactEmail:   c.ContactEmail,
		ContactPhone:   c.ContactPhone,
		Region:         c.Region,
		Rating:         c.Rating,
		TotalLeads:     c.TotalLeads,
		ConvertedLeads: c.ConvertedLeads,
		ConversionRate: c.ConversionRate(),
		Priority:       c.Priority,
		LastAssignedAt: c.LastAssignedAt,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toGeneralLeadResponse(l *repository.GeneralLead) transport.GeneralLeadResponse {
	return transport.GeneralLeadResponse{
		ID:           l.ID,
		ContractorID: l.ContractorID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Region:       l.Region,
		CategoryKey:  string(l.CategoryKey),
		Description:  l.Description,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
}
