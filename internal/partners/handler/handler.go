// Package handler exposes HTTP endpoints for partner and mapping management.
package handler

import (
	"net/http"

	"leadrouting_backend/internal/category"
	"leadrouting_backend/internal/partners/repository"
	"leadrouting_backend/internal/partners/service"
	"leadrouting_backend/internal/partners/transport"
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

func (h *Handler) CreatePartner(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	var req transport.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	p, err := h.svc.CreatePartner(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toPartnerResponse(p))
}

func (h *Handler) GetPartner(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid partner id")
		return
	}

	p, err := h.svc.GetPartner(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toPartnerResponse(p))
}

func (h *Handler) ListPartners(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	activeOnly := c.Query("active") == "true"
	partners, err := h.svc.ListPartners(c.Request.Context(), c.Query("category"), activeOnly)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.PartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, toPartnerResponse(p))
	}
	httpkit.OK(c, gin.H{"partners": out})
}

// ListByCategory is the public portal listing of active partners in one category.
func (h *Handler) ListByCategory(c *gin.Context) {
	key := c.Query("category")
	if key == "" {
		httpkit.Error(c, http.StatusBadRequest, "category query parameter is required")
		return
	}

	partners, err := h.svc.ListPublicByCategory(c.Request.Context(), key)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.PublicPartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, transport.PublicPartnerResponse{
			ID:            p.ID,
			Name:          p.Name,
			CategoryKey:   string(p.CategoryKey),
			CategoryLabel: category.Label(p.CategoryKey),
			Rating:        p.Rating,
		})
	}
	httpkit.OK(c, gin.H{"partners": out})
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid partner id")
		return
	}

	var req transport.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	p, err := h.svc.UpdatePartner(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toPartnerResponse(p))
}

func (h *Handler) DeactivatePartner(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid partner id")
		return
	}

	if httpkit.HandleError(c, h.svc.DeactivatePartner(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateMapping(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	var req transport.CreateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	m, err := h.svc.CreateMapping(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toMappingResponse(m))
}

func (h *Handler) ListMappings(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	mappings, err := h.svc.ListMappings(c.Request.Context(), c.Query("region"), c.Query("category"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.MappingResponse, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, toMappingResponse(m))
	}
	httpkit.OK(c, gin.H{"mappings": out})
}

func (h *Handler) UpdateMapping(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid mapping id")
		return
	}

	var req transport.UpdateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	if httpkit.HandleError(c, h.svc.UpdateMapping(c.Request.Context(), id, req)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteMapping(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid mapping id")
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteMapping(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordConversion counts a converted lead against a partner.
func (h *Handler) RecordConversion(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid partner id")
		return
	}

	p, err := h.svc.RecordConversion(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toPartnerResponse(p))
}

// ListCategories returns the fixed category catalog for UI consumption.
func (h *Handler) ListCategories(c *gin.Context) {
	type entry struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}
	out := make([]entry, 0, 12)
	for _, key := range category.All() {
		out = append(out, entry{Key: string(key), Label: category.Label(key)})
	}
	httpkit.OK(c, gin.H{"categories": out})
}

func toPartnerResponse(p *repository.Partner) transport.PartnerResponse {
	return transport.PartnerResponse{
		ID:                p.ID,
		Name:              p.Name,
		CategoryKey:       string(p.CategoryKey),
		CategoryLabel:     category.Label(p.CategoryKey),
		ContactEmail:      p.ContactEmail,
		ContactPhone:      p.ContactPhone,
		EndpointURL:       p.EndpointURL,
		Rating:            p.Rating,
		TotalLeads:        p.TotalLeads,
		ConvertedLeads:    p.ConvertedLeads,
		ConversionRate:    p.ConversionRate(),
		PayoutAmountCents: p.PayoutAmountCents,
		PayoutNetDays:     p.PayoutNetDays,
		LastAssignedAt:    p.LastAssignedAt,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toMappingResponse(m *repository.StatePartnerMapping) transport.MappingResponse {
	return transport.MappingResponse{
		ID:          m.ID,
		Region:      m.Region,
		CategoryKey: string(m.CategoryKey),
		PartnerID:   m.PartnerID,
		Priority:    m.Priority,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
	}
}
