// Package handler exposes the report finalization ingest, the portal matrix
// endpoints, and the portal QR code.
package handler

import (
	"net/http"

	"leadrouting_backend/internal/category"
	consentrepo "leadrouting_backend/internal/consent/repository"
	"leadrouting_backend/internal/leads/repository"
	"leadrouting_backend/internal/leads/service"
	"leadrouting_backend/internal/leads/transport"
	"leadrouting_backend/platform/apperr"
	"leadrouting_backend/platform/httpkit"
	"leadrouting_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// FinalizeReport ingests a finalized inspection report from the report service.
func (h *Handler) FinalizeReport(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	var req transport.FinalizeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	profile, err := h.svc.HandleReportFinalized(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toProfileResponse(profile))
}

func (h *Handler) GetProfile(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), c.Param("reportId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProfileResponse(profile))
}

// GetMatrix serves the portal's category matrix for a report.
func (h *Handler) GetMatrix(c *gin.Context) {
	matrix, err := h.svc.GetMatrix(c.Request.Context(), c.Param("reportId"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, matrix)
}

func (h *Handler) UpdateInterest(c *gin.Context) {
	var req transport.UpdateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	err := h.svc.UpdateInterest(c.Request.Context(),
		c.Param("reportId"), category.Key(c.Param("category")), *req.IsInterested)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	var req transport.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	err := h.svc.UpdatePartner(c.Request.Context(),
		c.Param("reportId"), category.Key(c.Param("category")), req.PartnerID)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitCategory queues delivery of one category's lead to its partner.
func (h *Handler) SubmitCategory(c *gin.Context) {
	err := h.svc.SubmitCategory(c.Request.Context(),
		c.Param("reportId"), category.Key(c.Param("category")))
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// OptIn records consent, marks interest, and queues the submission when the
// consent qualifies the lead.
func (h *Handler) OptIn(c *gin.Context) {
	var req transport.OptInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	capture := consentrepo.CaptureMetadata{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		Timezone:  c.GetHeader("X-Timezone"),
		GPCSignal: c.GetHeader("Sec-GPC") == "1",
		SessionID: c.GetHeader("X-Session-ID"),
	}

	err := h.svc.OptIn(c.Request.Context(), c.Param("reportId"), req, capture)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// QRCode renders a PNG QR code linking to the report's portal page.
func (h *Handler) QRCode(c *gin.Context) {
	png, err := h.svc.PortalQRCode(c.Request.Context(), c.Param("reportId"))
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func toProfileResponse(p *repository.LeadProfile) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:            p.ID,
		ReportID:      p.ReportID,
		HomeownerName: p.HomeownerName,
		Email:         p.Email,
		Phone:         p.Phone,
		AddressLine:   p.AddressLine,
		City:          p.City,
		Region:        p.Region,
		PostalCode:    p.PostalCode,
		ClosingDate:   p.ClosingDate,
		Issues:        p.Issues,
		FinalizedAt:   p.FinalizedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
