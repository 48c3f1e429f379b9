// Package handler exposes the portal consent endpoints and the operator
// consent audit listing.
package handler

import (
	"net/http"

	"leadrouting_backend/internal/consent/repository"
	"leadrouting_backend/internal/consent/service"
	"leadrouting_backend/internal/consent/transport"
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

// RecordConsent handles the portal consent form. The capture metadata comes
// from the request itself, not the body, so it cannot be spoofed by the form.
func (h *Handler) RecordConsent(c *gin.Context) {
	var req transport.RecordConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	recorded, err := h.svc.RecordConsent(c.Request.Context(), req, captureFrom(c))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ConsentResponse, 0, len(recorded))
	for _, consent := range recorded {
		out = append(out, toConsentResponse(consent))
	}
	c.JSON(http.StatusCreated, gin.H{"consents": out})
}

// Unsubscribe handles portal opt-outs. Always returns 200 with the revoked
// count; revoking nothing is not an error.
func (h *Handler) Unsubscribe(c *gin.Context) {
	var req transport.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}

	revoked, err := h.svc.Unsubscribe(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"revoked": revoked})
}

// ListByReport is the operator audit view of a report's full consent history.
func (h *Handler) ListByReport(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	reportID := c.Param("reportId")
	consents, err := h.svc.ListByReport(c.Request.Context(), reportID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.ConsentResponse, 0, len(consents))
	for _, consent := range consents {
		out = append(out, toConsentResponse(consent))
	}
	httpkit.OK(c, gin.H{"consents": out})
}

func captureFrom(c *gin.Context) repository.CaptureMetadata {
	return repository.CaptureMetadata{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		Timezone:  c.GetHeader("X-Timezone"),
		GPCSignal: c.GetHeader("Sec-GPC") == "1",
		SessionID: c.GetHeader("X-Session-ID"),
	}
}

func toConsentResponse(consent *repository.Consent) transport.ConsentResponse {
	return transport.ConsentResponse{
		ID:           consent.ID,
		ReportID:     consent.ReportID,
		CategoryKey:  string(consent.CategoryKey),
		PartnerID:    consent.PartnerID,
		Channel:      string(consent.Channel),
		Type:         string(consent.Type),
		Revoked:      consent.Revoked,
		RevokedAt:    consent.RevokedAt,
		RevokeReason: consent.RevokeReason,
		CreatedAt:    consent.CreatedAt,
	}
}
