// Package handler exposes the operator view of a report's submission history.
package handler

import (
	"leadrouting_backend/internal/submission/repository"
	"leadrouting_backend/internal/submission/service"
	"leadrouting_backend/internal/submission/transport"
	"leadrouting_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListByReport(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	submissions, err := h.svc.ListByReport(c.Request.Context(), c.Param("reportId"))
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.SubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, toSubmissionResponse(s))
	}
	httpkit.OK(c, gin.H{"submissions": out})
}

func toSubmissionResponse(s *repository.Submission) transport.SubmissionResponse {
	return transport.SubmissionResponse{
		ID:                s.ID,
		ReportID:          s.ReportID,
		CategoryKey:       string(s.CategoryKey),
		PartnerID:         s.PartnerID,
		Status:            string(s.Status),
		RetryCount:        s.RetryCount,
		LastError:         s.LastError,
		ExternalID:        s.ExternalID,
		PayoutAmountCents: s.PayoutAmountCents,
		PayoutDueDate:     s.PayoutDueDate,
		QueuedAt:          s.QueuedAt,
		SentAt:            s.SentAt,
	}
}
