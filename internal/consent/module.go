// Package consent wires the consent bounded context: append-only consent
// capture, revocation, and the derived eligibility flags other modules read.
package consent

import (
	"leadrouting_backend/internal/consent/handler"
	"leadrouting_backend/internal/consent/repository"
	"leadrouting_backend/internal/consent/service"
	"leadrouting_backend/internal/events"
	apphttp "leadrouting_backend/internal/http"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{
		svc:     svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "consent" }

// Service exposes consent flags to the leads and submission modules.
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Portal.POST("/consents", m.handler.RecordConsent)
	ctx.Portal.POST("/unsubscribe", m.handler.Unsubscribe)

	ctx.Protected.GET("/leads/:reportId/consents", m.handler.ListByReport)
}
