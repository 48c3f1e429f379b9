// Package leads wires the lead lifecycle bounded context: report finalization
// ingest, the homeowner matrix, portal opt-in, and submission hand-off.
package leads

import (
	consentsvc "leadrouting_backend/internal/consent/service"
	distributionsvc "leadrouting_backend/internal/distribution/service"
	"leadrouting_backend/internal/events"
	apphttp "leadrouting_backend/internal/http"
	"leadrouting_backend/internal/leads/handler"
	"leadrouting_backend/internal/leads/repository"
	"leadrouting_backend/internal/leads/service"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/internal/storage"
	submissionrepo "leadrouting_backend/internal/submission/repository"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(
	pool *pgxpool.Pool,
	consents *consentsvc.Service,
	distribution *distributionsvc.Service,
	partners *partnerssvc.Service,
	presigner *storage.Presigner,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	cfg config.PortalConfig,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, consents, distribution, partners, submissionrepo.New(pool), presigner, bus, log, cfg.GetPortalBaseURL())
	return &Module{
		svc:     svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "leads" }

// Service exposes the lead service for submission wiring.
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Report service ingest and operator views.
	ctx.Protected.POST("/reports/finalized", m.handler.FinalizeReport)
	ctx.Protected.GET("/leads/:reportId", m.handler.GetProfile)

	matrix := ctx.Protected.Group("/leads/:reportId/matrix")
	matrix.GET("", m.handler.GetMatrix)
	matrix.PUT("/:category/interest", m.handler.UpdateInterest)
	matrix.PUT("/:category/partner", m.handler.UpdatePartner)
	matrix.POST("/:category/submit", m.handler.SubmitCategory)

	// Homeowner portal.
	reports := ctx.Portal.Group("/reports/:reportId")
	reports.GET("/matrix", m.handler.GetMatrix)
	reports.GET("/qrcode", m.handler.QRCode)
	reports.POST("/optin", m.handler.OptIn)
	reports.PUT("/categories/:category/interest", m.handler.UpdateInterest)
	reports.PUT("/categories/:category/partner", m.handler.UpdatePartner)
	reports.POST("/categories/:category/submit", m.handler.SubmitCategory)
}
