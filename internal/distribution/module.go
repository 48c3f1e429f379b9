// Package distribution wires the lead distribution bounded context: strategy
// configuration, contractor management, and the marketplace lead lane.
package distribution

import (
	"leadrouting_backend/internal/distribution/handler"
	"leadrouting_backend/internal/distribution/repository"
	"leadrouting_backend/internal/distribution/service"
	apphttp "leadrouting_backend/internal/http"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, partners *partnerssvc.Service, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, partners, log)
	return &Module{
		svc:     svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "distribution" }

// Service exposes partner assignment to the leads module.
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public marketplace intake.
	ctx.V1.POST("/marketplace/leads", m.handler.CreateGeneralLead)

	// Operator endpoints.
	ctx.Protected.GET("/marketplace/leads", m.handler.ListGeneralLeads)

	rules := ctx.Protected.Group("/distribution-rules")
	rules.POST("", m.handler.CreateRule)
	rules.GET("", m.handler.ListRules)
	rules.PUT("/:id", m.handler.UpdateRule)
	rules.DELETE("/:id", m.handler.DeleteRule)

	contractors := ctx.Protected.Group("/contractors")
	contractors.POST("", m.handler.CreateContractor)
	contractors.GET("", m.handler.ListContractors)
	contractors.GET("/:id", m.handler.GetContractor)
	contractors.PUT("/:id", m.handler.UpdateContractor)
	contractors.POST("/:id/conversions", m.handler.RecordConversion)
}
