// Package partners wires the partner management bounded context: partner CRUD,
// state/category routing mappings, and the public by-category listing.
package partners

import (
	apphttp "leadrouting_backend/internal/http"
	"leadrouting_backend/internal/partners/handler"
	"leadrouting_backend/internal/partners/repository"
	"leadrouting_backend/internal/partners/service"
	"leadrouting_backend/platform/logger"
	"leadrouting_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		svc:     svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "partners" }

// Service exposes the partner service for the distribution and submission modules.
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public catalog endpoints used by the homeowner portal.
	ctx.V1.GET("/categories", m.handler.ListCategories)
	ctx.V1.GET("/partners/by-category", m.handler.ListByCategory)

	// Operator management endpoints.
	partners := ctx.Protected.Group("/partners")
	partners.POST("", m.handler.CreatePartner)
	partners.GET("", m.handler.ListPartners)
	partners.GET("/:id", m.handler.GetPartner)
	partners.PUT("/:id", m.handler.UpdatePartner)
	partners.DELETE("/:id", m.handler.DeactivatePartner)
	partners.POST("/:id/conversions", m.handler.RecordConversion)

	mappings := ctx.Protected.Group("/state-mappings")
	mappings.POST("", m.handler.CreateMapping)
	mappings.GET("", m.handler.ListMappings)
	mappings.PUT("/:id", m.handler.UpdateMapping)
	mappings.DELETE("/:id", m.handler.DeleteMapping)
}
