// Package submission wires the submission bounded context: the idempotent
// delivery queue, the sweep worker, and the operator history endpoint.
package submission

import (
	consentsvc "leadrouting_backend/internal/consent/service"
	"leadrouting_backend/internal/events"
	apphttp "leadrouting_backend/internal/http"
	leadsrepo "leadrouting_backend/internal/leads/repository"
	partnerssvc "leadrouting_backend/internal/partners/service"
	"leadrouting_backend/internal/submission/handler"
	"leadrouting_backend/internal/submission/repository"
	"leadrouting_backend/internal/submission/service"
	"leadrouting_backend/platform/config"
	"leadrouting_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines the config interfaces the submission pipeline needs.
type ModuleConfig interface {
	config.WorkerConfig
	config.DeliveryConfig
}

type Module struct {
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(
	pool *pgxpool.Pool,
	partners *partnerssvc.Service,
	consents *consentsvc.Service,
	bus events.Bus,
	log *logger.Logger,
	cfg ModuleConfig,
) *Module {
	repo := repository.New(pool)
	deliverer := service.NewDeliverer(cfg.GetDeliveryTimeout(), log)
	svc := service.New(repo, leadsrepo.New(pool), partners, consents, deliverer, bus, log, service.Config{
		SourceTag:   cfg.GetLeadSourceTag(),
		MaxAttempts: cfg.GetMaxDeliveryAttempts(),
		Throttle:    cfg.GetDeliveryThrottle(),
		Timeout:     cfg.GetDeliveryTimeout(),
	})
	return &Module{
		svc:     svc,
		handler: handler.New(svc),
	}
}

func (m *Module) Name() string { return "submission" }

// Service exposes the submission service; it implements the lead module's
// Enqueuer and is driven by the worker and scheduler.
func (m *Module) Service() *service.Service { return m.svc }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/leads/:reportId/submissions", m.handler.ListByReport)
}
