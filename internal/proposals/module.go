// Package proposals provides priced proposals tied to leads, including the
// queue-for-email flow that hands a rendered proposal to the review queue.
package proposals

import (
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the proposals bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the proposals module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, eventBus, log)
	handler := NewHandler(svc, val)

	return &Module{
		handler: handler,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "proposals"
}

// Service returns the proposal service so the composition root can wire ports.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts proposal routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/proposals")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/queue-email", m.handler.QueueEmail)
}

var _ apphttp.Module = (*Module)(nil)
