// Package sla tracks response deadlines for leads and flags breaches.
package sla

import (
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the SLA module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the SLA module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, eventBus, val, log)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sla"
}

// RegisterRoutes mounts SLA timer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/sla")
	group.GET("/timers", m.handler.List)
	group.POST("/timers", m.handler.Create)
	group.POST("/timers/:id/complete", m.handler.Complete)
	group.DELETE("/timers/:id", m.handler.Delete)
	group.POST("/check-breaches", m.handler.CheckBreaches)
}

var _ apphttp.Module = (*Module)(nil)
