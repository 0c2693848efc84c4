// Package calendar provides scheduled events, optionally tied to a lead.
package calendar

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the calendar module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the calendar module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, val)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calendar"
}

// RegisterRoutes mounts calendar routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/calendar/events")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
