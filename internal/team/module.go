// Package team manages team member accounts and their targets.
package team

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the team module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the team module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, val)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "team"
}

// RegisterRoutes mounts team routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/team")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.GET("/:id/performance", m.handler.Performance)
}

var _ apphttp.Module = (*Module)(nil)
