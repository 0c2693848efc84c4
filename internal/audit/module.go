// Package audit keeps an append-only log of significant actions, fed by
// domain events and queryable over the API.
package audit

import (
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the audit module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the audit module and registers its
// event subscribers on the bus.
func NewModule(pool *pgxpool.Pool, bus events.Bus) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo)
	RegisterSubscribers(bus, repo)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "audit"
}

// RegisterRoutes mounts the audit log route on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/audit", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
