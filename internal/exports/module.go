// Package exports produces CSV and JSON downloads of leads, activity logs
// and a summary report.
package exports

import (
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the exports module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the exports module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, eventBus)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/export")
	group.GET("/leads", m.handler.ExportLeads)
	group.GET("/activities", m.handler.ExportActivities)
	group.GET("/report", m.handler.ExportReport)
}

var _ apphttp.Module = (*Module)(nil)
