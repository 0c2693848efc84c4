// Package dashboard serves the aggregated outreach statistics behind the
// portal home screen.
package dashboard

import (
	apphttp "outreach_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dashboard module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the dashboard module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepository(pool))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/dashboard")
	group.GET("/stats", m.handler.Stats)
	group.GET("/leaderboard", m.handler.Leaderboard)
	group.GET("/trends", m.handler.Trends)
	group.GET("/funnel", m.handler.Funnel)
}

var _ apphttp.Module = (*Module)(nil)
