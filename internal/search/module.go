// Package search provides cross-entity lookup over leads, proposals and
// templates, and remembers recent queries.
package search

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the search module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the search module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, log)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "search"
}

// RegisterRoutes mounts search routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	group.GET("", m.handler.Search)
	group.GET("/history", m.handler.History)
}

var _ apphttp.Module = (*Module)(nil)
