// Package analytics serves the deeper outreach reports: response rates,
// time to close and the revenue pipeline.
package analytics

import (
	apphttp "outreach_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the analytics module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepository(pool))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/analytics")
	group.GET("/response-rates", m.handler.ResponseRates)
	group.GET("/time-to-close", m.handler.TimeToClose)
	group.GET("/revenue-pipeline", m.handler.RevenuePipeline)
}

var _ apphttp.Module = (*Module)(nil)
