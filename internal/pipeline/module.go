// Package pipeline provides the kanban-style pipeline board: user-defined
// stages, lead movement with dwell tracking, and stage analytics.
package pipeline

import (
	"context"

	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the pipeline bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the pipeline module.
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
	return "pipeline"
}

// Seed creates the default stages when the board is empty. Called once from
// the composition root after migrations.
func (m *Module) Seed(ctx context.Context) error {
	return m.service.SeedDefaultStages(ctx)
}

// RegisterRoutes mounts pipeline routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/pipeline")
	group.GET("/stages", m.handler.ListStages)
	group.POST("/stages", m.handler.CreateStage)
	group.POST("/stages/reorder", m.handler.ReorderStages)
	group.PUT("/stages/:id", m.handler.UpdateStage)
	group.DELETE("/stages/:id", m.handler.DeleteStage)
	group.GET("/board", m.handler.Board)
	group.POST("/leads/:id/move", m.handler.MoveLead)
	group.GET("/leads/:id/history", m.handler.History)
	group.GET("/bottlenecks", m.handler.Bottlenecks)
	group.GET("/metrics", m.handler.Metrics)
}

var _ apphttp.Module = (*Module)(nil)
