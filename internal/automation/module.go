// Package automation stores user-defined rules and executes their actions
// against selected leads on demand.
package automation

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the automation module implementing http.Module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates and initializes the automation module. Cross-module
// ports are wired later via Service().SetPorts.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	service := NewService(repo, log)
	handler := NewHandler(repo, service, val)

	return &Module{service: service, handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "automation"
}

// Service exposes the rule executor for port wiring.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts automation rule routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/automation/rules")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/execute", m.handler.Execute)
}

var _ apphttp.Module = (*Module)(nil)
