// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/internal/leads/handler"
	"outreach_portal_backend/internal/leads/repository"
	"outreach_portal_backend/internal/leads/service"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterLogRoutes(ctx.Protected.Group("/logs"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
