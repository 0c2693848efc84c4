// Package emails provides the outbound email queue and outreach tracking
// bounded context module.
package emails

import (
	"outreach_portal_backend/internal/emails/handler"
	"outreach_portal_backend/internal/emails/repository"
	"outreach_portal_backend/internal/emails/service"
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the emails bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the emails module with all its dependencies.
func NewModule(pool *pgxpool.Pool, provider service.MailProvider, tokens service.TokenSource, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, provider, tokens, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "emails"
}

// Service returns the email service for cross-module adapters.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts email routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/emails"))
}

var _ apphttp.Module = (*Module)(nil)
