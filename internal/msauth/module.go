// Package msauth stores the connected Microsoft mailbox credentials and
// exposes the connect/status/logout routes.
package msauth

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/internal/msgraph"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the microsoft auth module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the msauth module.
func NewModule(pool *pgxpool.Pool, graph *msgraph.Client, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, graph, log)
	handler := NewHandler(svc, val)

	return &Module{
		handler: handler,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "msauth"
}

// Service returns the token service for the mail modules.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts microsoft auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/auth/microsoft")
	group.GET("/status", m.handler.Status)
	group.POST("/connect", m.handler.Connect)
	group.DELETE("/logout", m.handler.Logout)
}

var _ apphttp.Module = (*Module)(nil)
