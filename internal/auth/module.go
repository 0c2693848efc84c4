// Package auth provides member login, token verification and the
// self-profile routes.
package auth

import (
	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg Config, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	svc := NewService(repo, cfg, eventBus, log)
	handler := NewHandler(svc, val)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context. Login is
// public but runs behind the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	public.POST("/login", m.handler.Login)

	protected := ctx.Protected.Group("")
	protected.GET("/auth/verify", m.handler.Verify)
	protected.GET("/users/me", m.handler.Me)
	protected.PUT("/users/me", m.handler.UpdateMe)
}

var _ apphttp.Module = (*Module)(nil)
