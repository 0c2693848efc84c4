// Package templates provides reusable email templates, multi-step outreach
// sequences and call scripts.
package templates

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the templates module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the templates module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, val)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "templates"
}

// RegisterRoutes mounts template, sequence and call script routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	templates := ctx.Protected.Group("/templates")
	templates.GET("", m.handler.ListTemplates)
	templates.POST("", m.handler.CreateTemplate)
	templates.GET("/:id", m.handler.GetTemplate)
	templates.PUT("/:id", m.handler.UpdateTemplate)
	templates.DELETE("/:id", m.handler.DeleteTemplate)

	sequences := ctx.Protected.Group("/sequences")
	sequences.GET("", m.handler.ListSequences)
	sequences.POST("", m.handler.CreateSequence)
	sequences.GET("/:id", m.handler.GetSequence)
	sequences.PUT("/:id", m.handler.UpdateSequence)
	sequences.DELETE("/:id", m.handler.DeleteSequence)

	scripts := ctx.Protected.Group("/call-scripts")
	scripts.GET("", m.handler.ListScripts)
	scripts.POST("", m.handler.CreateScript)
	scripts.GET("/:id", m.handler.GetScript)
	scripts.PUT("/:id", m.handler.UpdateScript)
	scripts.DELETE("/:id", m.handler.DeleteScript)
}

var _ apphttp.Module = (*Module)(nil)
