// Package network maintains the referral graph of clients, entities and
// the weighted edges between them.
package network

import (
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the network module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the network module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, val)

	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "network"
}

// RegisterRoutes mounts referral graph routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/network")
	group.GET("/graph", m.handler.Graph)

	group.GET("/clients", m.handler.ListClients)
	group.POST("/clients", m.handler.CreateClient)
	group.DELETE("/clients/:id", m.handler.DeleteClient)

	group.GET("/entities", m.handler.ListEntities)
	group.POST("/entities", m.handler.CreateEntity)
	group.DELETE("/entities/:id", m.handler.DeleteEntity)

	group.GET("/edges", m.handler.ListEdges)
	group.POST("/edges", m.handler.CreateEdge)
	group.DELETE("/edges/:id", m.handler.DeleteEdge)
}

var _ apphttp.Module = (*Module)(nil)
