// Package notifications stores in-app notifications for team members and
// creates them in response to domain events.
package notifications

import (
	"context"

	"outreach_portal_backend/internal/events"
	apphttp "outreach_portal_backend/internal/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notifications module implementing http.Module.
type Module struct {
	repo    *Repository
	handler *Handler
}

// NewModule creates and initializes the notifications module and registers
// its event subscribers on the bus.
func NewModule(pool *pgxpool.Pool, bus events.Bus) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo)
	RegisterSubscribers(bus, repo)

	return &Module{repo: repo, handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notifications"
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	group.GET("", m.handler.List)
	group.POST("/:id/read", m.handler.MarkRead)
	group.POST("/read-all", m.handler.MarkAllRead)
}

// Notify inserts a notification directly, bypassing the event bus. It is
// used by modules that create notifications as part of their own flow.
func (m *Module) Notify(ctx context.Context, memberName *string, title string, body *string, category string) (uuid.UUID, error) {
	n, err := m.repo.Create(ctx, memberName, title, body, category)
	if err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

var _ apphttp.Module = (*Module)(nil)
