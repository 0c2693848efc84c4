// Package reminders provides follow-up reminders, standalone or tied to a
// lead.
package reminders

import (
	"context"
	"time"

	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reminders module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the reminders module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, val)

	return &Module{
		handler: handler,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reminders"
}

// CreateForLead schedules a reminder on behalf of another module. Satisfies
// the leads follow-up port.
func (m *Module) CreateForLead(ctx context.Context, leadID uuid.UUID, title, notes string, dueAt time.Time) error {
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	_, err := m.repo.Create(ctx, CreateReminderParams{
		LeadID: &leadID,
		Title:  title,
		Notes:  notesPtr,
		DueAt:  dueAt,
	})
	return err
}

// RegisterRoutes mounts reminder routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/reminders")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/complete", m.handler.Complete)
}

var _ apphttp.Module = (*Module)(nil)
