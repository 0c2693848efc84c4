// Package documents stores uploaded files for leads in object storage and
// keeps their metadata in the database.
package documents

import (
	"context"

	"outreach_portal_backend/internal/adapters/storage"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the documents module implementing http.Module.
type Module struct {
	handler *Handler
	store   storage.ObjectStore
	bucket  string
}

// NewModule creates and initializes the documents module.
func NewModule(pool *pgxpool.Pool, store storage.ObjectStore, bucket string, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, store, bucket, log)

	return &Module{handler: handler, store: store, bucket: bucket}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "documents"
}

// EnsureBucket creates the documents bucket on startup when missing.
func (m *Module) EnsureBucket(ctx context.Context) error {
	return m.store.EnsureBucket(ctx, m.bucket)
}

// RegisterRoutes mounts document routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/documents")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Upload)
	group.GET("/:id/download", m.handler.Download)
	group.DELETE("/:id", m.handler.Delete)
}

var _ apphttp.Module = (*Module)(nil)
