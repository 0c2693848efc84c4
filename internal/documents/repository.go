package documents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("document not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Document is metadata for a file stored in the object store. The file
// bytes live under ObjectKey in the documents bucket.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
	FileName    string     `json:"file_name"`
	ObjectKey   string     `json:"-"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	UploadedBy  string     `json:"uploaded_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

const documentColumns = `id, lead_id, file_name, object_key, content_type, size_bytes, uploaded_by, created_at`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.LeadID, &d.FileName, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return d, err
}

func (r *Repository) Create(ctx context.Context, leadID *uuid.UUID, fileName, objectKey, contentType string, sizeBytes int64, uploadedBy string) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		INSERT INTO documents (lead_id, file_name, object_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		leadID, fileName, objectKey, contentType, sizeBytes, uploadedBy,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE id = $1
	`, id))
}

func (r *Repository) List(ctx context.Context, leadID *uuid.UUID) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	args := []any{}
	if leadID != nil {
		args = append(args, *leadID)
		query += ` WHERE lead_id = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
