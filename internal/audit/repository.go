package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Entry is one audit log row. Detail is a short human-readable summary,
// not a structured diff.
type Entry struct {
	ID         uuid.UUID  `json:"id"`
	EntityType string     `json:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Action     string     `json:"action"`
	Actor      string     `json:"actor"`
	Detail     *string    `json:"detail,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ListParams struct {
	EntityType string
	Action     string
	Limit      int
	Offset     int
}

const entryColumns = `id, entity_type, entity_id, action, actor, detail, created_at`

func (r *Repository) Record(ctx context.Context, entityType string, entityID *uuid.UUID, action, actor string, detail *string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (entity_type, entity_id, action, actor, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, entityType, entityID, action, actor, detail)
	return err
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Entry, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	addFilter := func(clause, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	addFilter("entity_type = $%d", params.EntityType)
	addFilter("action = $%d", params.Action)

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM audit_logs`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM audit_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		entryColumns, whereSQL, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
