package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("reminder not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Reminder struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    *uuid.UUID `json:"lead_id,omitempty"`
	Title     string     `json:"title"`
	Notes     *string    `json:"notes,omitempty"`
	DueAt     time.Time  `json:"due_at"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateReminderParams struct {
	LeadID *uuid.UUID
	Title  string
	Notes  *string
	DueAt  time.Time
}

type UpdateReminderParams struct {
	Title *string
	Notes *string
	DueAt *time.Time
}

const reminderColumns = `id, lead_id, title, notes, due_at, completed, created_at, updated_at`

func scanReminder(row pgx.Row) (Reminder, error) {
	var r Reminder
	err := row.Scan(&r.ID, &r.LeadID, &r.Title, &r.Notes, &r.DueAt, &r.Completed, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reminder{}, ErrNotFound
	}
	return r, err
}

func (r *Repository) Create(ctx context.Context, params CreateReminderParams) (Reminder, error) {
	return scanReminder(r.pool.QueryRow(ctx, `
		INSERT INTO reminders (lead_id, title, notes, due_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reminderColumns,
		params.LeadID, params.Title, params.Notes, params.DueAt,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Reminder, error) {
	return scanReminder(r.pool.QueryRow(ctx, `
		SELECT `+reminderColumns+` FROM reminders WHERE id = $1
	`, id))
}

type ListRemindersParams struct {
	LeadID       *uuid.UUID
	UpcomingOnly bool
	IncludeDone  bool
}

func (r *Repository) List(ctx context.Context, params ListRemindersParams) ([]Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE 1=1`
	args := []any{}
	if params.LeadID != nil {
		args = append(args, *params.LeadID)
		query += ` AND lead_id = $1`
	}
	if params.UpcomingOnly {
		query += ` AND due_at >= now()`
	}
	if !params.IncludeDone {
		query += ` AND NOT completed`
	}
	query += ` ORDER BY due_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateReminderParams) (Reminder, error) {
	return scanReminder(r.pool.QueryRow(ctx, `
		UPDATE reminders SET
			title = COALESCE($2, title),
			notes = COALESCE($3, notes),
			due_at = COALESCE($4, due_at),
			updated_at = now()
		WHERE id = $1
		RETURNING `+reminderColumns,
		id, params.Title, params.Notes, params.DueAt,
	))
}

func (r *Repository) Complete(ctx context.Context, id uuid.UUID) (Reminder, error) {
	return scanReminder(r.pool.QueryRow(ctx, `
		UPDATE reminders SET completed = TRUE, updated_at = now() WHERE id = $1
		RETURNING `+reminderColumns,
		id,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
