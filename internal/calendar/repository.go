package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("calendar event not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Event struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    *uuid.UUID `json:"lead_id,omitempty"`
	Title     string     `json:"title"`
	Location  *string    `json:"location,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateEventParams struct {
	LeadID   *uuid.UUID
	Title    string
	Location *string
	Notes    *string
	StartsAt time.Time
	EndsAt   *time.Time
}

type UpdateEventParams struct {
	Title    *string
	Location *string
	Notes    *string
	StartsAt *time.Time
	EndsAt   *time.Time
}

const eventColumns = `id, lead_id, title, location, notes, starts_at, ends_at, created_at, updated_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.LeadID, &e.Title, &e.Location, &e.Notes, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, params CreateEventParams) (Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `
		INSERT INTO calendar_events (lead_id, title, location, notes, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+eventColumns,
		params.LeadID, params.Title, params.Location, params.Notes, params.StartsAt, params.EndsAt,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM calendar_events WHERE id = $1
	`, id))
}

// ListRange returns events overlapping the given window, ordered by start.
func (r *Repository) ListRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM calendar_events
		WHERE starts_at < $2 AND COALESCE(ends_at, starts_at) >= $1
		ORDER BY starts_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateEventParams) (Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `
		UPDATE calendar_events SET
			title = COALESCE($2, title),
			location = COALESCE($3, location),
			notes = COALESCE($4, notes),
			starts_at = COALESCE($5, starts_at),
			ends_at = COALESCE($6, ends_at),
			updated_at = now()
		WHERE id = $1
		RETURNING `+eventColumns,
		id, params.Title, params.Location, params.Notes, params.StartsAt, params.EndsAt,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
