package sla

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("sla timer not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Timer tracks a response deadline for a lead. Status is one of
// active, completed or breached.
type Timer struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"lead_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Deadline    time.Time  `json:"deadline"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	BreachedAt  *time.Time `json:"breached_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BreachedTimer is a timer joined with the owning lead's assigned rep,
// used when raising breach notifications.
type BreachedTimer struct {
	Timer
	AssignedRep string `json:"assigned_rep"`
}

const timerColumns = `id, lead_id, name, status, deadline, completed_at, breached_at, created_at`

func scanTimer(row pgx.Row) (Timer, error) {
	var t Timer
	err := row.Scan(&t.ID, &t.LeadID, &t.Name, &t.Status, &t.Deadline, &t.CompletedAt, &t.BreachedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timer{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) Create(ctx context.Context, leadID uuid.UUID, name string, deadline time.Time) (Timer, error) {
	return scanTimer(r.pool.QueryRow(ctx, `
		INSERT INTO sla_timers (lead_id, name, status, deadline)
		VALUES ($1, $2, 'active', $3)
		RETURNING `+timerColumns,
		leadID, name, deadline,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Timer, error) {
	return scanTimer(r.pool.QueryRow(ctx, `
		SELECT `+timerColumns+` FROM sla_timers WHERE id = $1
	`, id))
}

func (r *Repository) List(ctx context.Context, status string, leadID *uuid.UUID) ([]Timer, error) {
	query := `SELECT ` + timerColumns + ` FROM sla_timers WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $1`
	}
	if leadID != nil {
		args = append(args, *leadID)
		query += ` AND lead_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY deadline ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timers := make([]Timer, 0)
	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

// Complete marks an active timer completed. Completing an already
// completed or breached timer is rejected.
func (r *Repository) Complete(ctx context.Context, id uuid.UUID) (Timer, error) {
	return scanTimer(r.pool.QueryRow(ctx, `
		UPDATE sla_timers
		SET status = 'completed', completed_at = now()
		WHERE id = $1 AND status = 'active'
		RETURNING `+timerColumns,
		id,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sla_timers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkBreached flips every active timer whose deadline has passed to
// breached and returns them together with the owning lead's rep.
func (r *Repository) MarkBreached(ctx context.Context, now time.Time) ([]BreachedTimer, error) {
	rows, err := r.pool.Query(ctx, `
		WITH breached AS (
			UPDATE sla_timers
			SET status = 'breached', breached_at = $1
			WHERE status = 'active' AND deadline < $1
			RETURNING `+timerColumns+`
		)
		SELECT b.id, b.lead_id, b.name, b.status, b.deadline, b.completed_at, b.breached_at, b.created_at,
		       COALESCE(l.assigned_rep, '')
		FROM breached b
		LEFT JOIN leads l ON l.id = b.lead_id
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breached := make([]BreachedTimer, 0)
	for rows.Next() {
		var bt BreachedTimer
		err := rows.Scan(&bt.ID, &bt.LeadID, &bt.Name, &bt.Status, &bt.Deadline, &bt.CompletedAt, &bt.BreachedAt, &bt.CreatedAt, &bt.AssignedRep)
		if err != nil {
			return nil, err
		}
		breached = append(breached, bt)
	}
	return breached, rows.Err()
}
