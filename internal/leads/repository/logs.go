package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrLogNotFound = errors.New("activity log not found")

type ActivityLog struct {
	ID           uuid.UUID
	LeadID       *uuid.UUID
	MemberName   *string
	ActivityType string
	Outcome      *string
	Notes        *string
	OccurredAt   time.Time
}

type CreateLogParams struct {
	LeadID       *uuid.UUID
	MemberName   *string
	ActivityType string
	Outcome      *string
	Notes        *string
}

const logColumns = `id, lead_id, member_name, activity_type, outcome, notes, occurred_at`

func scanLog(row pgx.Row) (ActivityLog, error) {
	var log ActivityLog
	err := row.Scan(&log.ID, &log.LeadID, &log.MemberName, &log.ActivityType, &log.Outcome, &log.Notes, &log.OccurredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ActivityLog{}, ErrLogNotFound
	}
	return log, err
}

// CreateLog inserts an activity log within the given querier so callers can
// pair it with the pipeline status write in one transaction. Logs tied to a
// lead also refresh that lead's last activity stamp.
func (r *Repository) CreateLog(ctx context.Context, q DB, params CreateLogParams) (ActivityLog, error) {
	log, err := scanLog(q.QueryRow(ctx, `
		INSERT INTO activity_logs (lead_id, member_name, activity_type, outcome, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+logColumns,
		params.LeadID, params.MemberName, params.ActivityType, params.Outcome, params.Notes,
	))
	if err != nil {
		return ActivityLog{}, err
	}
	if params.LeadID != nil {
		if _, err := q.Exec(ctx, `
			UPDATE leads SET last_activity_at = now(), updated_at = now() WHERE id = $1
		`, *params.LeadID); err != nil {
			return ActivityLog{}, err
		}
	}
	return log, nil
}

func (r *Repository) ListLogsByLead(ctx context.Context, leadID uuid.UUID) ([]ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+logColumns+` FROM activity_logs
		WHERE lead_id = $1 ORDER BY occurred_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *Repository) ListRecentLogs(ctx context.Context, since time.Time, limit int) ([]ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+logColumns+` FROM activity_logs
		WHERE occurred_at >= $1 ORDER BY occurred_at DESC LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *Repository) DeleteLog(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

func collectLogs(rows pgx.Rows) ([]ActivityLog, error) {
	logs := make([]ActivityLog, 0)
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
