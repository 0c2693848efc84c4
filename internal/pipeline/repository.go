package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrStageNotFound = errors.New("pipeline stage not found")
	ErrLeadNotFound  = errors.New("lead not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Stage is one column on the pipeline board.
type Stage struct {
	ID        uuid.UUID
	Name      string
	Position  int
	Color     string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const stageColumns = `id, name, position, color, is_default, created_at, updated_at`

func scanStage(row pgx.Row) (Stage, error) {
	var s Stage
	err := row.Scan(&s.ID, &s.Name, &s.Position, &s.Color, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stage{}, ErrStageNotFound
	}
	return s, err
}

func (r *Repository) ListStages(ctx context.Context) ([]Stage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+stageColumns+` FROM pipeline_stages ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]Stage, 0)
	for rows.Next() {
		stage, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

func (r *Repository) CountStages(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pipeline_stages`).Scan(&count)
	return count, err
}

func (r *Repository) CreateStage(ctx context.Context, name, color string, position int, isDefault bool) (Stage, error) {
	return scanStage(r.pool.QueryRow(ctx, `
		INSERT INTO pipeline_stages (name, position, color, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING `+stageColumns,
		name, position, color, isDefault,
	))
}

func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, name, color *string) (Stage, error) {
	return scanStage(r.pool.QueryRow(ctx, `
		UPDATE pipeline_stages SET
			name = COALESCE($2, name),
			color = COALESCE($3, color),
			updated_at = now()
		WHERE id = $1
		RETURNING `+stageColumns,
		id, name, color,
	))
}

func (r *Repository) DeleteStage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pipeline_stages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStageNotFound
	}
	return nil
}

// ReorderStages rewrites positions to match the given id order.
func (r *Repository) ReorderStages(ctx context.Context, orderedIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for position, id := range orderedIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE pipeline_stages SET position = $2, updated_at = now() WHERE id = $1
		`, id, position)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrStageNotFound
		}
	}
	return tx.Commit(ctx)
}

// BoardLead is the lead card shown on the board.
type BoardLead struct {
	ID             uuid.UUID
	BusinessName   string
	ContactName    *string
	Status         string
	DealValue      *float64
	AssignedRep    *string
	StageID        *uuid.UUID
	StageEnteredAt *time.Time
}

// ListBoardLeads returns all leads with their stage assignment.
func (r *Repository) ListBoardLeads(ctx context.Context) ([]BoardLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_name, contact_name, status, deal_value, assigned_rep, pipeline_stage_id, stage_entered_at
		FROM leads ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]BoardLead, 0)
	for rows.Next() {
		var l BoardLead
		if err := rows.Scan(&l.ID, &l.BusinessName, &l.ContactName, &l.Status, &l.DealValue, &l.AssignedRep, &l.StageID, &l.StageEnteredAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// MoveLead reassigns a lead's stage and records the transition with the time
// spent in the previous stage, all in one transaction.
func (r *Repository) MoveLead(ctx context.Context, leadID, toStageID uuid.UUID) (fromStageID *uuid.UUID, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var currentStage *uuid.UUID
	var enteredAt *time.Time
	err = tx.QueryRow(ctx, `
		SELECT pipeline_stage_id, stage_entered_at FROM leads WHERE id = $1 FOR UPDATE
	`, leadID).Scan(&currentStage, &enteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	var duration *int64
	if enteredAt != nil {
		seconds := int64(time.Since(*enteredAt).Seconds())
		duration = &seconds
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO stage_history (lead_id, from_stage_id, to_stage_id, duration_seconds)
		VALUES ($1, $2, $3, $4)
	`, leadID, currentStage, toStageID, duration); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE leads SET pipeline_stage_id = $2, stage_entered_at = now(), updated_at = now()
		WHERE id = $1
	`, leadID, toStageID); err != nil {
		return nil, err
	}

	return currentStage, tx.Commit(ctx)
}

// HistoryEntry is one recorded stage transition.
type HistoryEntry struct {
	ID              uuid.UUID
	FromStageID     *uuid.UUID
	FromStageName   *string
	ToStageID       uuid.UUID
	ToStageName     string
	DurationSeconds *int64
	ChangedAt       time.Time
}

func (r *Repository) History(ctx context.Context, leadID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.from_stage_id, f.name, h.to_stage_id, t.name, h.duration_seconds, h.changed_at
		FROM stage_history h
		LEFT JOIN pipeline_stages f ON f.id = h.from_stage_id
		JOIN pipeline_stages t ON t.id = h.to_stage_id
		WHERE h.lead_id = $1
		ORDER BY h.changed_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.FromStageID, &e.FromStageName, &e.ToStageID, &e.ToStageName, &e.DurationSeconds, &e.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// StageDwell is the average time leads spent in a stage before moving on.
type StageDwell struct {
	StageID    uuid.UUID
	StageName  string
	AvgSeconds float64
	Moves      int
}

// Bottlenecks aggregates dwell time per departed-from stage.
func (r *Repository) Bottlenecks(ctx context.Context) ([]StageDwell, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, COALESCE(AVG(h.duration_seconds), 0), COUNT(h.id)
		FROM pipeline_stages s
		LEFT JOIN stage_history h ON h.from_stage_id = s.id AND h.duration_seconds IS NOT NULL
		GROUP BY s.id, s.name, s.position
		ORDER BY s.position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dwells := make([]StageDwell, 0)
	for rows.Next() {
		var d StageDwell
		if err := rows.Scan(&d.StageID, &d.StageName, &d.AvgSeconds, &d.Moves); err != nil {
			return nil, err
		}
		dwells = append(dwells, d)
	}
	return dwells, rows.Err()
}

// StageMetric is the per-stage lead count and value for the metrics endpoint.
type StageMetric struct {
	StageID    uuid.UUID
	StageName  string
	LeadCount  int
	TotalValue float64
}

func (r *Repository) StageMetrics(ctx context.Context) ([]StageMetric, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, COUNT(l.id), COALESCE(SUM(l.deal_value), 0)
		FROM pipeline_stages s
		LEFT JOIN leads l ON l.pipeline_stage_id = s.id
		GROUP BY s.id, s.name, s.position
		ORDER BY s.position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := make([]StageMetric, 0)
	for rows.Next() {
		var m StageMetric
		if err := rows.Scan(&m.StageID, &m.StageName, &m.LeadCount, &m.TotalValue); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
