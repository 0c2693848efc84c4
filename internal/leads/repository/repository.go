package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// DB is satisfied by both *pgxpool.Pool and pgx.Tx so multi-write
// operations can run inside the caller's transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Pool exposes the underlying pool for transaction control in services.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

type Lead struct {
	ID              uuid.UUID
	BusinessName    string
	ContactName     *string
	Email           *string
	Phone           *string
	Status          string
	ResponseStatus  *string
	Source          *string
	ServiceCategory *string
	DealValue       *float64
	AssignedRep     *string
	Notes           *string
	PipelineStageID *uuid.UUID
	StageEnteredAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateLeadParams struct {
	BusinessName    string
	ContactName     *string
	Email           *string
	Phone           *string
	Status          string
	Source          *string
	ServiceCategory *string
	DealValue       *float64
	AssignedRep     *string
	Notes           *string
}

const leadColumns = `id, business_name, contact_name, email, phone, status, response_status,
	source, service_category, deal_value, assigned_rep, notes,
	pipeline_stage_id, stage_entered_at, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.BusinessName, &lead.ContactName, &lead.Email, &lead.Phone,
		&lead.Status, &lead.ResponseStatus, &lead.Source, &lead.ServiceCategory,
		&lead.DealValue, &lead.AssignedRep, &lead.Notes,
		&lead.PipelineStageID, &lead.StageEnteredAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (business_name, contact_name, email, phone, status, source, service_category, deal_value, assigned_rep, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+leadColumns,
		params.BusinessName, params.ContactName, params.Email, params.Phone, params.Status,
		params.Source, params.ServiceCategory, params.DealValue, params.AssignedRep, params.Notes,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1
	`, id))
}

// GetForUpdate loads a lead inside a transaction with a row lock so the
// advancement rule reads and writes a consistent status.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Lead, error) {
	return scanLead(tx.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE
	`, id))
}

// FindByEmail resolves a lead by exact, case-insensitive email match.
func (r *Repository) FindByEmail(ctx context.Context, email string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE lower(email) = lower($1)
		ORDER BY created_at ASC LIMIT 1
	`, email))
}

type UpdateLeadParams struct {
	BusinessName    *string
	ContactName     *string
	Email           *string
	Phone           *string
	Status          *string
	ResponseStatus  *string
	Source          *string
	ServiceCategory *string
	DealValue       *float64
	AssignedRep     *string
	Notes           *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			business_name = COALESCE($2, business_name),
			contact_name = COALESCE($3, contact_name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			status = COALESCE($6, status),
			response_status = COALESCE($7, response_status),
			source = COALESCE($8, source),
			service_category = COALESCE($9, service_category),
			deal_value = COALESCE($10, deal_value),
			assigned_rep = COALESCE($11, assigned_rep),
			notes = COALESCE($12, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.BusinessName, params.ContactName, params.Email, params.Phone,
		params.Status, params.ResponseStatus, params.Source, params.ServiceCategory,
		params.DealValue, params.AssignedRep, params.Notes,
	))
}

// UpdateStatus writes the lead status within the given querier, which may be
// a transaction shared with the triggering write.
func (r *Repository) UpdateStatus(ctx context.Context, q DB, id uuid.UUID, status string) error {
	tag, err := q.Exec(ctx, `UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateResponseStatus(ctx context.Context, q DB, id uuid.UUID, responseStatus string) error {
	_, err := q.Exec(ctx, `UPDATE leads SET response_status = $2, updated_at = now() WHERE id = $1`, id, responseStatus)
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListLeadsParams struct {
	Status          string
	Source          string
	ServiceCategory string
	AssignedRep     string
	Search          string
	SortBy          string
	SortOrder       string
	Limit           int
	Offset          int
}

var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"businessName": "business_name",
	"status":       "status",
	"dealValue":    "deal_value",
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 5)

	addFilter := func(clause, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	addFilter("status = $%d", params.Status)
	addFilter("source = $%d", params.Source)
	addFilter("service_category = $%d", params.ServiceCategory)
	addFilter("assigned_rep = $%d", params.AssignedRep)
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(business_name ILIKE $%d OR contact_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol, ok := sortColumns[params.SortBy]
	if !ok {
		orderCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		leadColumns, whereSQL, orderCol, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// FilterOptions returns the distinct values present for the list filters.
func (r *Repository) FilterOptions(ctx context.Context) (statuses, sources, categories, reps []string, err error) {
	collect := func(query string) ([]string, error) {
		rows, err := r.pool.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		values := make([]string, 0)
		for rows.Next() {
			var value string
			if err := rows.Scan(&value); err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return values, rows.Err()
	}

	if statuses, err = collect(`SELECT DISTINCT status FROM leads ORDER BY status`); err != nil {
		return nil, nil, nil, nil, err
	}
	if sources, err = collect(`SELECT DISTINCT source FROM leads WHERE source IS NOT NULL ORDER BY source`); err != nil {
		return nil, nil, nil, nil, err
	}
	if categories, err = collect(`SELECT DISTINCT service_category FROM leads WHERE service_category IS NOT NULL ORDER BY service_category`); err != nil {
		return nil, nil, nil, nil, err
	}
	if reps, err = collect(`SELECT DISTINCT assigned_rep FROM leads WHERE assigned_rep IS NOT NULL ORDER BY assigned_rep`); err != nil {
		return nil, nil, nil, nil, err
	}
	return statuses, sources, categories, reps, nil
}

// BulkCreate inserts a batch of leads in one transaction.
func (r *Repository) BulkCreate(ctx context.Context, batch []CreateLeadParams) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created := 0
	for _, params := range batch {
		_, err := tx.Exec(ctx, `
			INSERT INTO leads (business_name, contact_name, email, phone, status, source, service_category, deal_value, assigned_rep, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			params.BusinessName, params.ContactName, params.Email, params.Phone, params.Status,
			params.Source, params.ServiceCategory, params.DealValue, params.AssignedRep, params.Notes,
		)
		if err != nil {
			return 0, err
		}
		created++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return created, nil
}
