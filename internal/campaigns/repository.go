package campaigns

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("campaign not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Campaign struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Channel     *string    `json:"channel,omitempty"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
	TargetCount *int       `json:"target_count,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateCampaignParams struct {
	Name        string
	Status      string
	Channel     *string
	StartsOn    *time.Time
	EndsOn      *time.Time
	TargetCount *int
}

type UpdateCampaignParams struct {
	Name        *string
	Status      *string
	Channel     *string
	StartsOn    *time.Time
	EndsOn      *time.Time
	TargetCount *int
}

const campaignColumns = `id, name, status, channel, starts_on, ends_on, target_count, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Status, &c.Channel, &c.StartsOn, &c.EndsOn, &c.TargetCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Create(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (name, status, channel, starts_on, ends_on, target_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+campaignColumns,
		params.Name, params.Status, params.Channel, params.StartsOn, params.EndsOn, params.TargetCount,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1
	`, id))
}

func (r *Repository) List(ctx context.Context, status string) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateCampaignParams) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		UPDATE campaigns SET
			name = COALESCE($2, name),
			status = COALESCE($3, status),
			channel = COALESCE($4, channel),
			starts_on = COALESCE($5, starts_on),
			ends_on = COALESCE($6, ends_on),
			target_count = COALESCE($7, target_count),
			updated_at = now()
		WHERE id = $1
		RETURNING `+campaignColumns,
		id, params.Name, params.Status, params.Channel, params.StartsOn, params.EndsOn, params.TargetCount,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
