package proposals

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("proposal not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Proposal is a priced offer tied to a lead. Configuration holds the line
// items as JSON.
type Proposal struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	Title         string
	Status        string
	Configuration []LineItem
	Subtotal      float64
	Discount      float64
	Total         float64
	ValidUntil    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const proposalColumns = `id, lead_id, title, status, configuration, subtotal, discount, total, valid_until, created_at, updated_at`

func scanProposal(row pgx.Row) (Proposal, error) {
	var p Proposal
	var configuration []byte
	err := row.Scan(&p.ID, &p.LeadID, &p.Title, &p.Status, &configuration, &p.Subtotal, &p.Discount, &p.Total, &p.ValidUntil, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Proposal{}, ErrNotFound
	}
	if err != nil {
		return Proposal{}, err
	}
	if len(configuration) > 0 {
		if err := json.Unmarshal(configuration, &p.Configuration); err != nil {
			return Proposal{}, err
		}
	}
	return p, nil
}

type CreateProposalParams struct {
	LeadID        uuid.UUID
	Title         string
	Configuration []LineItem
	Subtotal      float64
	Discount      float64
	Total         float64
	ValidUntil    *time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateProposalParams) (Proposal, error) {
	configuration, err := json.Marshal(params.Configuration)
	if err != nil {
		return Proposal{}, err
	}
	return scanProposal(r.pool.QueryRow(ctx, `
		INSERT INTO proposals (lead_id, title, configuration, subtotal, discount, total, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+proposalColumns,
		params.LeadID, params.Title, configuration, params.Subtotal, params.Discount, params.Total, params.ValidUntil,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Proposal, error) {
	return scanProposal(r.pool.QueryRow(ctx, `
		SELECT `+proposalColumns+` FROM proposals WHERE id = $1
	`, id))
}

type UpdateProposalParams struct {
	Title         *string
	Configuration []LineItem
	Subtotal      *float64
	Discount      *float64
	Total         *float64
	ValidUntil    *time.Time
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateProposalParams) (Proposal, error) {
	var configuration []byte
	if params.Configuration != nil {
		data, err := json.Marshal(params.Configuration)
		if err != nil {
			return Proposal{}, err
		}
		configuration = data
	}
	return scanProposal(r.pool.QueryRow(ctx, `
		UPDATE proposals SET
			title = COALESCE($2, title),
			configuration = COALESCE($3, configuration),
			subtotal = COALESCE($4, subtotal),
			discount = COALESCE($5, discount),
			total = COALESCE($6, total),
			valid_until = COALESCE($7, valid_until),
			updated_at = now()
		WHERE id = $1
		RETURNING `+proposalColumns,
		id, params.Title, configuration, params.Subtotal, params.Discount, params.Total, params.ValidUntil,
	))
}

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) (Proposal, error) {
	return scanProposal(r.pool.QueryRow(ctx, `
		UPDATE proposals SET status = $2, updated_at = now() WHERE id = $1
		RETURNING `+proposalColumns,
		id, status,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, leadID *uuid.UUID, status string) ([]Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE 1=1`
	args := []any{}
	if leadID != nil {
		args = append(args, *leadID)
		query += ` AND lead_id = $1`
	}
	if status != "" {
		args = append(args, status)
		if len(args) == 1 {
			query += ` AND status = $1`
		} else {
			query += ` AND status = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proposals := make([]Proposal, 0)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
