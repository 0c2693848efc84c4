package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMemberNotFound = errors.New("member not found")

// Member is a team member account.
type Member struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const memberColumns = `id, name, email, role, password_hash, is_active, created_at, updated_at`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.PasswordHash, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrMemberNotFound
	}
	return m, err
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM team_members WHERE lower(email) = lower($1)
	`, email))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM team_members WHERE id = $1
	`, id))
}

// UpdateProfile lets a member change their own name and email.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		UPDATE team_members SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns,
		id, name, email,
	))
}
