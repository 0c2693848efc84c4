package team

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("team member not found")
	ErrEmailExists = errors.New("a member with that email already exists")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Member struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Role          string
	IsActive      bool
	DailyTarget   int
	WeeklyTarget  int
	MonthlyTarget int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateMemberParams struct {
	Name          string
	Email         string
	Role          string
	PasswordHash  string
	DailyTarget   int
	WeeklyTarget  int
	MonthlyTarget int
}

type UpdateMemberParams struct {
	Name          *string
	Email         *string
	Role          *string
	IsActive      *bool
	DailyTarget   *int
	WeeklyTarget  *int
	MonthlyTarget *int
}

const memberColumns = `id, name, email, role, is_active, daily_target, weekly_target, monthly_target, created_at, updated_at`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.IsActive, &m.DailyTarget, &m.WeeklyTarget, &m.MonthlyTarget, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) Create(ctx context.Context, params CreateMemberParams) (Member, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE lower(email) = lower($1))
	`, params.Email).Scan(&exists); err != nil {
		return Member{}, err
	}
	if exists {
		return Member{}, ErrEmailExists
	}

	return scanMember(r.pool.QueryRow(ctx, `
		INSERT INTO team_members (name, email, role, password_hash, daily_target, weekly_target, monthly_target)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+memberColumns,
		params.Name, params.Email, params.Role, params.PasswordHash,
		params.DailyTarget, params.WeeklyTarget, params.MonthlyTarget,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM team_members WHERE id = $1
	`, id))
}

func (r *Repository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+` FROM team_members ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateMemberParams) (Member, error) {
	return scanMember(r.pool.QueryRow(ctx, `
		UPDATE team_members SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			role = COALESCE($4, role),
			is_active = COALESCE($5, is_active),
			daily_target = COALESCE($6, daily_target),
			weekly_target = COALESCE($7, weekly_target),
			monthly_target = COALESCE($8, monthly_target),
			updated_at = now()
		WHERE id = $1
		RETURNING `+memberColumns,
		id, params.Name, params.Email, params.Role, params.IsActive,
		params.DailyTarget, params.WeeklyTarget, params.MonthlyTarget,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Performance summarizes a member's activity and outcomes.
type Performance struct {
	TotalActivities int
	Calls           int
	Emails          int
	Meetings        int
	LeadsConverted  int
}

// MemberPerformance aggregates activity logs by member name. Activity logs
// reference members by display name rather than id, so the lookup goes
// through the member row first.
func (r *Repository) MemberPerformance(ctx context.Context, id uuid.UUID, since time.Time) (Performance, error) {
	member, err := r.GetByID(ctx, id)
	if err != nil {
		return Performance{}, err
	}

	var p Performance
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE activity_type = 'Call'),
			COUNT(*) FILTER (WHERE activity_type = 'Email'),
			COUNT(*) FILTER (WHERE activity_type = 'Meeting')
		FROM activity_logs
		WHERE member_name = $1 AND occurred_at >= $2
	`, member.Name, since).Scan(&p.TotalActivities, &p.Calls, &p.Emails, &p.Meetings)
	if err != nil {
		return Performance{}, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE assigned_rep = $1 AND status = 'Converted' AND updated_at >= $2
	`, member.Name, since).Scan(&p.LeadsConverted)
	return p, err
}
