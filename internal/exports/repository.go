package exports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads flattened rows for the export endpoints.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LeadRow is a lead flattened for export.
type LeadRow struct {
	ID              uuid.UUID  `json:"id"`
	BusinessName    string     `json:"business_name"`
	ContactName     *string    `json:"contact_name,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Status          string     `json:"status"`
	Source          *string    `json:"source,omitempty"`
	ServiceCategory *string    `json:"service_category,omitempty"`
	AssignedRep     *string    `json:"assigned_rep,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
}

// ActivityRow is an activity log entry flattened for export.
type ActivityRow struct {
	ID           uuid.UUID  `json:"id"`
	LeadID       *uuid.UUID `json:"lead_id,omitempty"`
	BusinessName *string    `json:"business_name,omitempty"`
	ActivityType string     `json:"activity_type"`
	Outcome      *string    `json:"outcome,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	MemberName   *string    `json:"member_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// StatusCount pairs a lead status with its lead count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func (r *Repository) ListLeads(ctx context.Context) ([]LeadRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_name, contact_name, email, phone, status, source, service_category, assigned_rep, created_at, last_activity_at
		FROM leads
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]LeadRow, 0)
	for rows.Next() {
		var l LeadRow
		if err := rows.Scan(&l.ID, &l.BusinessName, &l.ContactName, &l.Email, &l.Phone, &l.Status,
			&l.Source, &l.ServiceCategory, &l.AssignedRep, &l.CreatedAt, &l.LastActivityAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *Repository) ListActivities(ctx context.Context, since time.Time) ([]ActivityRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.lead_id, l.business_name, a.activity_type, a.outcome, a.notes, a.member_name, a.created_at
		FROM activity_logs a
		LEFT JOIN leads l ON l.id = a.lead_id
		WHERE a.created_at >= $1
		ORDER BY a.created_at ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]ActivityRow, 0)
	for rows.Next() {
		var a ActivityRow
		if err := rows.Scan(&a.ID, &a.LeadID, &a.BusinessName, &a.ActivityType, &a.Outcome, &a.Notes, &a.MemberName, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *Repository) CountLeadsByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*) FROM leads GROUP BY status ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]StatusCount, 0)
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *Repository) CountActivitiesSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM activity_logs WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *Repository) CountEmailsSent(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM generated_emails WHERE status = 'sent' AND sent_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *Repository) CountProposals(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM proposals WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}
