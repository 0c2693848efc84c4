package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountLeads(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads`).Scan(&count)
	return count, err
}

func (r *Repository) CountActivitiesBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM activity_logs WHERE occurred_at >= $1 AND occurred_at < $2
	`, from, to).Scan(&count)
	return count, err
}

func (r *Repository) CountActivitiesSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM activity_logs WHERE occurred_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *Repository) LeadCountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *Repository) ActivityCountsByType(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT activity_type, count(*) FROM activity_logs WHERE occurred_at >= $1 GROUP BY activity_type
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var activityType string
		var count int
		if err := rows.Scan(&activityType, &count); err != nil {
			return nil, err
		}
		counts[activityType] = count
	}
	return counts, rows.Err()
}

func (r *Repository) CountLeadsWithStatuses(ctx context.Context, statuses []string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE status = ANY($1)`, statuses).Scan(&count)
	return count, err
}

func (r *Repository) CountUniqueContactedLeads(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(DISTINCT lead_id) FROM activity_logs WHERE lead_id IS NOT NULL`).Scan(&count)
	return count, err
}

// TargetSums returns the summed member targets used as team-wide goals.
func (r *Repository) TargetSums(ctx context.Context) (daily, weekly, monthly int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(daily_target), 0), COALESCE(SUM(weekly_target), 0), COALESCE(SUM(monthly_target), 0)
		FROM team_members WHERE is_active
	`).Scan(&daily, &weekly, &monthly)
	return daily, weekly, monthly, err
}

// LeaderboardRow aggregates one member's recent activity.
type LeaderboardRow struct {
	Rep           string `json:"rep"`
	Rank          int    `json:"rank"`
	Activities    int    `json:"activities"`
	Calls         int    `json:"calls"`
	Emails        int    `json:"emails"`
	Conversions   int    `json:"conversions"`
	LeadsAssigned int    `json:"leads_assigned"`
}

// LeaderboardRows computes per-member counts since the given instant.
// Orphan logs (no lead) are credited to the member who wrote them, and
// the email count is the larger of queue-sent emails and logged email
// activities so neither path undercounts.
func (r *Repository) LeaderboardRows(ctx context.Context, since time.Time) ([]LeaderboardRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			m.name,
			COALESCE(a.activities, 0) + COALESCE(q.sent, 0),
			COALESCE(a.calls, 0),
			GREATEST(COALESCE(q.sent, 0), COALESCE(a.email_logs, 0)),
			COALESCE(c.conversions, 0),
			COALESCE(l.assigned, 0)
		FROM team_members m
		LEFT JOIN LATERAL (
			SELECT
				count(*) AS activities,
				count(*) FILTER (WHERE al.activity_type = 'Call') AS calls,
				count(*) FILTER (WHERE al.activity_type = 'Email') AS email_logs
			FROM activity_logs al
			LEFT JOIN leads al_l ON al_l.id = al.lead_id
			WHERE al.occurred_at >= $1
				AND (al_l.assigned_rep = m.name OR (al.lead_id IS NULL AND al.member_name = m.name))
		) a ON true
		LEFT JOIN LATERAL (
			SELECT count(*) AS sent
			FROM generated_emails e
			JOIN leads el ON el.id = e.lead_id
			WHERE el.assigned_rep = m.name AND e.status = 'sent' AND e.sent_at >= $1
		) q ON true
		LEFT JOIN LATERAL (
			SELECT count(*) AS conversions
			FROM leads cl
			WHERE cl.assigned_rep = m.name
				AND cl.status = ANY('{Qualified Lead,Proposal Sent,Converted}')
				AND cl.last_activity_at >= $1
		) c ON true
		LEFT JOIN LATERAL (
			SELECT count(*) AS assigned FROM leads ll WHERE ll.assigned_rep = m.name
		) l ON true
		WHERE m.is_active
		ORDER BY 2 DESC, m.name ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	board := make([]LeaderboardRow, 0)
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.Rep, &row.Activities, &row.Calls, &row.Emails, &row.Conversions, &row.LeadsAssigned); err != nil {
			return nil, err
		}
		row.Rank = len(board) + 1
		board = append(board, row)
	}
	return board, rows.Err()
}

// TrendPoint is one day of activity counts.
type TrendPoint struct {
	Date       string `json:"date"`
	Day        string `json:"day"`
	Activities int    `json:"activities"`
	Calls      int    `json:"calls"`
	Emails     int    `json:"emails"`
}

// Trends returns daily activity counts for the last N days, oldest first.
// Days with no activity appear with zero counts.
func (r *Repository) Trends(ctx context.Context, days int, now time.Time) ([]TrendPoint, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	rows, err := r.pool.Query(ctx, `
		SELECT
			date_trunc('day', occurred_at)::date,
			count(*),
			count(*) FILTER (WHERE activity_type = 'Call'),
			count(*) FILTER (WHERE activity_type = 'Email')
		FROM activity_logs
		WHERE occurred_at >= $1
		GROUP BY 1
	`, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]TrendPoint)
	for rows.Next() {
		var day time.Time
		var point TrendPoint
		if err := rows.Scan(&day, &point.Activities, &point.Calls, &point.Emails); err != nil {
			return nil, err
		}
		byDay[day.Format("2006-01-02")] = point
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		point := byDay[key]
		point.Date = key
		point.Day = day.Format("Mon")
		points = append(points, point)
	}
	return points, nil
}
