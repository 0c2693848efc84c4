package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// respondedStatuses are the response statuses counted as a reply.
const respondedFilter = `response_status IN ('replied', 'interested')`

// ResponseCounts holds per-response-status lead counts for a period.
func (r *Repository) ResponseCounts(ctx context.Context, since time.Time) (map[string]int, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(response_status, 'no_response'), count(*)
		FROM leads WHERE created_at >= $1
		GROUP BY 1
	`, since)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	total := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, err
		}
		counts[status] = count
		total += count
	}
	return counts, total, rows.Err()
}

// SliceRate is a lead segment with its reply share.
type SliceRate struct {
	Total        int     `json:"total"`
	Replied      int     `json:"replied"`
	ResponseRate float64 `json:"response_rate"`
}

func (r *Repository) ResponseRatesBy(ctx context.Context, column, fallback string, since time.Time) (map[string]SliceRate, error) {
	// column is one of the fixed dimension names below, never user input.
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(`+column+`, '`+fallback+`'), count(*), count(*) FILTER (WHERE `+respondedFilter+`)
		FROM leads WHERE created_at >= $1
		GROUP BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slices := make(map[string]SliceRate)
	for rows.Next() {
		var key string
		var slice SliceRate
		if err := rows.Scan(&key, &slice.Total, &slice.Replied); err != nil {
			return nil, err
		}
		slices[key] = slice
	}
	return slices, rows.Err()
}

// ClosedLead is a converted lead with its time to close in whole days.
type ClosedLead struct {
	LeadID          uuid.UUID `json:"lead_id"`
	LeadName        string    `json:"lead_name"`
	DaysToClose     int       `json:"days_to_close"`
	ServiceCategory *string   `json:"service_category,omitempty"`
	Source          *string   `json:"source,omitempty"`
}

func (r *Repository) ClosedLeads(ctx context.Context) ([]ClosedLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_name,
			floor(extract(epoch FROM (updated_at - created_at)) / 86400)::int,
			service_category, source
		FROM leads WHERE status = 'Converted'
		ORDER BY 3 ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	closed := make([]ClosedLead, 0)
	for rows.Next() {
		var cl ClosedLead
		if err := rows.Scan(&cl.LeadID, &cl.LeadName, &cl.DaysToClose, &cl.ServiceCategory, &cl.Source); err != nil {
			return nil, err
		}
		closed = append(closed, cl)
	}
	return closed, rows.Err()
}

// StageValue is one pipeline stage with its deal count and summed value.
type StageValue struct {
	Stage string  `json:"stage"`
	Color string  `json:"color"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// StageValues sums deal values per pipeline stage in board order, with an
// Unassigned bucket first for leads outside the pipeline.
func (r *Repository) StageValues(ctx context.Context) ([]StageValue, error) {
	var unassigned StageValue
	unassigned.Stage = "Unassigned"
	unassigned.Color = "#9ca3af"
	err := r.pool.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(deal_value), 0)
		FROM leads WHERE deal_value IS NOT NULL AND pipeline_stage_id IS NULL
	`).Scan(&unassigned.Count, &unassigned.Value)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT s.name, s.color, count(l.id), COALESCE(sum(l.deal_value), 0)
		FROM pipeline_stages s
		LEFT JOIN leads l ON l.pipeline_stage_id = s.id AND l.deal_value IS NOT NULL
		GROUP BY s.id, s.name, s.color, s.position
		ORDER BY s.position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []StageValue{unassigned}
	for rows.Next() {
		var sv StageValue
		if err := rows.Scan(&sv.Stage, &sv.Color, &sv.Count, &sv.Value); err != nil {
			return nil, err
		}
		values = append(values, sv)
	}
	return values, rows.Err()
}

// SliceValue is a lead segment with its deal count and summed value.
type SliceValue struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

func (r *Repository) DealValuesBy(ctx context.Context, column, fallback string) (map[string]SliceValue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(`+column+`, '`+fallback+`'), count(*), sum(deal_value)
		FROM leads WHERE deal_value IS NOT NULL
		GROUP BY 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slices := make(map[string]SliceValue)
	for rows.Next() {
		var key string
		var slice SliceValue
		if err := rows.Scan(&key, &slice.Count, &slice.Value); err != nil {
			return nil, err
		}
		slices[key] = slice
	}
	return slices, rows.Err()
}
