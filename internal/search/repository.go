package search

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

// Result is a single match from one of the searched entity types.
type Result struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Status   string    `json:"status,omitempty"`
}

// HistoryEntry is a recorded search.
type HistoryEntry struct {
	ID          uuid.UUID `json:"id"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}

func (r *Repository) SearchLeads(ctx context.Context, pattern string, limit int) ([]Result, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_name, COALESCE(contact_name, ''), status
		FROM leads
		WHERE business_name ILIKE $1 OR contact_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1
		ORDER BY last_activity_at DESC NULLS LAST
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.Title, &res.Subtitle, &res.Status); err != nil {
			return nil, err
		}
		res.Type = "lead"
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *Repository) SearchProposals(ctx context.Context, pattern string, limit int) ([]Result, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, COALESCE(l.business_name, ''), p.status
		FROM proposals p
		LEFT JOIN leads l ON l.id = p.lead_id
		WHERE p.title ILIKE $1 OR l.business_name ILIKE $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.Title, &res.Subtitle, &res.Status); err != nil {
			return nil, err
		}
		res.Type = "proposal"
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *Repository) SearchTemplates(ctx context.Context, pattern string, limit int) ([]Result, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(category, '')
		FROM email_templates
		WHERE name ILIKE $1 OR subject ILIKE $1 OR body ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		var res Result
		if err := rows.Scan(&res.ID, &res.Title, &res.Subtitle); err != nil {
			return nil, err
		}
		res.Type = "template"
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *Repository) RecordSearch(ctx context.Context, query string, resultCount int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO search_history (query, result_count) VALUES ($1, $2)
	`, query, resultCount)
	return err
}

func (r *Repository) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, query, result_count, searched_at
		FROM search_history
		ORDER BY searched_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
