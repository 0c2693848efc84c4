package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TrackedEmail is a categorized sent message persisted for reply monitoring.
type TrackedEmail struct {
	ID                 uuid.UUID
	MicrosoftMessageID string
	LeadID             *uuid.UUID
	RecipientEmail     string
	Subject            string
	Category           string
	BodyPreview        *string
	SentAt             *time.Time
	CreatedAt          time.Time
}

type TrackEmailParams struct {
	MicrosoftMessageID string
	LeadID             *uuid.UUID
	RecipientEmail     string
	Subject            string
	Category           string
	BodyPreview        *string
	SentAt             *time.Time
}

const trackedColumns = `id, microsoft_message_id, lead_id, recipient_email, subject, category, body_preview, sent_at, created_at`

func scanTracked(row pgx.Row) (TrackedEmail, error) {
	var t TrackedEmail
	err := row.Scan(&t.ID, &t.MicrosoftMessageID, &t.LeadID, &t.RecipientEmail, &t.Subject, &t.Category, &t.BodyPreview, &t.SentAt, &t.CreatedAt)
	return t, err
}

// Track inserts a tracked email, skipping duplicates by provider message id.
// Returns false when the message was already tracked.
func (r *Repository) Track(ctx context.Context, params TrackEmailParams) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO tracked_emails (microsoft_message_id, lead_id, recipient_email, subject, category, body_preview, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (microsoft_message_id) DO NOTHING
	`, params.MicrosoftMessageID, params.LeadID, params.RecipientEmail, params.Subject, params.Category, params.BodyPreview, params.SentAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListTracked(ctx context.Context, limit int) ([]TrackedEmail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+trackedColumns+` FROM tracked_emails
		ORDER BY sent_at DESC NULLS LAST LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTracked(rows)
}

func (r *Repository) ListTrackedByLead(ctx context.Context, leadID uuid.UUID) ([]TrackedEmail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+trackedColumns+` FROM tracked_emails
		WHERE lead_id = $1 ORDER BY sent_at DESC NULLS LAST
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTracked(rows)
}

// TrackedCategoryCounts returns per-category totals for the stats endpoint.
func (r *Repository) TrackedCategoryCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(*) FROM tracked_emails GROUP BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// SyncStatus is the singleton sent-items sync bookmark.
type SyncStatus struct {
	LastSyncedAt *time.Time
	SyncedCount  int
	LastError    *string
}

func (r *Repository) GetSyncStatus(ctx context.Context) (SyncStatus, error) {
	var s SyncStatus
	err := r.pool.QueryRow(ctx, `
		SELECT last_synced_at, synced_count, last_error FROM email_sync_status WHERE id = 1
	`).Scan(&s.LastSyncedAt, &s.SyncedCount, &s.LastError)
	if err == pgx.ErrNoRows {
		return SyncStatus{}, nil
	}
	return s, err
}

func (r *Repository) UpsertSyncStatus(ctx context.Context, syncedCount int, lastError *string) (SyncStatus, error) {
	var s SyncStatus
	err := r.pool.QueryRow(ctx, `
		INSERT INTO email_sync_status (id, last_synced_at, synced_count, last_error)
		VALUES (1, now(), $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			last_synced_at = now(),
			synced_count = email_sync_status.synced_count + EXCLUDED.synced_count,
			last_error = EXCLUDED.last_error
		RETURNING last_synced_at, synced_count, last_error
	`, syncedCount, lastError).Scan(&s.LastSyncedAt, &s.SyncedCount, &s.LastError)
	return s, err
}

func collectTracked(rows pgx.Rows) ([]TrackedEmail, error) {
	tracked := make([]TrackedEmail, 0)
	for rows.Next() {
		t, err := scanTracked(rows)
		if err != nil {
			return nil, err
		}
		tracked = append(tracked, t)
	}
	return tracked, rows.Err()
}
