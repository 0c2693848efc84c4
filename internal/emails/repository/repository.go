// Package repository provides persistence for the outbound email queue and
// the tracked outreach emails.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("email not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Email is a row in the outbound queue.
type Email struct {
	ID                uuid.UUID
	LeadID            *uuid.UUID
	RecipientEmail    string
	RecipientName     *string
	Subject           string
	BodyHTML          string
	Status            string
	Priority          string
	Source            string
	ReplyStatus       *string
	RejectionReason   *string
	ProviderMessageID *string
	InternetMessageID *string
	SentAt            *time.Time
	RepliedAt         *time.Time
	ReplySnippet      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type CreateEmailParams struct {
	LeadID         *uuid.UUID
	RecipientEmail string
	RecipientName  *string
	Subject        string
	BodyHTML       string
	Status         string
	Priority       string
	Source         string
}

type UpdateEmailParams struct {
	RecipientEmail *string
	RecipientName  *string
	Subject        *string
	BodyHTML       *string
	Priority       *string
}

const emailColumns = `id, lead_id, recipient_email, recipient_name, subject, body_html,
	status, priority, source, reply_status, rejection_reason,
	provider_message_id, internet_message_id, sent_at, replied_at, reply_snippet,
	created_at, updated_at`

func scanEmail(row pgx.Row) (Email, error) {
	var e Email
	err := row.Scan(
		&e.ID, &e.LeadID, &e.RecipientEmail, &e.RecipientName, &e.Subject, &e.BodyHTML,
		&e.Status, &e.Priority, &e.Source, &e.ReplyStatus, &e.RejectionReason,
		&e.ProviderMessageID, &e.InternetMessageID, &e.SentAt, &e.RepliedAt, &e.ReplySnippet,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Email{}, ErrNotFound
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, params CreateEmailParams) (Email, error) {
	return scanEmail(r.pool.QueryRow(ctx, `
		INSERT INTO generated_emails (lead_id, recipient_email, recipient_name, subject, body_html, status, priority, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+emailColumns,
		params.LeadID, params.RecipientEmail, params.RecipientName, params.Subject,
		params.BodyHTML, params.Status, params.Priority, params.Source,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Email, error) {
	return scanEmail(r.pool.QueryRow(ctx, `
		SELECT `+emailColumns+` FROM generated_emails WHERE id = $1
	`, id))
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateEmailParams) (Email, error) {
	return scanEmail(r.pool.QueryRow(ctx, `
		UPDATE generated_emails SET
			recipient_email = COALESCE($2, recipient_email),
			recipient_name = COALESCE($3, recipient_name),
			subject = COALESCE($4, subject),
			body_html = COALESCE($5, body_html),
			priority = COALESCE($6, priority),
			updated_at = now()
		WHERE id = $1
		RETURNING `+emailColumns,
		id, params.RecipientEmail, params.RecipientName, params.Subject, params.BodyHTML, params.Priority,
	))
}

// SetStatus moves an email between lifecycle states. The reason is only
// stored for rejections.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string, reason *string) (Email, error) {
	return scanEmail(r.pool.QueryRow(ctx, `
		UPDATE generated_emails
		SET status = $2, rejection_reason = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+emailColumns,
		id, status, reason,
	))
}

// MarkSent records provider identifiers and opens the reply-tracking state.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID, internetMessageID *string) (Email, error) {
	return scanEmail(r.pool.QueryRow(ctx, `
		UPDATE generated_emails
		SET status = 'sent', reply_status = 'no_reply', sent_at = now(),
			provider_message_id = $2, internet_message_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+emailColumns,
		id, providerMessageID, internetMessageID,
	))
}

// MarkReplied closes out reply tracking for one sent email.
func (r *Repository) MarkReplied(ctx context.Context, id uuid.UUID, repliedAt time.Time, snippet *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE generated_emails
		SET reply_status = 'replied', replied_at = $2, reply_snippet = $3, updated_at = now()
		WHERE id = $1 AND status = 'sent' AND (reply_status IS NULL OR reply_status = 'no_reply')
	`, id, repliedAt, snippet)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkLead associates an email with a lead after the fact.
func (r *Repository) LinkLead(ctx context.Context, id, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE generated_emails SET lead_id = $2, updated_at = now() WHERE id = $1
	`, id, leadID)
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM generated_emails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListEmailsParams struct {
	Status string
	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, params ListEmailsParams) ([]Email, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		args = append(args, params.Status)
		where = fmt.Sprintf("WHERE status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM generated_emails `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM generated_emails %s
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'normal' THEN 1 ELSE 2 END, created_at DESC
		LIMIT $%d OFFSET $%d
	`, emailColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	emails, err := collectEmails(rows)
	return emails, total, err
}

// CountsByStatus returns queue totals per lifecycle state.
func (r *Repository) CountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM generated_emails GROUP BY status
	`)
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

// ListAwaitingReply returns sent emails still open for reply matching.
func (r *Repository) ListAwaitingReply(ctx context.Context) ([]Email, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+emailColumns+` FROM generated_emails
		WHERE status = 'sent' AND (reply_status IS NULL OR reply_status = 'no_reply')
		ORDER BY sent_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEmails(rows)
}

func collectEmails(rows pgx.Rows) ([]Email, error) {
	emails := make([]Email, 0)
	for rows.Next() {
		email, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
