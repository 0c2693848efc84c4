package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Notification struct {
	ID         uuid.UUID `json:"id"`
	MemberName *string   `json:"member_name,omitempty"`
	Title      string    `json:"title"`
	Body       *string   `json:"body,omitempty"`
	Category   string    `json:"category"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

const notificationColumns = `id, member_name, title, body, category, read, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.MemberName, &n.Title, &n.Body, &n.Category, &n.Read, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}

func (r *Repository) Create(ctx context.Context, memberName *string, title string, body *string, category string) (Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx, `
		INSERT INTO notifications (member_name, title, body, category)
		VALUES ($1, $2, $3, $4)
		RETURNING `+notificationColumns,
		memberName, title, body, category,
	))
}

func (r *Repository) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		query += ` WHERE NOT read`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE NOT read`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
