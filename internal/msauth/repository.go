package msauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotConnected = errors.New("no microsoft account connected")

// StoredToken is the persisted credential set for the connected mailbox.
type StoredToken struct {
	ID           uuid.UUID
	AccountEmail string
	AccessToken  string
	RefreshToken string
	Scope        *string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tokenColumns = `id, account_email, access_token, refresh_token, scope, expires_at, updated_at`

func scanToken(row pgx.Row) (StoredToken, error) {
	var t StoredToken
	err := row.Scan(&t.ID, &t.AccountEmail, &t.AccessToken, &t.RefreshToken, &t.Scope, &t.ExpiresAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredToken{}, ErrNotConnected
	}
	return t, err
}

// Get returns the most recently updated token. A single mailbox is connected
// at a time; older rows are superseded, not read.
func (r *Repository) Get(ctx context.Context) (StoredToken, error) {
	return scanToken(r.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+` FROM microsoft_tokens
		ORDER BY updated_at DESC LIMIT 1
	`))
}

// Upsert replaces any existing tokens with the given credentials.
func (r *Repository) Upsert(ctx context.Context, accountEmail, accessToken, refreshToken string, scope *string, expiresAt time.Time) (StoredToken, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return StoredToken{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM microsoft_tokens`); err != nil {
		return StoredToken{}, err
	}
	token, err := scanToken(tx.QueryRow(ctx, `
		INSERT INTO microsoft_tokens (account_email, access_token, refresh_token, scope, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+tokenColumns,
		accountEmail, accessToken, refreshToken, scope, expiresAt,
	))
	if err != nil {
		return StoredToken{}, err
	}
	return token, tx.Commit(ctx)
}

// UpdateTokens refreshes the credentials on an existing row.
func (r *Repository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE microsoft_tokens
		SET access_token = $2, refresh_token = $3, expires_at = $4, updated_at = now()
		WHERE id = $1
	`, id, accessToken, refreshToken, expiresAt)
	return err
}

// Delete removes all stored credentials.
func (r *Repository) Delete(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM microsoft_tokens`)
	return err
}
