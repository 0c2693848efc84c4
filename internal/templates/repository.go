package templates

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTemplateNotFound = errors.New("email template not found")
	ErrSequenceNotFound = errors.New("email sequence not found")
	ErrScriptNotFound   = errors.New("call script not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Template is a reusable email subject and body.
type Template struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const templateColumns = `id, name, category, subject, body, created_at, updated_at`

func scanTemplate(row pgx.Row) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrTemplateNotFound
	}
	return t, err
}

func (r *Repository) CreateTemplate(ctx context.Context, name string, category *string, subject, body string) (Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `
		INSERT INTO email_templates (name, category, subject, body)
		VALUES ($1, $2, $3, $4)
		RETURNING `+templateColumns,
		name, category, subject, body,
	))
}

func (r *Repository) GetTemplate(ctx context.Context, id uuid.UUID) (Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `
		SELECT `+templateColumns+` FROM email_templates WHERE id = $1
	`, id))
}

func (r *Repository) ListTemplates(ctx context.Context, category string) ([]Template, error) {
	query := `SELECT ` + templateColumns + ` FROM email_templates`
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += ` WHERE category = $1`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *Repository) UpdateTemplate(ctx context.Context, id uuid.UUID, name, category, subject, body *string) (Template, error) {
	return scanTemplate(r.pool.QueryRow(ctx, `
		UPDATE email_templates SET
			name = COALESCE($2, name),
			category = COALESCE($3, category),
			subject = COALESCE($4, subject),
			body = COALESCE($5, body),
			updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns,
		id, name, category, subject, body,
	))
}

func (r *Repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// SequenceStep is one timed step of a sequence.
type SequenceStep struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	StepOrder  int        `json:"step_order"`
	WaitDays   int        `json:"wait_days"`
}

// Sequence is a named series of templated emails.
type Sequence struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Steps       []SequenceStep `json:"steps"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type StepParams struct {
	TemplateID *uuid.UUID
	WaitDays   int
}

// CreateSequence inserts the sequence and its steps in one transaction.
func (r *Repository) CreateSequence(ctx context.Context, name string, description *string, steps []StepParams) (Sequence, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sequence{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var seq Sequence
	err = tx.QueryRow(ctx, `
		INSERT INTO email_sequences (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at
	`, name, description).Scan(&seq.ID, &seq.Name, &seq.Description, &seq.CreatedAt, &seq.UpdatedAt)
	if err != nil {
		return Sequence{}, err
	}

	seq.Steps = make([]SequenceStep, 0, len(steps))
	for order, step := range steps {
		var s SequenceStep
		err = tx.QueryRow(ctx, `
			INSERT INTO sequence_steps (sequence_id, template_id, step_order, wait_days)
			VALUES ($1, $2, $3, $4)
			RETURNING id, template_id, step_order, wait_days
		`, seq.ID, step.TemplateID, order, step.WaitDays).Scan(&s.ID, &s.TemplateID, &s.StepOrder, &s.WaitDays)
		if err != nil {
			return Sequence{}, err
		}
		seq.Steps = append(seq.Steps, s)
	}
	return seq, tx.Commit(ctx)
}

func (r *Repository) GetSequence(ctx context.Context, id uuid.UUID) (Sequence, error) {
	var seq Sequence
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at FROM email_sequences WHERE id = $1
	`, id).Scan(&seq.ID, &seq.Name, &seq.Description, &seq.CreatedAt, &seq.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sequence{}, ErrSequenceNotFound
	}
	if err != nil {
		return Sequence{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, template_id, step_order, wait_days FROM sequence_steps
		WHERE sequence_id = $1 ORDER BY step_order ASC
	`, id)
	if err != nil {
		return Sequence{}, err
	}
	defer rows.Close()

	seq.Steps = make([]SequenceStep, 0)
	for rows.Next() {
		var s SequenceStep
		if err := rows.Scan(&s.ID, &s.TemplateID, &s.StepOrder, &s.WaitDays); err != nil {
			return Sequence{}, err
		}
		seq.Steps = append(seq.Steps, s)
	}
	return seq, rows.Err()
}

func (r *Repository) ListSequences(ctx context.Context) ([]Sequence, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, created_at, updated_at FROM email_sequences ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sequences := make([]Sequence, 0)
	for rows.Next() {
		var seq Sequence
		if err := rows.Scan(&seq.ID, &seq.Name, &seq.Description, &seq.CreatedAt, &seq.UpdatedAt); err != nil {
			return nil, err
		}
		seq.Steps = make([]SequenceStep, 0)
		sequences = append(sequences, seq)
	}
	return sequences, rows.Err()
}

// ReplaceSequence updates the sequence header and rewrites its steps.
func (r *Repository) ReplaceSequence(ctx context.Context, id uuid.UUID, name, description *string, steps []StepParams) (Sequence, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Sequence{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE email_sequences SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = now()
		WHERE id = $1
	`, id, name, description)
	if err != nil {
		return Sequence{}, err
	}
	if tag.RowsAffected() == 0 {
		return Sequence{}, ErrSequenceNotFound
	}

	if steps != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM sequence_steps WHERE sequence_id = $1`, id); err != nil {
			return Sequence{}, err
		}
		for order, step := range steps {
			if _, err := tx.Exec(ctx, `
				INSERT INTO sequence_steps (sequence_id, template_id, step_order, wait_days)
				VALUES ($1, $2, $3, $4)
			`, id, step.TemplateID, order, step.WaitDays); err != nil {
				return Sequence{}, err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Sequence{}, err
	}
	return r.GetSequence(ctx, id)
}

func (r *Repository) DeleteSequence(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_sequences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSequenceNotFound
	}
	return nil
}

// CallScript is a reusable phone outreach script.
type CallScript struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const scriptColumns = `id, name, category, body, created_at, updated_at`

func scanScript(row pgx.Row) (CallScript, error) {
	var s CallScript
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Body, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CallScript{}, ErrScriptNotFound
	}
	return s, err
}

func (r *Repository) CreateScript(ctx context.Context, name string, category *string, body string) (CallScript, error) {
	return scanScript(r.pool.QueryRow(ctx, `
		INSERT INTO call_scripts (name, category, body)
		VALUES ($1, $2, $3)
		RETURNING `+scriptColumns,
		name, category, body,
	))
}

func (r *Repository) GetScript(ctx context.Context, id uuid.UUID) (CallScript, error) {
	return scanScript(r.pool.QueryRow(ctx, `
		SELECT `+scriptColumns+` FROM call_scripts WHERE id = $1
	`, id))
}

func (r *Repository) ListScripts(ctx context.Context) ([]CallScript, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scriptColumns+` FROM call_scripts ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scripts := make([]CallScript, 0)
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, rows.Err()
}

func (r *Repository) UpdateScript(ctx context.Context, id uuid.UUID, name, category, body *string) (CallScript, error) {
	return scanScript(r.pool.QueryRow(ctx, `
		UPDATE call_scripts SET
			name = COALESCE($2, name),
			category = COALESCE($3, category),
			body = COALESCE($4, body),
			updated_at = now()
		WHERE id = $1
		RETURNING `+scriptColumns,
		id, name, category, body,
	))
}

func (r *Repository) DeleteScript(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM call_scripts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScriptNotFound
	}
	return nil
}
