package automation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("automation rule not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Rule is a stored automation rule. Trigger and action configuration are
// free-form JSON objects interpreted by the executor.
type Rule struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   *string        `json:"description,omitempty"`
	TriggerType   string         `json:"trigger_type"`
	TriggerConfig map[string]any `json:"trigger_config"`
	ActionType    string         `json:"action_type"`
	ActionConfig  map[string]any `json:"action_config"`
	Enabled       bool           `json:"enabled"`
	RunCount      int            `json:"run_count"`
	LastRunAt     *time.Time     `json:"last_run_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type CreateRuleParams struct {
	Name          string
	Description   *string
	TriggerType   string
	TriggerConfig map[string]any
	ActionType    string
	ActionConfig  map[string]any
	Enabled       bool
}

type UpdateRuleParams struct {
	Name          *string
	Description   *string
	TriggerType   *string
	TriggerConfig map[string]any
	ActionType    *string
	ActionConfig  map[string]any
	Enabled       *bool
}

const ruleColumns = `id, name, description, trigger_type, trigger_config, action_type, action_config, enabled, run_count, last_run_at, created_at, updated_at`

func scanRule(row pgx.Row) (Rule, error) {
	var (
		r             Rule
		triggerConfig []byte
		actionConfig  []byte
	)
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.TriggerType, &triggerConfig,
		&r.ActionType, &actionConfig, &r.Enabled, &r.RunCount, &r.LastRunAt, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rule{}, ErrNotFound
	}
	if err != nil {
		return Rule{}, err
	}
	if len(triggerConfig) > 0 {
		if err := json.Unmarshal(triggerConfig, &r.TriggerConfig); err != nil {
			return Rule{}, err
		}
	}
	if len(actionConfig) > 0 {
		if err := json.Unmarshal(actionConfig, &r.ActionConfig); err != nil {
			return Rule{}, err
		}
	}
	return r, nil
}

func marshalConfig(config map[string]any) ([]byte, error) {
	if config == nil {
		config = map[string]any{}
	}
	return json.Marshal(config)
}

func (r *Repository) Create(ctx context.Context, params CreateRuleParams) (Rule, error) {
	triggerConfig, err := marshalConfig(params.TriggerConfig)
	if err != nil {
		return Rule{}, err
	}
	actionConfig, err := marshalConfig(params.ActionConfig)
	if err != nil {
		return Rule{}, err
	}
	return scanRule(r.pool.QueryRow(ctx, `
		INSERT INTO automation_rules (name, description, trigger_type, trigger_config, action_type, action_config, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+ruleColumns,
		params.Name, params.Description, params.TriggerType, triggerConfig, params.ActionType, actionConfig, params.Enabled,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Rule, error) {
	return scanRule(r.pool.QueryRow(ctx, `
		SELECT `+ruleColumns+` FROM automation_rules WHERE id = $1
	`, id))
}

func (r *Repository) List(ctx context.Context) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+` FROM automation_rules ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]Rule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateRuleParams) (Rule, error) {
	var (
		triggerConfig []byte
		actionConfig  []byte
		err           error
	)
	if params.TriggerConfig != nil {
		if triggerConfig, err = json.Marshal(params.TriggerConfig); err != nil {
			return Rule{}, err
		}
	}
	if params.ActionConfig != nil {
		if actionConfig, err = json.Marshal(params.ActionConfig); err != nil {
			return Rule{}, err
		}
	}
	return scanRule(r.pool.QueryRow(ctx, `
		UPDATE automation_rules SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			trigger_type = COALESCE($4, trigger_type),
			trigger_config = COALESCE($5, trigger_config),
			action_type = COALESCE($6, action_type),
			action_config = COALESCE($7, action_config),
			enabled = COALESCE($8, enabled),
			updated_at = now()
		WHERE id = $1
		RETURNING `+ruleColumns,
		id, params.Name, params.Description, params.TriggerType, triggerConfig, params.ActionType, actionConfig, params.Enabled,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM automation_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordRun bumps the execution counters after a manual run.
func (r *Repository) RecordRun(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE automation_rules SET run_count = run_count + 1, last_run_at = now() WHERE id = $1
	`, id)
	return err
}
