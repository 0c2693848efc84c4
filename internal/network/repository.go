package network

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("network record not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Client is a referral network client used to color and group edges.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Entity is a node in the referral graph: a person, firm or fund.
type Entity struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	EntityType string    `json:"type"`
	Depth      int       `json:"depth"`
	CreatedAt  time.Time `json:"created_at"`
}

// Edge connects two entities. ClientIDs lists the clients the
// relationship was observed through.
type Edge struct {
	ID           uuid.UUID   `json:"id"`
	FromEntityID uuid.UUID   `json:"from"`
	ToEntityID   uuid.UUID   `json:"to"`
	Strength     float64     `json:"strength"`
	ClientIDs    []uuid.UUID `json:"clients"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (r *Repository) CreateClient(ctx context.Context, name, color string) (Client, error) {
	var c Client
	err := r.pool.QueryRow(ctx, `
		INSERT INTO network_clients (name, color) VALUES ($1, $2)
		RETURNING id, name, color, created_at
	`, name, color).Scan(&c.ID, &c.Name, &c.Color, &c.CreatedAt)
	return c, err
}

func (r *Repository) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color, created_at FROM network_clients ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]Client, 0)
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *Repository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, `DELETE FROM network_clients WHERE id = $1`, id)
}

func (r *Repository) CreateEntity(ctx context.Context, label, entityType string, depth int) (Entity, error) {
	var e Entity
	err := r.pool.QueryRow(ctx, `
		INSERT INTO network_entities (label, entity_type, depth) VALUES ($1, $2, $3)
		RETURNING id, label, entity_type, depth, created_at
	`, label, entityType, depth).Scan(&e.ID, &e.Label, &e.EntityType, &e.Depth, &e.CreatedAt)
	return e, err
}

func (r *Repository) ListEntities(ctx context.Context) ([]Entity, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, label, entity_type, depth, created_at FROM network_entities ORDER BY depth ASC, label ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entities := make([]Entity, 0)
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.Label, &e.EntityType, &e.Depth, &e.CreatedAt); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

func (r *Repository) DeleteEntity(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, `DELETE FROM network_entities WHERE id = $1`, id)
}

func (r *Repository) CreateEdge(ctx context.Context, from, to uuid.UUID, strength float64, clientIDs []uuid.UUID) (Edge, error) {
	var e Edge
	err := r.pool.QueryRow(ctx, `
		INSERT INTO network_edges (from_entity_id, to_entity_id, strength, client_ids) VALUES ($1, $2, $3, $4)
		RETURNING id, from_entity_id, to_entity_id, strength, client_ids, created_at
	`, from, to, strength, clientIDs).Scan(&e.ID, &e.FromEntityID, &e.ToEntityID, &e.Strength, &e.ClientIDs, &e.CreatedAt)
	return e, err
}

func (r *Repository) ListEdges(ctx context.Context) ([]Edge, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, from_entity_id, to_entity_id, strength, client_ids, created_at FROM network_edges ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]Edge, 0)
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.FromEntityID, &e.ToEntityID, &e.Strength, &e.ClientIDs, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.ClientIDs == nil {
			e.ClientIDs = []uuid.UUID{}
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (r *Repository) DeleteEdge(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, `DELETE FROM network_edges WHERE id = $1`, id)
}

func (r *Repository) deleteByID(ctx context.Context, query string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
