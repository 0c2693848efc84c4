package network

import (
	"context"
	"errors"
	"net/http"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	defaultClientColor = "#3b82f6"
)

type Handler struct {
	repo *Repository
	val  *validator.Validator
}

func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

type createClientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type createEntityRequest struct {
	Label string `json:"label" validate:"required,max=200"`
	Type  string `json:"type" validate:"omitempty,oneof=person firm fund"`
	Depth int    `json:"depth" validate:"omitempty,gte=1,lte=10"`
}

type createEdgeRequest struct {
	From     uuid.UUID   `json:"from" validate:"required"`
	To       uuid.UUID   `json:"to" validate:"required"`
	Strength *float64    `json:"strength" validate:"omitempty,gt=0"`
	Clients  []uuid.UUID `json:"clients"`
}

type graphResponse struct {
	Clients  []Client `json:"clients"`
	Entities []Entity `json:"entities"`
	Edges    []Edge   `json:"edges"`
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	color := req.Color
	if color == "" {
		color = defaultClientColor
	}
	client, err := h.repo.CreateClient(c.Request.Context(), req.Name, color)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, client)
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.repo.ListClients(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, clients)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	h.deleteByParam(c, h.repo.DeleteClient)
}

func (h *Handler) CreateEntity(c *gin.Context) {
	var req createEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	entityType := req.Type
	if entityType == "" {
		entityType = "person"
	}
	depth := req.Depth
	if depth == 0 {
		depth = 1
	}
	entity, err := h.repo.CreateEntity(c.Request.Context(), req.Label, entityType, depth)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, entity)
}

func (h *Handler) ListEntities(c *gin.Context) {
	entities, err := h.repo.ListEntities(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, entities)
}

func (h *Handler) DeleteEntity(c *gin.Context) {
	h.deleteByParam(c, h.repo.DeleteEntity)
}

func (h *Handler) CreateEdge(c *gin.Context) {
	var req createEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	strength := 1.0
	if req.Strength != nil {
		strength = *req.Strength
	}
	clients := req.Clients
	if clients == nil {
		clients = []uuid.UUID{}
	}
	edge, err := h.repo.CreateEdge(c.Request.Context(), req.From, req.To, strength, clients)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, edge)
}

func (h *Handler) ListEdges(c *gin.Context) {
	edges, err := h.repo.ListEdges(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, edges)
}

func (h *Handler) DeleteEdge(c *gin.Context) {
	h.deleteByParam(c, h.repo.DeleteEdge)
}

// Graph returns the whole referral graph in one payload.
func (h *Handler) Graph(c *gin.Context) {
	var resp graphResponse

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		clients, err := h.repo.ListClients(ctx)
		resp.Clients = clients
		return err
	})
	g.Go(func() error {
		entities, err := h.repo.ListEntities(ctx)
		resp.Entities = entities
		return err
	})
	g.Go(func() error {
		edges, err := h.repo.ListEdges(ctx)
		resp.Edges = edges
		return err
	})
	if err := g.Wait(); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) deleteByParam(c *gin.Context, del func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := del(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}
