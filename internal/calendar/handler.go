package calendar

import (
	"errors"
	"net/http"
	"time"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	repo *Repository
	val  *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

type createEventRequest struct {
	LeadID   *uuid.UUID `json:"lead_id"`
	Title    string     `json:"title" validate:"required,max=300"`
	Location *string    `json:"location" validate:"omitempty,max=500"`
	Notes    *string    `json:"notes" validate:"omitempty,max=2000"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	EndsAt   *time.Time `json:"ends_at"`
}

type updateEventRequest struct {
	Title    *string    `json:"title" validate:"omitempty,max=300"`
	Location *string    `json:"location" validate:"omitempty,max=500"`
	Notes    *string    `json:"notes" validate:"omitempty,max=2000"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	event, err := h.repo.Create(c.Request.Context(), CreateEventParams{
		LeadID:   req.LeadID,
		Title:    req.Title,
		Location: req.Location,
		Notes:    req.Notes,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, event)
}

// List returns events in a date window; defaults to the next 30 days.
func (h *Handler) List(c *gin.Context) {
	from := time.Now().AddDate(0, 0, -1)
	to := time.Now().AddDate(0, 0, 30)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		to = parsed
	}

	events, err := h.repo.ListRange(c.Request.Context(), from, to)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, events)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, event)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	event, err := h.repo.Update(c.Request.Context(), id, UpdateEventParams{
		Title:    req.Title,
		Location: req.Location,
		Notes:    req.Notes,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, event)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	httpkit.HandleError(c, err)
}
