package reminders

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

type createReminderRequest struct {
	LeadID *uuid.UUID `json:"lead_id"`
	Title  string     `json:"title" validate:"required,max=300"`
	Notes  *string    `json:"notes" validate:"omitempty,max=2000"`
	DueAt  time.Time  `json:"due_at" validate:"required"`
}

type updateReminderRequest struct {
	Title *string    `json:"title" validate:"omitempty,max=300"`
	Notes *string    `json:"notes" validate:"omitempty,max=2000"`
	DueAt *time.Time `json:"due_at"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	reminder, err := h.repo.Create(c.Request.Context(), CreateReminderParams{
		LeadID: req.LeadID,
		Title:  req.Title,
		Notes:  req.Notes,
		DueAt:  req.DueAt,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, reminder)
}

func (h *Handler) List(c *gin.Context) {
	params := ListRemindersParams{
		UpcomingOnly: c.Query("upcoming") == "true",
		IncludeDone:  c.Query("include_done") == "true",
	}
	if raw := c.Query("lead_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		params.LeadID = &id
	}

	reminders, err := h.repo.List(c.Request.Context(), params)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, reminders)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	reminder, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, reminder)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	reminder, err := h.repo.Update(c.Request.Context(), id, UpdateReminderParams{
		Title: req.Title,
		Notes: req.Notes,
		DueAt: req.DueAt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, reminder)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	reminder, err := h.repo.Complete(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, reminder)
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
