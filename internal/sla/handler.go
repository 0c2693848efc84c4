package sla

import (
	"errors"
	"net/http"
	"time"

	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	repo     *Repository
	eventBus events.Bus
	val      *validator.Validator
	log      *logger.Logger
}

func NewHandler(repo *Repository, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{repo: repo, eventBus: eventBus, val: val, log: log}
}

type createTimerRequest struct {
	LeadID   uuid.UUID `json:"lead_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=200"`
	Deadline time.Time `json:"deadline" validate:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	timer, err := h.repo.Create(c.Request.Context(), req.LeadID, req.Name, req.Deadline)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, timer)
}

func (h *Handler) List(c *gin.Context) {
	var leadID *uuid.UUID
	if raw := c.Query("leadId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		leadID = &parsed
	}

	timers, err := h.repo.List(c.Request.Context(), c.Query("status"), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, timers)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	timer, err := h.repo.Complete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, "active timer not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, timer)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}

// CheckBreaches marks every overdue active timer breached and publishes
// a breach event per timer so subscribers can notify the assigned rep.
func (h *Handler) CheckBreaches(c *gin.Context) {
	breached, err := h.repo.MarkBreached(c.Request.Context(), time.Now())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	for _, bt := range breached {
		h.eventBus.Publish(c.Request.Context(), events.SLABreached{
			BaseEvent:   events.NewBaseEvent(),
			TimerID:     bt.ID,
			LeadID:      bt.LeadID,
			TimerName:   bt.Name,
			AssignedRep: bt.AssignedRep,
		})
	}
	if len(breached) > 0 {
		h.log.Info("sla_breaches_detected", "count", len(breached))
	}

	httpkit.OK(c, gin.H{"breached": len(breached), "timers": breached})
}
