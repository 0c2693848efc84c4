package campaigns

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

type createCampaignRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Status      string     `json:"status" validate:"omitempty,oneof=active paused completed"`
	Channel     *string    `json:"channel" validate:"omitempty,max=100"`
	StartsOn    *time.Time `json:"starts_on"`
	EndsOn      *time.Time `json:"ends_on"`
	TargetCount *int       `json:"target_count" validate:"omitempty,gte=0"`
}

type updateCampaignRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Status      *string    `json:"status" validate:"omitempty,oneof=active paused completed"`
	Channel     *string    `json:"channel" validate:"omitempty,max=100"`
	StartsOn    *time.Time `json:"starts_on"`
	EndsOn      *time.Time `json:"ends_on"`
	TargetCount *int       `json:"target_count" validate:"omitempty,gte=0"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}
	campaign, err := h.repo.Create(c.Request.Context(), CreateCampaignParams{
		Name:        req.Name,
		Status:      status,
		Channel:     req.Channel,
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
		TargetCount: req.TargetCount,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, campaign)
}

func (h *Handler) List(c *gin.Context) {
	campaigns, err := h.repo.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, campaigns)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	campaign, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, campaign)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	campaign, err := h.repo.Update(c.Request.Context(), id, UpdateCampaignParams{
		Name:        req.Name,
		Status:      req.Status,
		Channel:     req.Channel,
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
		TargetCount: req.TargetCount,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, campaign)
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
