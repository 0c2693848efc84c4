package automation

import (
	"errors"
	"net/http"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	repo    *Repository
	service *Service
	val     *validator.Validator
}

func NewHandler(repo *Repository, service *Service, val *validator.Validator) *Handler {
	return &Handler{repo: repo, service: service, val: val}
}

type createRuleRequest struct {
	Name          string         `json:"name" validate:"required,max=200"`
	Description   *string        `json:"description"`
	TriggerType   string         `json:"trigger_type" validate:"required,oneof=manual status_change time_based sla_breach"`
	TriggerConfig map[string]any `json:"trigger_config"`
	ActionType    string         `json:"action_type" validate:"required,oneof=create_reminder send_notification update_status"`
	ActionConfig  map[string]any `json:"action_config"`
	Enabled       *bool          `json:"enabled"`
}

type updateRuleRequest struct {
	Name          *string        `json:"name" validate:"omitempty,max=200"`
	Description   *string        `json:"description"`
	TriggerType   *string        `json:"trigger_type" validate:"omitempty,oneof=manual status_change time_based sla_breach"`
	TriggerConfig map[string]any `json:"trigger_config"`
	ActionType    *string        `json:"action_type" validate:"omitempty,oneof=create_reminder send_notification update_status"`
	ActionConfig  map[string]any `json:"action_config"`
	Enabled       *bool          `json:"enabled"`
}

type executeRuleRequest struct {
	LeadIDs []uuid.UUID `json:"lead_ids" validate:"required,min=1"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	rule, err := h.repo.Create(c.Request.Context(), CreateRuleParams{
		Name:          req.Name,
		Description:   req.Description,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		ActionType:    req.ActionType,
		ActionConfig:  req.ActionConfig,
		Enabled:       enabled,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, rule)
}

func (h *Handler) List(c *gin.Context) {
	rules, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, rules)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	rule, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, rule)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	rule, err := h.repo.Update(c.Request.Context(), id, UpdateRuleParams{
		Name:          req.Name,
		Description:   req.Description,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		ActionType:    req.ActionType,
		ActionConfig:  req.ActionConfig,
		Enabled:       req.Enabled,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, rule)
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

func (h *Handler) Execute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req executeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.service.Execute(c.Request.Context(), id, req.LeadIDs)
	if err != nil {
		if errors.Is(err, ErrRuleDisabled) {
			httpkit.Error(c, http.StatusConflict, err.Error(), nil)
			return
		}
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	httpkit.HandleError(c, err)
}
