package pipeline

import (
	"errors"
	"net/http"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

type createStageRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

type updateStageRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Color *string `json:"color" validate:"omitempty,max=20"`
}

type reorderStagesRequest struct {
	StageIDs []uuid.UUID `json:"stage_ids" validate:"required,min=1"`
}

type moveLeadRequest struct {
	StageID uuid.UUID `json:"stage_id" validate:"required"`
}

func (h *Handler) ListStages(c *gin.Context) {
	stages, err := h.svc.ListStages(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, stages)
}

func (h *Handler) CreateStage(c *gin.Context) {
	var req createStageRequest
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
		color = "#6b7280"
	}
	stage, err := h.svc.CreateStage(c.Request.Context(), req.Name, color)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, stage)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	stage, err := h.svc.UpdateStage(c.Request.Context(), id, req.Name, req.Color)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, stage)
}

func (h *Handler) DeleteStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.DeleteStage(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) ReorderStages(c *gin.Context) {
	var req reorderStagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	stages, err := h.svc.ReorderStages(c.Request.Context(), req.StageIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, stages)
}

func (h *Handler) Board(c *gin.Context) {
	board, err := h.svc.Board(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, board)
}

func (h *Handler) MoveLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req moveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.MoveLead(c.Request.Context(), leadID, req.StageID); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, gin.H{"moved": true})
}

func (h *Handler) History(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	history, err := h.svc.History(c.Request.Context(), leadID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, history)
}

func (h *Handler) Bottlenecks(c *gin.Context) {
	bottlenecks, err := h.svc.Bottlenecks(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, bottlenecks)
}

func (h *Handler) Metrics(c *gin.Context) {
	metrics, err := h.svc.Metrics(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, metrics)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStageNotFound), errors.Is(err, ErrLeadNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	default:
		httpkit.HandleError(c, err)
	}
}
