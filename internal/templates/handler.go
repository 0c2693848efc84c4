package templates

import (
	"errors"
	"net/http"

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

type createTemplateRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Subject  string  `json:"subject" validate:"required,max=500"`
	Body     string  `json:"body" validate:"required"`
}

type updateTemplateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Subject  *string `json:"subject" validate:"omitempty,max=500"`
	Body     *string `json:"body"`
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	template, err := h.repo.CreateTemplate(c.Request.Context(), req.Name, req.Category, req.Subject, req.Body)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, template)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.repo.ListTemplates(c.Request.Context(), c.Query("category"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, templates)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	template, err := h.repo.GetTemplate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, template)
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	template, err := h.repo.UpdateTemplate(c.Request.Context(), id, req.Name, req.Category, req.Subject, req.Body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, template)
}

func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.repo.DeleteTemplate(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

type stepRequest struct {
	TemplateID *uuid.UUID `json:"template_id"`
	WaitDays   int        `json:"wait_days" validate:"gte=0"`
}

type createSequenceRequest struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=1000"`
	Steps       []stepRequest `json:"steps" validate:"omitempty,dive"`
}

type updateSequenceRequest struct {
	Name        *string       `json:"name" validate:"omitempty,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=1000"`
	Steps       []stepRequest `json:"steps" validate:"omitempty,dive"`
}

func (h *Handler) CreateSequence(c *gin.Context) {
	var req createSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	sequence, err := h.repo.CreateSequence(c.Request.Context(), req.Name, req.Description, toStepParams(req.Steps))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, sequence)
}

func (h *Handler) ListSequences(c *gin.Context) {
	sequences, err := h.repo.ListSequences(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, sequences)
}

func (h *Handler) GetSequence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	sequence, err := h.repo.GetSequence(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, sequence)
}

func (h *Handler) UpdateSequence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var steps []StepParams
	if req.Steps != nil {
		steps = toStepParams(req.Steps)
	}
	sequence, err := h.repo.ReplaceSequence(c.Request.Context(), id, req.Name, req.Description, steps)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, sequence)
}

func (h *Handler) DeleteSequence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.repo.DeleteSequence(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

type createScriptRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Body     string  `json:"body" validate:"required"`
}

type updateScriptRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Body     *string `json:"body"`
}

func (h *Handler) CreateScript(c *gin.Context) {
	var req createScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	script, err := h.repo.CreateScript(c.Request.Context(), req.Name, req.Category, req.Body)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, script)
}

func (h *Handler) ListScripts(c *gin.Context) {
	scripts, err := h.repo.ListScripts(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, scripts)
}

func (h *Handler) GetScript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	script, err := h.repo.GetScript(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, script)
}

func (h *Handler) UpdateScript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	script, err := h.repo.UpdateScript(c.Request.Context(), id, req.Name, req.Category, req.Body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, script)
}

func (h *Handler) DeleteScript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.repo.DeleteScript(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTemplateNotFound), errors.Is(err, ErrSequenceNotFound), errors.Is(err, ErrScriptNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	default:
		httpkit.HandleError(c, err)
	}
}

func toStepParams(steps []stepRequest) []StepParams {
	out := make([]StepParams, 0, len(steps))
	for _, step := range steps {
		out = append(out, StepParams{TemplateID: step.TemplateID, WaitDays: step.WaitDays})
	}
	return out
}
