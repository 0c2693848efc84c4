package handler

import (
	"errors"
	"net/http"
	"strconv"

	"outreach_portal_backend/internal/emails/service"
	"outreach_portal_backend/internal/emails/transport"
	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/pending", h.Pending)
	rg.GET("/counts", h.Counts)
	rg.POST("/check-replies", h.CheckReplies)
	rg.POST("/sync", h.Sync)
	rg.GET("/tracked", h.Tracked)
	rg.GET("/tracked/stats", h.TrackedStats)
	rg.GET("/tracked/:leadId", h.TrackedByLead)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/send", h.Send)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	email, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.Created(c, email)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListEmailsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, result)
}

// Pending is a convenience listing of the review queue.
func (h *Handler) Pending(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), transport.ListEmailsRequest{
		Status:   string(transport.StatusPendingReview),
		PageSize: 100,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Counts(c *gin.Context) {
	counts, err := h.svc.Counts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, counts)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	email, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, email)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	email, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, email)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	email, err := h.svc.Approve(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, email)
}

func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RejectEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	email, err := h.svc.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, email)
}

func (h *Handler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	email, err := h.svc.Send(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, email)
}

func (h *Handler) CheckReplies(c *gin.Context) {
	result, err := h.svc.CheckReplies(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Sync(c *gin.Context) {
	result, err := h.svc.Sync(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Tracked(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	tracked, err := h.svc.Tracked(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, tracked)
}

func (h *Handler) TrackedStats(c *gin.Context) {
	stats, err := h.svc.TrackedStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, stats)
}

func (h *Handler) TrackedByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	tracked, err := h.svc.TrackedByLead(c.Request.Context(), leadID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, tracked)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrNotSendable):
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		httpkit.HandleError(c, err)
	}
}
