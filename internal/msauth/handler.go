package msauth

import (
	"net/http"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
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

type connectRequest struct {
	AccountEmail string `json:"account_email" validate:"required,email"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handler) Status(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, status)
}

func (h *Handler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	status, err := h.svc.Connect(c.Request.Context(), req.AccountEmail, req.RefreshToken)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, status)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Disconnect(c.Request.Context()); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.NoContent(c)
}
