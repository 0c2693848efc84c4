package auth

import (
	"errors"
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

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateMeRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpkit.Error(c, http.StatusUnauthorized, err.Error(), nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}

// Verify confirms the presented token is valid; the auth middleware has
// already done the work by the time this runs.
func (h *Handler) Verify(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	httpkit.OK(c, gin.H{
		"valid":   true,
		"user_id": id.UserID(),
		"email":   id.Email(),
		"roles":   id.Roles(),
	})
}

func (h *Handler) Me(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	member, err := h.svc.Me(c.Request.Context(), id.UserID())
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, member)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.svc.UpdateMe(c.Request.Context(), id.UserID(), req.Name, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, member)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrMemberNotFound) {
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	httpkit.HandleError(c, err)
}
