package team

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
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

type createMemberRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Role          string `json:"role" validate:"omitempty,oneof=rep manager admin"`
	DailyTarget   int    `json:"daily_target" validate:"gte=0"`
	WeeklyTarget  int    `json:"weekly_target" validate:"gte=0"`
	MonthlyTarget int    `json:"monthly_target" validate:"gte=0"`
}

type updateMemberRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=200"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Role          *string `json:"role" validate:"omitempty,oneof=rep manager admin"`
	IsActive      *bool   `json:"is_active"`
	DailyTarget   *int    `json:"daily_target" validate:"omitempty,gte=0"`
	WeeklyTarget  *int    `json:"weekly_target" validate:"omitempty,gte=0"`
	MonthlyTarget *int    `json:"monthly_target" validate:"omitempty,gte=0"`
}

type memberResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	DailyTarget   int       `json:"daily_target"`
	WeeklyTarget  int       `json:"weekly_target"`
	MonthlyTarget int       `json:"monthly_target"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = "rep"
	}
	member, err := h.repo.Create(c.Request.Context(), CreateMemberParams{
		Name:          req.Name,
		Email:         req.Email,
		Role:          role,
		PasswordHash:  string(hash),
		DailyTarget:   req.DailyTarget,
		WeeklyTarget:  req.WeeklyTarget,
		MonthlyTarget: req.MonthlyTarget,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.Created(c, toResponse(member))
}

func (h *Handler) List(c *gin.Context) {
	members, err := h.repo.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toResponse(m))
	}
	httpkit.OK(c, out)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	member, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, toResponse(member))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	member, err := h.repo.Update(c.Request.Context(), id, UpdateMemberParams{
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		IsActive:      req.IsActive,
		DailyTarget:   req.DailyTarget,
		WeeklyTarget:  req.WeeklyTarget,
		MonthlyTarget: req.MonthlyTarget,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, toResponse(member))
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

func (h *Handler) Performance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	perf, err := h.repo.MemberPerformance(c.Request.Context(), id, since)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, gin.H{
		"days":             days,
		"total_activities": perf.TotalActivities,
		"calls":            perf.Calls,
		"emails":           perf.Emails,
		"meetings":         perf.Meetings,
		"leads_converted":  perf.LeadsConverted,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrEmailExists):
		httpkit.Error(c, http.StatusConflict, err.Error(), nil)
	default:
		httpkit.HandleError(c, err)
	}
}

func toResponse(m Member) memberResponse {
	return memberResponse{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Role:          m.Role,
		IsActive:      m.IsActive,
		DailyTarget:   m.DailyTarget,
		WeeklyTarget:  m.WeeklyTarget,
		MonthlyTarget: m.MonthlyTarget,
		CreatedAt:     m.CreatedAt,
	}
}
