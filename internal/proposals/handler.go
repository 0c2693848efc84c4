package proposals

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

type lineItemRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type createProposalRequest struct {
	LeadID          uuid.UUID         `json:"lead_id" validate:"required"`
	Title           string            `json:"title" validate:"required,max=300"`
	Items           []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountPercent float64           `json:"discount_percent" validate:"gte=0,lte=100"`
	ValidUntil      *time.Time        `json:"valid_until"`
}

type updateProposalRequest struct {
	Title           *string           `json:"title" validate:"omitempty,max=300"`
	Items           []lineItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	DiscountPercent *float64          `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	ValidUntil      *time.Time        `json:"valid_until"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	proposal, err := h.svc.Create(c.Request.Context(), CreateProposalInput{
		LeadID:          req.LeadID,
		Title:           req.Title,
		Items:           toLineItems(req.Items),
		DiscountPercent: req.DiscountPercent,
		ValidUntil:      req.ValidUntil,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.Created(c, proposal)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	proposal, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, proposal)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req updateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	input := UpdateProposalInput{
		Title:           req.Title,
		DiscountPercent: req.DiscountPercent,
		ValidUntil:      req.ValidUntil,
	}
	if req.Items != nil {
		input.Items = toLineItems(req.Items)
	}

	proposal, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, proposal)
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

func (h *Handler) List(c *gin.Context) {
	var leadID *uuid.UUID
	if raw := c.Query("lead_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		leadID = &id
	}

	proposals, err := h.svc.List(c.Request.Context(), leadID, c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, proposals)
}

func (h *Handler) QueueEmail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	proposal, err := h.svc.QueueEmail(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.OK(c, proposal)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrLeadHasNoEmail):
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		httpkit.HandleError(c, err)
	}
}

func toLineItems(items []lineItemRequest) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return out
}
