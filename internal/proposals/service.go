package proposals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/platform/logger"

	"github.com/google/uuid"
)

var ErrLeadHasNoEmail = errors.New("lead has no email address")

// LeadContact is the lead data needed to address a proposal email.
type LeadContact struct {
	Email        string
	ContactName  string
	BusinessName string
}

// LeadDirectory is the port into the leads context.
type LeadDirectory interface {
	GetLeadContact(ctx context.Context, leadID uuid.UUID) (LeadContact, error)
	AdvanceStatus(ctx context.Context, leadID uuid.UUID, proposed, reason string) error
}

// EmailQueue is the port into the emails context.
type EmailQueue interface {
	QueueProposalEmail(ctx context.Context, leadID uuid.UUID, recipientEmail string, recipientName *string, subject, bodyHTML string) (uuid.UUID, error)
}

type Service struct {
	repo     *Repository
	leads    LeadDirectory
	queue    EmailQueue
	eventBus events.Bus
	log      *logger.Logger
}

func NewService(repo *Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// SetPorts wires the cross-module dependencies from the composition root.
func (s *Service) SetPorts(leads LeadDirectory, queue EmailQueue) {
	s.leads = leads
	s.queue = queue
}

type ProposalResponse struct {
	ID            uuid.UUID  `json:"id"`
	LeadID        uuid.UUID  `json:"lead_id"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	Configuration []LineItem `json:"configuration"`
	Subtotal      float64    `json:"subtotal"`
	Discount      float64    `json:"discount"`
	Total         float64    `json:"total"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateProposalInput struct {
	LeadID          uuid.UUID
	Title           string
	Items           []LineItem
	DiscountPercent float64
	ValidUntil      *time.Time
}

func (s *Service) Create(ctx context.Context, input CreateProposalInput) (ProposalResponse, error) {
	totals := CalculateTotals(input.Items, input.DiscountPercent)
	proposal, err := s.repo.Create(ctx, CreateProposalParams{
		LeadID:        input.LeadID,
		Title:         input.Title,
		Configuration: input.Items,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		ValidUntil:    input.ValidUntil,
	})
	if err != nil {
		return ProposalResponse{}, err
	}
	return toResponse(proposal), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (ProposalResponse, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ProposalResponse{}, err
	}
	return toResponse(proposal), nil
}

type UpdateProposalInput struct {
	Title           *string
	Items           []LineItem
	DiscountPercent *float64
	ValidUntil      *time.Time
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProposalInput) (ProposalResponse, error) {
	params := UpdateProposalParams{
		Title:      input.Title,
		ValidUntil: input.ValidUntil,
	}

	// Recompute money fields whenever the line items or discount change.
	if input.Items != nil || input.DiscountPercent != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return ProposalResponse{}, err
		}
		items := current.Configuration
		if input.Items != nil {
			items = input.Items
			params.Configuration = input.Items
		}
		discountPercent := 0.0
		if input.DiscountPercent != nil {
			discountPercent = *input.DiscountPercent
		} else if current.Subtotal > 0 {
			discountPercent = current.Discount / current.Subtotal * 100
		}
		totals := CalculateTotals(items, discountPercent)
		params.Subtotal = &totals.Subtotal
		params.Discount = &totals.Discount
		params.Total = &totals.Total
	}

	proposal, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return ProposalResponse{}, err
	}
	return toResponse(proposal), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, leadID *uuid.UUID, status string) ([]ProposalResponse, error) {
	proposals, err := s.repo.List(ctx, leadID, status)
	if err != nil {
		return nil, err
	}
	out := make([]ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, toResponse(p))
	}
	return out, nil
}

// QueueEmail renders the proposal into an HTML email, places it in the
// review queue at high priority and proposes the Proposal Sent status.
func (s *Service) QueueEmail(ctx context.Context, id uuid.UUID) (ProposalResponse, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ProposalResponse{}, err
	}

	contact, err := s.leads.GetLeadContact(ctx, proposal.LeadID)
	if err != nil {
		return ProposalResponse{}, err
	}
	if contact.Email == "" {
		return ProposalResponse{}, ErrLeadHasNoEmail
	}

	recipientName := contact.ContactName
	if recipientName == "" {
		recipientName = contact.BusinessName
	}
	validUntil := ""
	if proposal.ValidUntil != nil {
		validUntil = proposal.ValidUntil.Format("January 2, 2006")
	}
	body, err := renderProposalEmail(emailBodyData{
		Title:         proposal.Title,
		RecipientName: recipientName,
		BusinessName:  contact.BusinessName,
		Items:         proposal.Configuration,
		Totals:        Totals{Subtotal: proposal.Subtotal, Discount: proposal.Discount, Total: proposal.Total},
		ValidUntil:    validUntil,
	})
	if err != nil {
		return ProposalResponse{}, err
	}

	subject := fmt.Sprintf("Proposal: %s", proposal.Title)
	emailID, err := s.queue.QueueProposalEmail(ctx, proposal.LeadID, contact.Email, &recipientName, subject, body)
	if err != nil {
		return ProposalResponse{}, err
	}

	updated, err := s.repo.SetStatus(ctx, id, "pending_review")
	if err != nil {
		return ProposalResponse{}, err
	}

	if err := s.leads.AdvanceStatus(ctx, proposal.LeadID, "Proposal Sent", "proposal queued"); err != nil {
		s.log.Error("failed to advance lead on proposal queue", "lead_id", proposal.LeadID, "error", err)
	}

	s.eventBus.Publish(ctx, events.ProposalQueued{
		BaseEvent:  events.NewBaseEvent(),
		ProposalID: proposal.ID,
		LeadID:     proposal.LeadID,
		EmailID:    emailID,
	})

	return toResponse(updated), nil
}

func toResponse(p Proposal) ProposalResponse {
	configuration := p.Configuration
	if configuration == nil {
		configuration = make([]LineItem, 0)
	}
	return ProposalResponse{
		ID:            p.ID,
		LeadID:        p.LeadID,
		Title:         p.Title,
		Status:        p.Status,
		Configuration: configuration,
		Subtotal:      p.Subtotal,
		Discount:      p.Discount,
		Total:         p.Total,
		ValidUntil:    p.ValidUntil,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
