package adapters

import (
	"context"

	leadsvc "outreach_portal_backend/internal/leads/service"
	"outreach_portal_backend/internal/proposals"

	"github.com/google/uuid"
)

// ProposalsLeadDirectory adapts the leads service for the proposals domain.
// It implements proposals.LeadDirectory.
type ProposalsLeadDirectory struct {
	leads *leadsvc.Service
}

// NewProposalsLeadDirectory creates a new lead directory adapter for proposals.
func NewProposalsLeadDirectory(leads *leadsvc.Service) *ProposalsLeadDirectory {
	return &ProposalsLeadDirectory{leads: leads}
}

func (a *ProposalsLeadDirectory) GetLeadContact(ctx context.Context, leadID uuid.UUID) (proposals.LeadContact, error) {
	lead, err := a.leads.GetByID(ctx, leadID)
	if err != nil {
		return proposals.LeadContact{}, err
	}
	contact := proposals.LeadContact{BusinessName: lead.BusinessName}
	if lead.Email != nil {
		contact.Email = *lead.Email
	}
	if lead.ContactName != nil {
		contact.ContactName = *lead.ContactName
	}
	return contact, nil
}

func (a *ProposalsLeadDirectory) AdvanceStatus(ctx context.Context, leadID uuid.UUID, proposed, reason string) error {
	return a.leads.AdvanceStatus(ctx, leadID, proposed, reason)
}

// Compile-time check that ProposalsLeadDirectory implements proposals.LeadDirectory.
var _ proposals.LeadDirectory = (*ProposalsLeadDirectory)(nil)
