package adapters

import (
	"context"

	"outreach_portal_backend/internal/automation"
	leadsvc "outreach_portal_backend/internal/leads/service"

	"github.com/google/uuid"
)

// AutomationLeadDirectory adapts the leads service for the automation domain.
// It implements automation.LeadDirectory.
type AutomationLeadDirectory struct {
	leads *leadsvc.Service
}

// NewAutomationLeadDirectory creates a new lead directory adapter for automation.
func NewAutomationLeadDirectory(leads *leadsvc.Service) *AutomationLeadDirectory {
	return &AutomationLeadDirectory{leads: leads}
}

func (a *AutomationLeadDirectory) LeadBrief(ctx context.Context, id uuid.UUID) (string, string, error) {
	lead, err := a.leads.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	rep := ""
	if lead.AssignedRep != nil {
		rep = *lead.AssignedRep
	}
	return lead.BusinessName, rep, nil
}

// SetStatus writes the status directly, outside the advancement rule.
func (a *AutomationLeadDirectory) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return a.leads.SetStatus(ctx, id, status)
}

// Compile-time check that AutomationLeadDirectory implements automation.LeadDirectory.
var _ automation.LeadDirectory = (*AutomationLeadDirectory)(nil)
