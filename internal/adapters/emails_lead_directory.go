package adapters

import (
	"context"

	emailsvc "outreach_portal_backend/internal/emails/service"
	leadsvc "outreach_portal_backend/internal/leads/service"
	"outreach_portal_backend/internal/leads/transport"

	"github.com/google/uuid"
)

// EmailsLeadDirectory adapts the leads service for the emails domain.
// It implements emails/service.LeadDirectory.
type EmailsLeadDirectory struct {
	leads *leadsvc.Service
}

// NewEmailsLeadDirectory creates a new lead directory adapter for emails.
func NewEmailsLeadDirectory(leads *leadsvc.Service) *EmailsLeadDirectory {
	return &EmailsLeadDirectory{leads: leads}
}

func (a *EmailsLeadDirectory) FindLeadIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	return a.leads.FindLeadIDByEmail(ctx, email)
}

func (a *EmailsLeadDirectory) AdvanceStatus(ctx context.Context, leadID uuid.UUID, proposed, reason string) error {
	return a.leads.AdvanceStatus(ctx, leadID, proposed, reason)
}

// LogEmailActivity records an Email activity on the lead. Advancement to
// Attempted happens through the regular activity mapping.
func (a *EmailsLeadDirectory) LogEmailActivity(ctx context.Context, leadID uuid.UUID, notes string) error {
	_, err := a.leads.CreateLog(ctx, leadID, transport.CreateLogRequest{
		ActivityType: transport.ActivityTypeEmail,
		Notes:        notes,
	})
	return err
}

// Compile-time check that EmailsLeadDirectory implements emails/service.LeadDirectory.
var _ emailsvc.LeadDirectory = (*EmailsLeadDirectory)(nil)
