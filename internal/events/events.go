package events

import (
	"github.com/google/uuid"

	platformevents "outreach_portal_backend/platform/events"
)

// Event names used for subscription.
const (
	LeadCreatedName     = "lead.created"
	LeadAdvancedName    = "lead.status_advanced"
	LeadStageMovedName  = "lead.stage_moved"
	EmailSentName       = "email.sent"
	EmailRepliedName    = "email.replied"
	SLABreachedName     = "sla.breached"
	DataExportedName    = "data.exported"
	ProposalQueuedName  = "proposal.queued"
	MemberLoggedInName  = "member.logged_in"
)

// LeadCreated is published when a new lead is stored.
type LeadCreated struct {
	platformevents.BaseEvent
	LeadID       uuid.UUID
	BusinessName string
	AssignedRep  string
}

func (LeadCreated) EventName() string { return LeadCreatedName }

// LeadAdvanced is published when the advancement rule moves a lead forward.
type LeadAdvanced struct {
	platformevents.BaseEvent
	LeadID     uuid.UUID
	FromStatus string
	ToStatus   string
	Reason     string
}

func (LeadAdvanced) EventName() string { return LeadAdvancedName }

// LeadStageMoved is published when a lead moves between user-defined board stages.
type LeadStageMoved struct {
	platformevents.BaseEvent
	LeadID      uuid.UUID
	FromStageID *uuid.UUID
	ToStageID   uuid.UUID
}

func (LeadStageMoved) EventName() string { return LeadStageMovedName }

// EmailSent is published after the mail provider accepts an outbound message.
type EmailSent struct {
	platformevents.BaseEvent
	EmailID   uuid.UUID
	LeadID    *uuid.UUID
	Recipient string
	Subject   string
}

func (EmailSent) EventName() string { return EmailSentName }

// EmailReplied is published when the reply matcher links an inbox message
// to a previously sent email.
type EmailReplied struct {
	platformevents.BaseEvent
	EmailID uuid.UUID
	LeadID  *uuid.UUID
	Sender  string
}

func (EmailReplied) EventName() string { return EmailRepliedName }

// SLABreached is published when a breach check marks a timer breached.
type SLABreached struct {
	platformevents.BaseEvent
	TimerID     uuid.UUID
	LeadID      uuid.UUID
	TimerName   string
	AssignedRep string
}

func (SLABreached) EventName() string { return SLABreachedName }

// DataExported is published when an export endpoint produces a file.
type DataExported struct {
	platformevents.BaseEvent
	EntityType string
	Format     string
	Count      int
	Actor      string
}

func (DataExported) EventName() string { return DataExportedName }

// ProposalQueued is published when a proposal email enters the review queue.
type ProposalQueued struct {
	platformevents.BaseEvent
	ProposalID uuid.UUID
	LeadID     uuid.UUID
	EmailID    uuid.UUID
}

func (ProposalQueued) EventName() string { return ProposalQueuedName }

// MemberLoggedIn is published after a successful login.
type MemberLoggedIn struct {
	platformevents.BaseEvent
	MemberID uuid.UUID
	Email    string
}

func (MemberLoggedIn) EventName() string { return MemberLoggedInName }
