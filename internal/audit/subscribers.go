package audit

import (
	"context"
	"fmt"

	"outreach_portal_backend/internal/events"
)

const systemActor = "system"

// RegisterSubscribers records an audit row for each significant domain
// event. Handlers run synchronously; a failed insert is logged by the bus
// and does not interrupt the publishing flow.
func RegisterSubscribers(bus events.Bus, repo *Repository) {
	bus.Subscribe(events.LeadCreatedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.LeadCreated)
		if !ok {
			return nil
		}
		detail := evt.BusinessName
		return repo.Record(ctx, "lead", &evt.LeadID, "created", systemActor, &detail)
	}))

	bus.Subscribe(events.LeadAdvancedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.LeadAdvanced)
		if !ok {
			return nil
		}
		detail := fmt.Sprintf("%s -> %s (%s)", evt.FromStatus, evt.ToStatus, evt.Reason)
		return repo.Record(ctx, "lead", &evt.LeadID, "status_advanced", systemActor, &detail)
	}))

	bus.Subscribe(events.LeadStageMovedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.LeadStageMoved)
		if !ok {
			return nil
		}
		detail := fmt.Sprintf("moved to stage %s", evt.ToStageID)
		return repo.Record(ctx, "lead", &evt.LeadID, "stage_moved", systemActor, &detail)
	}))

	bus.Subscribe(events.EmailSentName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.EmailSent)
		if !ok {
			return nil
		}
		detail := fmt.Sprintf("to %s: %s", evt.Recipient, evt.Subject)
		return repo.Record(ctx, "email", &evt.EmailID, "sent", systemActor, &detail)
	}))

	bus.Subscribe(events.ProposalQueuedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.ProposalQueued)
		if !ok {
			return nil
		}
		detail := fmt.Sprintf("email %s queued for review", evt.EmailID)
		return repo.Record(ctx, "proposal", &evt.ProposalID, "queued", systemActor, &detail)
	}))

	bus.Subscribe(events.MemberLoggedInName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.MemberLoggedIn)
		if !ok {
			return nil
		}
		return repo.Record(ctx, "member", &evt.MemberID, "logged_in", evt.Email, nil)
	}))

	bus.Subscribe(events.DataExportedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.DataExported)
		if !ok {
			return nil
		}
		detail := fmt.Sprintf("%d %s rows as %s", evt.Count, evt.EntityType, evt.Format)
		return repo.Record(ctx, "export", nil, "exported", evt.Actor, &detail)
	}))
}
