package notifications

import (
	"context"
	"fmt"

	"outreach_portal_backend/internal/events"
)

// RegisterSubscribers wires notification creation to the domain events
// members care about. Handlers run synchronously on the publisher's
// goroutine, so they keep failures local to the repository write.
func RegisterSubscribers(bus events.Bus, repo *Repository) {
	bus.Subscribe(events.LeadCreatedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.LeadCreated)
		if !ok {
			return nil
		}
		title := fmt.Sprintf("New lead: %s", evt.BusinessName)
		var member *string
		if evt.AssignedRep != "" {
			member = &evt.AssignedRep
		}
		_, err := repo.Create(ctx, member, title, nil, "lead")
		return err
	}))

	bus.Subscribe(events.EmailRepliedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.EmailReplied)
		if !ok {
			return nil
		}
		title := fmt.Sprintf("Reply received from %s", evt.Sender)
		_, err := repo.Create(ctx, nil, title, nil, "email")
		return err
	}))

	bus.Subscribe(events.SLABreachedName, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.SLABreached)
		if !ok {
			return nil
		}
		title := fmt.Sprintf("SLA breached: %s", evt.TimerName)
		body := fmt.Sprintf("Timer %q for lead %s passed its deadline", evt.TimerName, evt.LeadID)
		var member *string
		if evt.AssignedRep != "" {
			member = &evt.AssignedRep
		}
		_, err := repo.Create(ctx, member, title, &body, "sla")
		return err
	}))
}
