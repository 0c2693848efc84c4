package automation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeLeads struct {
	known    map[uuid.UUID]string
	statuses map[uuid.UUID]string
}

func (f *fakeLeads) LeadBrief(_ context.Context, id uuid.UUID) (string, string, error) {
	name, ok := f.known[id]
	if !ok {
		return "", "", context.Canceled
	}
	return name, "Alice", nil
}

func (f *fakeLeads) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	f.statuses[id] = status
	return nil
}

type fakeReminders struct {
	created []string
}

func (f *fakeReminders) CreateForLead(_ context.Context, _ uuid.UUID, title, _ string, _ time.Time) error {
	f.created = append(f.created, title)
	return nil
}

type fakeNotifier struct {
	titles  []string
	members []string
}

func (f *fakeNotifier) Notify(_ context.Context, memberName *string, title string, _ *string, _ string) (uuid.UUID, error) {
	f.titles = append(f.titles, title)
	if memberName != nil {
		f.members = append(f.members, *memberName)
	}
	return uuid.New(), nil
}

func newTestService(leads *fakeLeads, reminders *fakeReminders, notifier *fakeNotifier) *Service {
	s := &Service{}
	s.SetPorts(leads, reminders, notifier)
	return s
}

func TestApplyActionCreateReminder(t *testing.T) {
	leadID := uuid.New()
	leads := &fakeLeads{known: map[uuid.UUID]string{leadID: "Acme Corp"}, statuses: map[uuid.UUID]string{}}
	reminders := &fakeReminders{}
	s := newTestService(leads, reminders, &fakeNotifier{})

	rule := Rule{ActionType: ActionCreateReminder, ActionConfig: map[string]any{}}
	result, ok, err := s.applyAction(context.Background(), rule, leadID)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if !ok || result.Action != "reminder_created" {
		t.Fatalf("got %+v ok=%v, want reminder_created", result, ok)
	}
	if len(reminders.created) != 1 || reminders.created[0] != "Follow up with Acme Corp" {
		t.Fatalf("reminder titles = %v", reminders.created)
	}
}

func TestApplyActionSendNotificationTargetsAssignedRep(t *testing.T) {
	leadID := uuid.New()
	leads := &fakeLeads{known: map[uuid.UUID]string{leadID: "Acme Corp"}, statuses: map[uuid.UUID]string{}}
	notifier := &fakeNotifier{}
	s := newTestService(leads, &fakeReminders{}, notifier)

	rule := Rule{ActionType: ActionSendNotification, ActionConfig: map[string]any{"title": "Check this lead"}}
	result, ok, err := s.applyAction(context.Background(), rule, leadID)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if !ok || result.Action != "notification_sent" {
		t.Fatalf("got %+v ok=%v", result, ok)
	}
	if len(notifier.titles) != 1 || notifier.titles[0] != "Check this lead" {
		t.Fatalf("notification titles = %v", notifier.titles)
	}
	if len(notifier.members) != 1 || notifier.members[0] != "Alice" {
		t.Fatalf("notification members = %v", notifier.members)
	}
}

func TestApplyActionUpdateStatusIsDirectAssignment(t *testing.T) {
	leadID := uuid.New()
	leads := &fakeLeads{known: map[uuid.UUID]string{leadID: "Acme Corp"}, statuses: map[uuid.UUID]string{}}
	s := newTestService(leads, &fakeReminders{}, &fakeNotifier{})

	// A backward status is written as-is. The executor does not consult
	// the advancement rule.
	rule := Rule{ActionType: ActionUpdateStatus, ActionConfig: map[string]any{"new_status": "Not Contacted"}}
	result, ok, err := s.applyAction(context.Background(), rule, leadID)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if !ok || result.Action != "status_updated" || result.Detail != "Not Contacted" {
		t.Fatalf("got %+v ok=%v", result, ok)
	}
	if leads.statuses[leadID] != "Not Contacted" {
		t.Fatalf("status = %q, want direct assignment", leads.statuses[leadID])
	}
}

func TestApplyActionUpdateStatusWithoutTargetIsNoop(t *testing.T) {
	leadID := uuid.New()
	leads := &fakeLeads{known: map[uuid.UUID]string{leadID: "Acme Corp"}, statuses: map[uuid.UUID]string{}}
	s := newTestService(leads, &fakeReminders{}, &fakeNotifier{})

	rule := Rule{ActionType: ActionUpdateStatus, ActionConfig: map[string]any{}}
	_, ok, err := s.applyAction(context.Background(), rule, leadID)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if ok {
		t.Fatal("expected no result when new_status is missing")
	}
	if len(leads.statuses) != 0 {
		t.Fatalf("statuses = %v, want untouched", leads.statuses)
	}
}

func TestApplyActionSkipsMissingLead(t *testing.T) {
	leads := &fakeLeads{known: map[uuid.UUID]string{}, statuses: map[uuid.UUID]string{}}
	s := newTestService(leads, &fakeReminders{}, &fakeNotifier{})

	rule := Rule{ActionType: ActionCreateReminder}
	_, ok, err := s.applyAction(context.Background(), rule, uuid.New())
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if ok {
		t.Fatal("expected missing lead to be skipped without a result")
	}
}

func TestConfigHelpers(t *testing.T) {
	config := map[string]any{"title": "custom", "due_in_days": float64(3)}
	if got := configString(config, "title", "fallback"); got != "custom" {
		t.Fatalf("configString = %q", got)
	}
	if got := configString(config, "missing", "fallback"); got != "fallback" {
		t.Fatalf("configString fallback = %q", got)
	}
	if got := configInt(config, "due_in_days", 1); got != 3 {
		t.Fatalf("configInt = %d", got)
	}
	if got := configInt(config, "missing", 1); got != 1 {
		t.Fatalf("configInt fallback = %d", got)
	}
}
