package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// ErrRuleDisabled is returned when executing a rule that is switched off.
var ErrRuleDisabled = errors.New("automation rule is disabled")

// Supported action types.
const (
	ActionCreateReminder   = "create_reminder"
	ActionSendNotification = "send_notification"
	ActionUpdateStatus     = "update_status"
)

// LeadDirectory is the slice of the leads module the executor needs.
type LeadDirectory interface {
	LeadBrief(ctx context.Context, id uuid.UUID) (businessName, assignedRep string, err error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ReminderCreator schedules reminders for leads.
type ReminderCreator interface {
	CreateForLead(ctx context.Context, leadID uuid.UUID, title, notes string, dueAt time.Time) error
}

// Notifier inserts in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, memberName *string, title string, body *string, category string) (uuid.UUID, error)
}

// ActionResult records what a rule execution did for one lead.
type ActionResult struct {
	LeadID uuid.UUID `json:"lead_id"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
}

// ExecuteResponse is the outcome of a manual rule run.
type ExecuteResponse struct {
	RuleID  uuid.UUID      `json:"rule_id"`
	Results []ActionResult `json:"results"`
}

type Service struct {
	repo      *Repository
	leads     LeadDirectory
	reminders ReminderCreator
	notifier  Notifier
	log       *logger.Logger
}

func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetPorts wires the cross-module dependencies. Called once from the
// composition root after all modules are constructed.
func (s *Service) SetPorts(leads LeadDirectory, reminders ReminderCreator, notifier Notifier) {
	s.leads = leads
	s.reminders = reminders
	s.notifier = notifier
}

// Execute runs a rule's action against the given leads synchronously.
// Leads that no longer exist are skipped. The run counters are updated
// even when no lead produced a result.
func (s *Service) Execute(ctx context.Context, ruleID uuid.UUID, leadIDs []uuid.UUID) (ExecuteResponse, error) {
	rule, err := s.repo.GetByID(ctx, ruleID)
	if err != nil {
		return ExecuteResponse{}, err
	}
	if !rule.Enabled {
		return ExecuteResponse{}, ErrRuleDisabled
	}

	results := make([]ActionResult, 0, len(leadIDs))
	for _, leadID := range leadIDs {
		result, ok, err := s.applyAction(ctx, rule, leadID)
		if err != nil {
			return ExecuteResponse{}, err
		}
		if ok {
			results = append(results, result)
		}
	}

	if err := s.repo.RecordRun(ctx, ruleID); err != nil {
		return ExecuteResponse{}, err
	}
	s.log.Info("automation_rule_executed",
		"rule_id", ruleID.String(),
		"action", rule.ActionType,
		"leads", len(leadIDs),
		"applied", len(results),
	)
	return ExecuteResponse{RuleID: ruleID, Results: results}, nil
}

func (s *Service) applyAction(ctx context.Context, rule Rule, leadID uuid.UUID) (ActionResult, bool, error) {
	businessName, assignedRep, err := s.leads.LeadBrief(ctx, leadID)
	if err != nil {
		// Missing lead: skip rather than abort the batch.
		return ActionResult{}, false, nil
	}

	switch rule.ActionType {
	case ActionCreateReminder:
		title := configString(rule.ActionConfig, "title", fmt.Sprintf("Follow up with %s", businessName))
		notes := configString(rule.ActionConfig, "notes", "")
		dueInDays := configInt(rule.ActionConfig, "due_in_days", 1)
		dueAt := time.Now().AddDate(0, 0, dueInDays)
		if err := s.reminders.CreateForLead(ctx, leadID, title, notes, dueAt); err != nil {
			return ActionResult{}, false, err
		}
		return ActionResult{LeadID: leadID, Action: "reminder_created"}, true, nil

	case ActionSendNotification:
		title := configString(rule.ActionConfig, "title", "Automation triggered")
		message := configString(rule.ActionConfig, "message", fmt.Sprintf("Action taken for %s", businessName))
		var member *string
		if assignedRep != "" {
			member = &assignedRep
		}
		if _, err := s.notifier.Notify(ctx, member, title, &message, "automation"); err != nil {
			return ActionResult{}, false, err
		}
		return ActionResult{LeadID: leadID, Action: "notification_sent"}, true, nil

	case ActionUpdateStatus:
		// Direct assignment: the configured status wins even when it moves
		// the lead backwards or off a terminal status.
		newStatus := configString(rule.ActionConfig, "new_status", "")
		if newStatus == "" {
			return ActionResult{}, false, nil
		}
		if err := s.leads.SetStatus(ctx, leadID, newStatus); err != nil {
			return ActionResult{}, false, err
		}
		return ActionResult{LeadID: leadID, Action: "status_updated", Detail: newStatus}, true, nil
	}

	return ActionResult{}, false, nil
}

func configString(config map[string]any, key, fallback string) string {
	if v, ok := config[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func configInt(config map[string]any, key string, fallback int) int {
	switch v := config[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
