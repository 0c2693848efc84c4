package service

import (
	"context"
	"errors"
	"math"
	"time"

	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/internal/leads/domain"
	"outreach_portal_backend/internal/leads/repository"
	"outreach_portal_backend/internal/leads/transport"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/phone"
	"outreach_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrLogNotFound  = errors.New("activity log not found")
)

// ReminderCreator lets the leads module schedule follow-up reminders without
// depending on the reminders module directly. Wired in main.
type ReminderCreator interface {
	CreateForLead(ctx context.Context, leadID uuid.UUID, title, notes string, dueAt time.Time) error
}

type Service struct {
	repo      *repository.Repository
	eventBus  events.Bus
	log       *logger.Logger
	reminders ReminderCreator
}

func New(repo *repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// SetReminderCreator wires the follow-up reminder dependency.
func (s *Service) SetReminderCreator(rc ReminderCreator) {
	s.reminders = rc
}

func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	status := req.Status
	if status == "" {
		status = domain.StatusNotContacted
	}

	lead, err := s.repo.Create(ctx, createParamsFromRequest(req, status))
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		BusinessName: lead.BusinessName,
		AssignedRep:  deref(lead.AssignedRep),
	})

	return toResponse(lead), nil
}

func (s *Service) BulkCreate(ctx context.Context, req transport.BulkCreateLeadsRequest) (int, error) {
	batch := make([]repository.CreateLeadParams, 0, len(req.Leads))
	for _, item := range req.Leads {
		status := item.Status
		if status == "" {
			status = domain.StatusNotContacted
		}
		batch = append(batch, createParamsFromRequest(item, status))
	}
	return s.repo.BulkCreate(ctx, batch)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, ErrLeadNotFound
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// Update applies direct edits. Unlike the advancement rule this may move the
// status in any direction, including out of a terminal status.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		BusinessName:    req.BusinessName,
		ContactName:     req.ContactName,
		Email:           req.Email,
		Status:          req.Status,
		Source:          req.Source,
		ServiceCategory: req.ServiceCategory,
		DealValue:       req.DealValue,
		AssignedRep:     req.AssignedRep,
		Notes:           sanitize.TextPtr(req.Notes),
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.ResponseStatus != nil {
		value := string(*req.ResponseStatus)
		params.ResponseStatus = &value
	}

	lead, err := s.repo.Update(ctx, id, params)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, ErrLeadNotFound
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	leads, total, err := s.repo.List(ctx, repository.ListLeadsParams{
		Status:          req.Status,
		Source:          req.Source,
		ServiceCategory: req.ServiceCategory,
		AssignedRep:     req.AssignedRep,
		Search:          req.Search,
		SortBy:          req.SortBy,
		SortOrder:       req.SortOrder,
		Limit:           pageSize,
		Offset:          (page - 1) * pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toResponse(lead))
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *Service) FilterOptions(ctx context.Context) (transport.FilterOptionsResponse, error) {
	statuses, sources, categories, reps, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return transport.FilterOptionsResponse{}, err
	}
	return transport.FilterOptionsResponse{
		Statuses:          statuses,
		Sources:           sources,
		ServiceCategories: categories,
		AssignedReps:      reps,
	}, nil
}

// CreateLog stores an activity log for a lead and, when the activity type
// calls for it, applies the advancement rule in the same transaction.
func (s *Service) CreateLog(ctx context.Context, leadID uuid.UUID, req transport.CreateLogRequest) (transport.LogCreatedResponse, error) {
	return s.logActivity(ctx, &leadID, req.ActivityType, req.Outcome, req.Notes, req.MemberName)
}

// QuickLog stores an activity log that may be orphaned (no lead attached).
// Orphan logs never touch the pipeline.
func (s *Service) QuickLog(ctx context.Context, req transport.QuickLogRequest) (transport.LogCreatedResponse, error) {
	return s.logActivity(ctx, req.LeadID, req.ActivityType, req.Outcome, req.Notes, req.MemberName)
}

func (s *Service) logActivity(ctx context.Context, leadID *uuid.UUID, activityType transport.ActivityType, outcome, notes, memberName string) (transport.LogCreatedResponse, error) {
	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return transport.LogCreatedResponse{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	cleanNotes := sanitize.Text(notes)
	logRow, err := s.repo.CreateLog(ctx, tx, repository.CreateLogParams{
		LeadID:       leadID,
		MemberName:   optional(memberName),
		ActivityType: string(activityType),
		Outcome:      optional(outcome),
		Notes:        optional(cleanNotes),
	})
	if err != nil {
		return transport.LogCreatedResponse{}, err
	}

	result := transport.LogCreatedResponse{Log: toLogResponse(logRow)}

	if leadID != nil {
		if proposed, invoked := domain.ProposedStatusForActivity(string(activityType), outcome); invoked {
			lead, err := s.repo.GetForUpdate(ctx, tx, *leadID)
			if errors.Is(err, repository.ErrNotFound) {
				return transport.LogCreatedResponse{}, ErrLeadNotFound
			}
			if err != nil {
				return transport.LogCreatedResponse{}, err
			}

			if newStatus, changed := domain.Advance(lead.Status, proposed); changed {
				if err := s.repo.UpdateStatus(ctx, tx, lead.ID, newStatus); err != nil {
					return transport.LogCreatedResponse{}, err
				}
				s.log.PipelineAdvance(lead.ID.String(), lead.Status, newStatus, "activity:"+string(activityType))
				result.StatusChanged = true
				result.LeadStatus = newStatus
			} else {
				result.LeadStatus = lead.Status
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return transport.LogCreatedResponse{}, err
	}

	if result.StatusChanged && leadID != nil {
		s.eventBus.Publish(ctx, events.LeadAdvanced{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    *leadID,
			ToStatus:  result.LeadStatus,
			Reason:    "activity:" + string(activityType),
		})
	}

	return result, nil
}

// AdvanceStatus applies the advancement rule outside of activity logging.
// Other modules (email send, reply detection, proposal queueing) call this
// through an adapter. The reason is recorded in logs only.
func (s *Service) AdvanceStatus(ctx context.Context, leadID uuid.UUID, proposed, reason string) error {
	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lead, err := s.repo.GetForUpdate(ctx, tx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		// Missing lead: nothing to advance.
		return nil
	}
	if err != nil {
		return err
	}

	newStatus, changed := domain.Advance(lead.Status, proposed)
	if !changed {
		return tx.Commit(ctx)
	}

	if err := s.repo.UpdateStatus(ctx, tx, lead.ID, newStatus); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.log.PipelineAdvance(lead.ID.String(), lead.Status, newStatus, reason)
	s.eventBus.Publish(ctx, events.LeadAdvanced{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		FromStatus: lead.Status,
		ToStatus:   newStatus,
		Reason:     reason,
	})
	return nil
}

// SetStatus writes a lead status directly, skipping the advancement rule.
// Used by automation rule actions where the configured status wins even
// when it moves the lead backwards.
func (s *Service) SetStatus(ctx context.Context, leadID uuid.UUID, status string) error {
	err := s.repo.UpdateStatus(ctx, s.repo.Pool(), leadID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}

// FindLeadIDByEmail resolves a lead by exact email match, used when linking
// tracked emails to leads.
func (s *Service) FindLeadIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error) {
	lead, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return lead.ID, true, nil
}

// FollowUp schedules a follow-up reminder and marks the lead as needing one.
// The status write here is a direct assignment, not an advancement.
func (s *Service) FollowUp(ctx context.Context, leadID uuid.UUID, req transport.FollowUpRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, ErrLeadNotFound
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}

	title := req.Title
	if title == "" {
		title = "Follow up with " + lead.BusinessName
	}

	if s.reminders != nil {
		if err := s.reminders.CreateForLead(ctx, leadID, title, sanitize.Text(req.Notes), req.DueAt); err != nil {
			return transport.LeadResponse{}, err
		}
	}

	status := domain.StatusFollowUpNeeded
	updated, err := s.repo.Update(ctx, leadID, repository.UpdateLeadParams{Status: &status})
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *Service) ListLogs(ctx context.Context, leadID uuid.UUID) ([]transport.LogResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLeadNotFound
	} else if err != nil {
		return nil, err
	}

	logs, err := s.repo.ListLogsByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return toLogResponses(logs), nil
}

func (s *Service) ListRecentLogs(ctx context.Context, req transport.ListLogsRequest) ([]transport.LogResponse, error) {
	days := req.Days
	if days < 1 {
		days = 30
	}
	limit := req.Limit
	if limit < 1 {
		limit = 100
	}

	logs, err := s.repo.ListRecentLogs(ctx, time.Now().AddDate(0, 0, -days), limit)
	if err != nil {
		return nil, err
	}
	return toLogResponses(logs), nil
}

func (s *Service) DeleteLog(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteLog(ctx, id)
	if errors.Is(err, repository.ErrLogNotFound) {
		return ErrLogNotFound
	}
	return err
}

func createParamsFromRequest(req transport.CreateLeadRequest, status string) repository.CreateLeadParams {
	var phoneValue *string
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		phoneValue = &normalized
	}
	var dealValue *float64
	if req.DealValue != 0 {
		value := req.DealValue
		dealValue = &value
	}
	return repository.CreateLeadParams{
		BusinessName:    req.BusinessName,
		ContactName:     optional(req.ContactName),
		Email:           optional(req.Email),
		Phone:           phoneValue,
		Status:          status,
		Source:          optional(req.Source),
		ServiceCategory: optional(req.ServiceCategory),
		DealValue:       dealValue,
		AssignedRep:     optional(req.AssignedRep),
		Notes:           optional(sanitize.Text(req.Notes)),
	}
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		BusinessName:    lead.BusinessName,
		ContactName:     lead.ContactName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Status:          lead.Status,
		ResponseStatus:  lead.ResponseStatus,
		Source:          lead.Source,
		ServiceCategory: lead.ServiceCategory,
		DealValue:       lead.DealValue,
		AssignedRep:     lead.AssignedRep,
		Notes:           lead.Notes,
		PipelineStageID: lead.PipelineStageID,
		StageEnteredAt:  lead.StageEnteredAt,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

func toLogResponse(log repository.ActivityLog) transport.LogResponse {
	return transport.LogResponse{
		ID:           log.ID,
		LeadID:       log.LeadID,
		MemberName:   log.MemberName,
		ActivityType: log.ActivityType,
		Outcome:      log.Outcome,
		Notes:        log.Notes,
		OccurredAt:   log.OccurredAt,
	}
}

func toLogResponses(logs []repository.ActivityLog) []transport.LogResponse {
	items := make([]transport.LogResponse, 0, len(logs))
	for _, log := range logs {
		items = append(items, toLogResponse(log))
	}
	return items
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
