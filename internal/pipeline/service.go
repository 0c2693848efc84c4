package pipeline

import (
	"context"
	"time"

	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo     *Repository
	eventBus events.Bus
	log      *logger.Logger
}

func NewService(repo *Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

type StageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) ListStages(ctx context.Context) ([]StageResponse, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return nil, err
	}
	return toStageResponses(stages), nil
}

func (s *Service) CreateStage(ctx context.Context, name, color string) (StageResponse, error) {
	count, err := s.repo.CountStages(ctx)
	if err != nil {
		return StageResponse{}, err
	}
	stage, err := s.repo.CreateStage(ctx, name, color, count, false)
	if err != nil {
		return StageResponse{}, err
	}
	return toStageResponse(stage), nil
}

func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, name, color *string) (StageResponse, error) {
	stage, err := s.repo.UpdateStage(ctx, id, name, color)
	if err != nil {
		return StageResponse{}, err
	}
	return toStageResponse(stage), nil
}

func (s *Service) DeleteStage(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteStage(ctx, id)
}

func (s *Service) ReorderStages(ctx context.Context, orderedIDs []uuid.UUID) ([]StageResponse, error) {
	if err := s.repo.ReorderStages(ctx, orderedIDs); err != nil {
		return nil, err
	}
	return s.ListStages(ctx)
}

// BoardColumn is one stage with its lead cards.
type BoardColumn struct {
	Stage StageResponse `json:"stage"`
	Leads []BoardCard   `json:"leads"`
}

type BoardCard struct {
	ID             uuid.UUID  `json:"id"`
	BusinessName   string     `json:"business_name"`
	ContactName    *string    `json:"contact_name,omitempty"`
	Status         string     `json:"status"`
	DealValue      *float64   `json:"deal_value,omitempty"`
	AssignedRep    *string    `json:"assigned_rep,omitempty"`
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty"`
}

// BoardResponse groups leads by stage; leads without a stage land in
// Unassigned.
type BoardResponse struct {
	Columns    []BoardColumn `json:"columns"`
	Unassigned []BoardCard   `json:"unassigned"`
}

func (s *Service) Board(ctx context.Context) (BoardResponse, error) {
	stages, err := s.repo.ListStages(ctx)
	if err != nil {
		return BoardResponse{}, err
	}
	leads, err := s.repo.ListBoardLeads(ctx)
	if err != nil {
		return BoardResponse{}, err
	}

	byStage := make(map[uuid.UUID][]BoardCard)
	unassigned := make([]BoardCard, 0)
	for _, lead := range leads {
		card := BoardCard{
			ID:             lead.ID,
			BusinessName:   lead.BusinessName,
			ContactName:    lead.ContactName,
			Status:         lead.Status,
			DealValue:      lead.DealValue,
			AssignedRep:    lead.AssignedRep,
			StageEnteredAt: lead.StageEnteredAt,
		}
		if lead.StageID == nil {
			unassigned = append(unassigned, card)
			continue
		}
		byStage[*lead.StageID] = append(byStage[*lead.StageID], card)
	}

	columns := make([]BoardColumn, 0, len(stages))
	for _, stage := range stages {
		cards := byStage[stage.ID]
		if cards == nil {
			cards = make([]BoardCard, 0)
		}
		columns = append(columns, BoardColumn{Stage: toStageResponse(stage), Leads: cards})
	}
	return BoardResponse{Columns: columns, Unassigned: unassigned}, nil
}

// MoveLead reassigns a lead's board stage and records history.
func (s *Service) MoveLead(ctx context.Context, leadID, toStageID uuid.UUID) error {
	fromStageID, err := s.repo.MoveLead(ctx, leadID, toStageID)
	if err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.LeadStageMoved{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      leadID,
		FromStageID: fromStageID,
		ToStageID:   toStageID,
	})
	return nil
}

type HistoryResponse struct {
	ID              uuid.UUID  `json:"id"`
	FromStageID     *uuid.UUID `json:"from_stage_id,omitempty"`
	FromStageName   *string    `json:"from_stage_name,omitempty"`
	ToStageID       uuid.UUID  `json:"to_stage_id"`
	ToStageName     string     `json:"to_stage_name"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
	ChangedAt       time.Time  `json:"changed_at"`
}

func (s *Service) History(ctx context.Context, leadID uuid.UUID) ([]HistoryResponse, error) {
	entries, err := s.repo.History(ctx, leadID)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryResponse{
			ID:              e.ID,
			FromStageID:     e.FromStageID,
			FromStageName:   e.FromStageName,
			ToStageID:       e.ToStageID,
			ToStageName:     e.ToStageName,
			DurationSeconds: e.DurationSeconds,
			ChangedAt:       e.ChangedAt,
		})
	}
	return out, nil
}

type BottleneckResponse struct {
	StageID   uuid.UUID `json:"stage_id"`
	StageName string    `json:"stage_name"`
	AvgDays   float64   `json:"avg_days"`
	Moves     int       `json:"moves"`
}

func (s *Service) Bottlenecks(ctx context.Context) ([]BottleneckResponse, error) {
	dwells, err := s.repo.Bottlenecks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BottleneckResponse, 0, len(dwells))
	for _, d := range dwells {
		out = append(out, BottleneckResponse{
			StageID:   d.StageID,
			StageName: d.StageName,
			AvgDays:   d.AvgSeconds / 86400,
			Moves:     d.Moves,
		})
	}
	return out, nil
}

type MetricsResponse struct {
	Stages     []StageMetricResponse `json:"stages"`
	TotalLeads int                   `json:"total_leads"`
	TotalValue float64               `json:"total_value"`
}

type StageMetricResponse struct {
	StageID    uuid.UUID `json:"stage_id"`
	StageName  string    `json:"stage_name"`
	LeadCount  int       `json:"lead_count"`
	TotalValue float64   `json:"total_value"`
}

func (s *Service) Metrics(ctx context.Context) (MetricsResponse, error) {
	metrics, err := s.repo.StageMetrics(ctx)
	if err != nil {
		return MetricsResponse{}, err
	}

	resp := MetricsResponse{Stages: make([]StageMetricResponse, 0, len(metrics))}
	for _, m := range metrics {
		resp.TotalLeads += m.LeadCount
		resp.TotalValue += m.TotalValue
		resp.Stages = append(resp.Stages, StageMetricResponse{
			StageID:    m.StageID,
			StageName:  m.StageName,
			LeadCount:  m.LeadCount,
			TotalValue: m.TotalValue,
		})
	}
	return resp, nil
}

func toStageResponse(stage Stage) StageResponse {
	return StageResponse{
		ID:        stage.ID,
		Name:      stage.Name,
		Position:  stage.Position,
		Color:     stage.Color,
		IsDefault: stage.IsDefault,
		CreatedAt: stage.CreatedAt,
		UpdatedAt: stage.UpdatedAt,
	}
}

func toStageResponses(stages []Stage) []StageResponse {
	out := make([]StageResponse, 0, len(stages))
	for _, stage := range stages {
		out = append(out, toStageResponse(stage))
	}
	return out
}
