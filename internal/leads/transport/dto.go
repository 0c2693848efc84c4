package transport

import (
	"time"

	"github.com/google/uuid"
)

// Enum values
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "Call"
	ActivityTypeEmail   ActivityType = "Email"
	ActivityTypeMeeting ActivityType = "Meeting"
	ActivityTypeNote    ActivityType = "Note"
	ActivityTypeTask    ActivityType = "Task"
	ActivityTypeOther   ActivityType = "Other"
)

type ResponseStatus string

const (
	ResponseStatusNoResponse    ResponseStatus = "no_response"
	ResponseStatusOpened        ResponseStatus = "opened"
	ResponseStatusReplied       ResponseStatus = "replied"
	ResponseStatusInterested    ResponseStatus = "interested"
	ResponseStatusNotInterested ResponseStatus = "not_interested"
)

// Request DTOs
type CreateLeadRequest struct {
	BusinessName    string  `json:"businessName" validate:"required,min=1,max=200"`
	ContactName     string  `json:"contactName,omitempty" validate:"max=200"`
	Email           string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string  `json:"phone,omitempty" validate:"max=30"`
	Status          string  `json:"status,omitempty" validate:"max=50"`
	Source          string  `json:"source,omitempty" validate:"max=100"`
	ServiceCategory string  `json:"serviceCategory,omitempty" validate:"max=100"`
	DealValue       float64 `json:"dealValue,omitempty" validate:"gte=0"`
	AssignedRep     string  `json:"assignedRep,omitempty" validate:"max=200"`
	Notes           string  `json:"notes,omitempty" validate:"max=5000"`
}

type BulkCreateLeadsRequest struct {
	Leads []CreateLeadRequest `json:"leads" validate:"required,min=1,max=500,dive"`
}

type UpdateLeadRequest struct {
	BusinessName    *string         `json:"businessName,omitempty" validate:"omitempty,min=1,max=200"`
	ContactName     *string         `json:"contactName,omitempty" validate:"omitempty,max=200"`
	Email           *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string         `json:"phone,omitempty" validate:"omitempty,max=30"`
	Status          *string         `json:"status,omitempty" validate:"omitempty,max=50"`
	ResponseStatus  *ResponseStatus `json:"responseStatus,omitempty" validate:"omitempty,oneof=no_response opened replied interested not_interested"`
	Source          *string         `json:"source,omitempty" validate:"omitempty,max=100"`
	ServiceCategory *string         `json:"serviceCategory,omitempty" validate:"omitempty,max=100"`
	DealValue       *float64        `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
	AssignedRep     *string         `json:"assignedRep,omitempty" validate:"omitempty,max=200"`
	Notes           *string         `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type CreateLogRequest struct {
	ActivityType ActivityType `json:"activityType" validate:"required,oneof=Call Email Meeting Note Task Other"`
	Outcome      string       `json:"outcome,omitempty" validate:"max=100"`
	Notes        string       `json:"notes,omitempty" validate:"max=5000"`
	MemberName   string       `json:"memberName,omitempty" validate:"max=200"`
}

// QuickLogRequest logs an activity in one call, optionally without a lead
// ("orphan" logs record direct actions not tied to a stored lead).
type QuickLogRequest struct {
	LeadID       *uuid.UUID   `json:"leadId,omitempty"`
	ActivityType ActivityType `json:"activityType" validate:"required,oneof=Call Email Meeting Note Task Other"`
	Outcome      string       `json:"outcome,omitempty" validate:"max=100"`
	Notes        string       `json:"notes,omitempty" validate:"max=5000"`
	MemberName   string       `json:"memberName,omitempty" validate:"max=200"`
}

type FollowUpRequest struct {
	Title string    `json:"title,omitempty" validate:"max=200"`
	DueAt time.Time `json:"dueAt" validate:"required"`
	Notes string    `json:"notes,omitempty" validate:"max=2000"`
}

type ListLeadsRequest struct {
	Status          string `form:"status" validate:"max=50"`
	Source          string `form:"source" validate:"max=100"`
	ServiceCategory string `form:"serviceCategory" validate:"max=100"`
	AssignedRep     string `form:"assignedRep" validate:"max=200"`
	Search          string `form:"search" validate:"max=100"`
	Page            int    `form:"page" validate:"min=0"`
	PageSize        int    `form:"pageSize" validate:"min=0,max=200"`
	SortBy          string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt businessName status dealValue"`
	SortOrder       string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type ListLogsRequest struct {
	Days  int `form:"days" validate:"min=0,max=365"`
	Limit int `form:"limit" validate:"min=0,max=500"`
}

// Response DTOs
type LeadResponse struct {
	ID              uuid.UUID  `json:"id"`
	BusinessName    string     `json:"businessName"`
	ContactName     *string    `json:"contactName,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Status          string     `json:"status"`
	ResponseStatus  *string    `json:"responseStatus,omitempty"`
	Source          *string    `json:"source,omitempty"`
	ServiceCategory *string    `json:"serviceCategory,omitempty"`
	DealValue       *float64   `json:"dealValue,omitempty"`
	AssignedRep     *string    `json:"assignedRep,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	PipelineStageID *uuid.UUID `json:"pipelineStageId,omitempty"`
	StageEnteredAt  *time.Time `json:"stageEnteredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type LogResponse struct {
	ID           uuid.UUID  `json:"id"`
	LeadID       *uuid.UUID `json:"leadId,omitempty"`
	MemberName   *string    `json:"memberName,omitempty"`
	ActivityType string     `json:"activityType"`
	Outcome      *string    `json:"outcome,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	OccurredAt   time.Time  `json:"occurredAt"`
}

// LogCreatedResponse reports the stored log plus the pipeline effect it had.
type LogCreatedResponse struct {
	Log           LogResponse `json:"log"`
	StatusChanged bool        `json:"statusChanged"`
	LeadStatus    string      `json:"leadStatus,omitempty"`
}

type BulkCreateLeadsResponse struct {
	Created int `json:"created"`
}

type FilterOptionsResponse struct {
	Statuses          []string `json:"statuses"`
	Sources           []string `json:"sources"`
	ServiceCategories []string `json:"serviceCategories"`
	AssignedReps      []string `json:"assignedReps"`
}
