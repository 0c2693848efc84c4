// Package transport defines the request and response DTOs for the emails API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the outbound email lifecycle.
type EmailStatus string

const (
	StatusDraft         EmailStatus = "draft"
	StatusPendingReview EmailStatus = "pending_review"
	StatusApproved      EmailStatus = "approved"
	StatusRejected      EmailStatus = "rejected"
	StatusSent          EmailStatus = "sent"
)

// ReplyStatus is the post-send tracking sub-state.
type ReplyStatus string

const (
	ReplyStatusNoReply ReplyStatus = "no_reply"
	ReplyStatusReplied ReplyStatus = "replied"
	ReplyStatusBounced ReplyStatus = "bounced"
)

type CreateEmailRequest struct {
	LeadID         *uuid.UUID `json:"lead_id" validate:"omitempty"`
	RecipientEmail string     `json:"recipient_email" validate:"required,email"`
	RecipientName  *string    `json:"recipient_name" validate:"omitempty,max=200"`
	Subject        string     `json:"subject" validate:"required,max=500"`
	BodyHTML       string     `json:"body_html" validate:"required"`
	Status         *string    `json:"status" validate:"omitempty,oneof=draft pending_review"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low normal high"`
}

type UpdateEmailRequest struct {
	RecipientEmail *string `json:"recipient_email" validate:"omitempty,email"`
	RecipientName  *string `json:"recipient_name" validate:"omitempty,max=200"`
	Subject        *string `json:"subject" validate:"omitempty,max=500"`
	BodyHTML       *string `json:"body_html" validate:"omitempty"`
	Priority       *string `json:"priority" validate:"omitempty,oneof=low normal high"`
}

type RejectEmailRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type ListEmailsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=draft pending_review approved rejected sent"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type EmailResponse struct {
	ID                uuid.UUID  `json:"id"`
	LeadID            *uuid.UUID `json:"lead_id,omitempty"`
	RecipientEmail    string     `json:"recipient_email"`
	RecipientName     *string    `json:"recipient_name,omitempty"`
	Subject           string     `json:"subject"`
	BodyHTML          string     `json:"body_html"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	Source            string     `json:"source"`
	ReplyStatus       *string    `json:"reply_status,omitempty"`
	RejectionReason   *string    `json:"rejection_reason,omitempty"`
	ProviderMessageID *string    `json:"provider_message_id,omitempty"`
	InternetMessageID *string    `json:"internet_message_id,omitempty"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	RepliedAt         *time.Time `json:"replied_at,omitempty"`
	ReplySnippet      *string    `json:"reply_snippet,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type EmailListResponse struct {
	Items    []EmailResponse `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type EmailCountsResponse struct {
	Draft         int `json:"draft"`
	PendingReview int `json:"pending_review"`
	Approved      int `json:"approved"`
	Rejected      int `json:"rejected"`
	Sent          int `json:"sent"`
}

type CheckRepliesResponse struct {
	Checked    int `json:"checked"`
	NewReplies int `json:"new_replies"`
}

type SyncResponse struct {
	Fetched      int        `json:"fetched"`
	Tracked      int        `json:"tracked"`
	Skipped      int        `json:"skipped"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

type TrackedEmailResponse struct {
	ID                 uuid.UUID  `json:"id"`
	MicrosoftMessageID string     `json:"microsoft_message_id"`
	LeadID             *uuid.UUID `json:"lead_id,omitempty"`
	RecipientEmail     string     `json:"recipient_email"`
	Subject            string     `json:"subject"`
	Category           string     `json:"category"`
	BodyPreview        *string    `json:"body_preview,omitempty"`
	SentAt             *time.Time `json:"sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
	Count    int    `json:"count"`
}

type TrackedStatsResponse struct {
	Total      int            `json:"total"`
	Categories []CategoryStat `json:"categories"`
}
