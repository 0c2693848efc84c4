// Package service implements the outbound email queue, provider send, the
// sent-items sync, and the reply check.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outreach_portal_backend/internal/emails/domain"
	"outreach_portal_backend/internal/emails/repository"
	"outreach_portal_backend/internal/emails/transport"
	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/internal/msgraph"
	"outreach_portal_backend/platform/apperr"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

var (
	ErrEmailNotFound = errors.New("email not found")
	ErrNotSendable   = errors.New("email is not in a sendable state")
)

const (
	replySnippetMax = 500
	sentItemsBatch  = 100
	inboxBatch      = 100
)

// LeadDirectory is the port into the leads context.
type LeadDirectory interface {
	FindLeadIDByEmail(ctx context.Context, email string) (uuid.UUID, bool, error)
	AdvanceStatus(ctx context.Context, leadID uuid.UUID, proposed, reason string) error
	LogEmailActivity(ctx context.Context, leadID uuid.UUID, notes string) error
}

// TokenSource hands out provider access tokens.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) (string, error)
}

// MailProvider is the Graph client surface the service consumes.
type MailProvider interface {
	SendMail(ctx context.Context, accessToken, toAddress, toName, subject, htmlBody string) error
	ListSentItems(ctx context.Context, accessToken string, top int) ([]msgraph.Message, error)
	ListInbox(ctx context.Context, accessToken string, top int) ([]msgraph.Message, error)
	FindSentMessage(ctx context.Context, accessToken, subject string) (msgraph.Message, bool, error)
}

type Service struct {
	repo     *repository.Repository
	provider MailProvider
	tokens   TokenSource
	leads    LeadDirectory
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo *repository.Repository, provider MailProvider, tokens TokenSource, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, provider: provider, tokens: tokens, eventBus: eventBus, log: log}
}

// SetLeadDirectory wires the leads port. Set once from the composition root.
func (s *Service) SetLeadDirectory(leads LeadDirectory) {
	s.leads = leads
}

func (s *Service) Create(ctx context.Context, req transport.CreateEmailRequest) (transport.EmailResponse, error) {
	status := string(transport.StatusPendingReview)
	if req.Status != nil {
		status = *req.Status
	}
	priority := "normal"
	if req.Priority != nil {
		priority = *req.Priority
	}

	leadID := req.LeadID
	if leadID == nil && s.leads != nil {
		if id, ok, err := s.leads.FindLeadIDByEmail(ctx, req.RecipientEmail); err == nil && ok {
			leadID = &id
		}
	}

	email, err := s.repo.Create(ctx, repository.CreateEmailParams{
		LeadID:         leadID,
		RecipientEmail: normalizeEmail(req.RecipientEmail),
		RecipientName:  req.RecipientName,
		Subject:        sanitize.Text(req.Subject),
		BodyHTML:       req.BodyHTML,
		Status:         status,
		Priority:       priority,
		Source:         "manual",
	})
	if err != nil {
		return transport.EmailResponse{}, err
	}
	return toResponse(email), nil
}

// QueueProposalEmail inserts a high-priority review item on behalf of the
// proposals context.
func (s *Service) QueueProposalEmail(ctx context.Context, leadID uuid.UUID, recipientEmail string, recipientName *string, subject, bodyHTML string) (uuid.UUID, error) {
	email, err := s.repo.Create(ctx, repository.CreateEmailParams{
		LeadID:         &leadID,
		RecipientEmail: normalizeEmail(recipientEmail),
		RecipientName:  recipientName,
		Subject:        sanitize.Text(subject),
		BodyHTML:       bodyHTML,
		Status:         string(transport.StatusPendingReview),
		Priority:       "high",
		Source:         "proposal",
	})
	if err != nil {
		return uuid.Nil, err
	}
	return email.ID, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.EmailResponse, error) {
	email, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.EmailResponse{}, mapNotFound(err)
	}
	return toResponse(email), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateEmailRequest) (transport.EmailResponse, error) {
	email, err := s.repo.Update(ctx, id, repository.UpdateEmailParams{
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		Subject:        req.Subject,
		BodyHTML:       req.BodyHTML,
		Priority:       req.Priority,
	})
	if err != nil {
		return transport.EmailResponse{}, mapNotFound(err)
	}
	return toResponse(email), nil
}

func (s *Service) Approve(ctx context.Context, id uuid.UUID) (transport.EmailResponse, error) {
	email, err := s.repo.SetStatus(ctx, id, string(transport.StatusApproved), nil)
	if err != nil {
		return transport.EmailResponse{}, mapNotFound(err)
	}
	return toResponse(email), nil
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (transport.EmailResponse, error) {
	email, err := s.repo.SetStatus(ctx, id, string(transport.StatusRejected), &reason)
	if err != nil {
		return transport.EmailResponse{}, mapNotFound(err)
	}
	return toResponse(email), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return mapNotFound(s.repo.Delete(ctx, id))
}

func (s *Service) List(ctx context.Context, req transport.ListEmailsRequest) (transport.EmailListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	emails, total, err := s.repo.List(ctx, repository.ListEmailsParams{
		Status: req.Status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.EmailListResponse{}, err
	}

	items := make([]transport.EmailResponse, 0, len(emails))
	for _, email := range emails {
		items = append(items, toResponse(email))
	}
	return transport.EmailListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) Counts(ctx context.Context) (transport.EmailCountsResponse, error) {
	counts, err := s.repo.CountsByStatus(ctx)
	if err != nil {
		return transport.EmailCountsResponse{}, err
	}
	return transport.EmailCountsResponse{
		Draft:         counts[string(transport.StatusDraft)],
		PendingReview: counts[string(transport.StatusPendingReview)],
		Approved:      counts[string(transport.StatusApproved)],
		Rejected:      counts[string(transport.StatusRejected)],
		Sent:          counts[string(transport.StatusSent)],
	}, nil
}

// Send delivers one queued email through the provider, records the provider
// identifiers, logs an Email activity on the linked lead and proposes the
// Attempted status.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (transport.EmailResponse, error) {
	email, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.EmailResponse{}, mapNotFound(err)
	}
	if email.Status != string(transport.StatusApproved) && email.Status != string(transport.StatusPendingReview) {
		return transport.EmailResponse{}, ErrNotSendable
	}

	name := ""
	if email.RecipientName != nil {
		name = *email.RecipientName
	}
	err = s.withTokenRetry(ctx, func(token string) error {
		return s.provider.SendMail(ctx, token, email.RecipientEmail, name, email.Subject, email.BodyHTML)
	})
	if err != nil {
		s.log.MailProviderError("send_mail", providerStatus(err), err)
		return transport.EmailResponse{}, passThrough(err)
	}

	var providerMessageID, internetMessageID *string
	lookupErr := s.withTokenRetry(ctx, func(token string) error {
		msg, found, err := s.provider.FindSentMessage(ctx, token, email.Subject)
		if err != nil {
			return err
		}
		if found {
			providerMessageID = &msg.ID
			internetMessageID = &msg.InternetMessageID
		}
		return nil
	})
	if lookupErr != nil {
		// The send itself succeeded; a failed identifier lookup only costs
		// reply correlation for this message.
		s.log.MailProviderError("find_sent_message", providerStatus(lookupErr), lookupErr)
	}

	sent, err := s.repo.MarkSent(ctx, id, providerMessageID, internetMessageID)
	if err != nil {
		return transport.EmailResponse{}, err
	}

	leadID := sent.LeadID
	if leadID == nil && s.leads != nil {
		if resolved, ok, err := s.leads.FindLeadIDByEmail(ctx, sent.RecipientEmail); err == nil && ok {
			if err := s.repo.LinkLead(ctx, sent.ID, resolved); err == nil {
				leadID = &resolved
				sent.LeadID = &resolved
			}
		}
	}

	if leadID != nil && s.leads != nil {
		notes := fmt.Sprintf("Email sent: %s", sent.Subject)
		if err := s.leads.LogEmailActivity(ctx, *leadID, notes); err != nil {
			s.log.Error("failed to log email activity", "lead_id", leadID, "error", err)
		}
	}

	s.eventBus.Publish(ctx, events.EmailSent{
		BaseEvent: events.NewBaseEvent(),
		EmailID:   sent.ID,
		LeadID:    sent.LeadID,
		Recipient: sent.RecipientEmail,
		Subject:   sent.Subject,
	})

	return toResponse(sent), nil
}

// CheckReplies fetches an inbox batch and runs the reply matcher over every
// sent email still awaiting a reply.
func (s *Service) CheckReplies(ctx context.Context) (transport.CheckRepliesResponse, error) {
	awaiting, err := s.repo.ListAwaitingReply(ctx)
	if err != nil {
		return transport.CheckRepliesResponse{}, err
	}
	if len(awaiting) == 0 {
		return transport.CheckRepliesResponse{Checked: 0, NewReplies: 0}, nil
	}

	var inbox []msgraph.Message
	err = s.withTokenRetry(ctx, func(token string) error {
		var err error
		inbox, err = s.provider.ListInbox(ctx, token, inboxBatch)
		return err
	})
	if err != nil {
		s.log.MailProviderError("list_inbox", providerStatus(err), err)
		return transport.CheckRepliesResponse{}, passThrough(err)
	}

	sent := make([]domain.SentEmail, 0, len(awaiting))
	byID := make(map[string]repository.Email, len(awaiting))
	for _, email := range awaiting {
		sent = append(sent, domain.SentEmail{ID: email.ID.String(), Recipient: email.RecipientEmail, Subject: email.Subject})
		byID[email.ID.String()] = email
	}
	messages := make([]domain.InboxMessage, 0, len(inbox))
	for _, msg := range inbox {
		messages = append(messages, domain.InboxMessage{
			ID:          msg.ID,
			Sender:      msg.SenderAddress(),
			Subject:     msg.Subject,
			BodyPreview: msg.BodyPreview,
			ReceivedAt:  msg.ReceivedDateTime,
		})
	}

	matches := domain.MatchReplies(sent, messages)
	replied := 0
	for _, match := range matches {
		email := byID[match.SentID]
		repliedAt := time.Now()
		if match.Message.ReceivedAt != nil {
			repliedAt = *match.Message.ReceivedAt
		}
		var snippet *string
		if match.Message.BodyPreview != "" {
			trimmed := sanitize.Snippet(match.Message.BodyPreview, replySnippetMax)
			snippet = &trimmed
		}

		if err := s.repo.MarkReplied(ctx, email.ID, repliedAt, snippet); err != nil {
			s.log.Error("failed to mark email replied", "email_id", email.ID, "error", err)
			continue
		}
		replied++

		leadID := email.LeadID
		if leadID == nil && s.leads != nil {
			if resolved, ok, err := s.leads.FindLeadIDByEmail(ctx, email.RecipientEmail); err == nil && ok {
				if err := s.repo.LinkLead(ctx, email.ID, resolved); err == nil {
					leadID = &resolved
				}
			}
		}
		if leadID != nil && s.leads != nil {
			if err := s.leads.AdvanceStatus(ctx, *leadID, "Connected", "email reply received"); err != nil {
				s.log.Error("failed to advance lead on reply", "lead_id", leadID, "error", err)
			}
		}

		s.eventBus.Publish(ctx, events.EmailReplied{
			BaseEvent: events.NewBaseEvent(),
			EmailID:   email.ID,
			LeadID:    leadID,
			Sender:    email.RecipientEmail,
		})
	}

	return transport.CheckRepliesResponse{Checked: len(awaiting), NewReplies: replied}, nil
}

// Sync pulls the latest sent items from the provider, categorizes each
// subject and stores the categorized ones as tracked emails. Uncategorized
// messages and duplicates are skipped.
func (s *Service) Sync(ctx context.Context) (transport.SyncResponse, error) {
	var messages []msgraph.Message
	err := s.withTokenRetry(ctx, func(token string) error {
		var err error
		messages, err = s.provider.ListSentItems(ctx, token, sentItemsBatch)
		return err
	})
	if err != nil {
		s.log.MailProviderError("list_sent_items", providerStatus(err), err)
		msg := err.Error()
		if _, statusErr := s.repo.UpsertSyncStatus(ctx, 0, &msg); statusErr != nil {
			s.log.Error("failed to record sync error", "error", statusErr)
		}
		return transport.SyncResponse{}, passThrough(err)
	}

	tracked, skipped := 0, 0
	for _, msg := range messages {
		category, ok := domain.Categorize(msg.Subject)
		if !ok {
			skipped++
			continue
		}

		recipient := msg.FirstRecipient()
		var leadID *uuid.UUID
		if recipient != "" && s.leads != nil {
			if resolved, found, err := s.leads.FindLeadIDByEmail(ctx, recipient); err == nil && found {
				leadID = &resolved
			}
		}

		var preview *string
		if msg.BodyPreview != "" {
			p := msg.BodyPreview
			preview = &p
		}
		inserted, err := s.repo.Track(ctx, repository.TrackEmailParams{
			MicrosoftMessageID: msg.ID,
			LeadID:             leadID,
			RecipientEmail:     recipient,
			Subject:            msg.Subject,
			Category:           string(category),
			BodyPreview:        preview,
			SentAt:             msg.SentDateTime,
		})
		if err != nil {
			return transport.SyncResponse{}, err
		}
		if inserted {
			tracked++
		} else {
			skipped++
		}
	}

	status, err := s.repo.UpsertSyncStatus(ctx, tracked, nil)
	if err != nil {
		return transport.SyncResponse{}, err
	}
	return transport.SyncResponse{
		Fetched:      len(messages),
		Tracked:      tracked,
		Skipped:      skipped,
		LastSyncedAt: status.LastSyncedAt,
	}, nil
}

func (s *Service) Tracked(ctx context.Context, limit int) ([]transport.TrackedEmailResponse, error) {
	if limit < 1 {
		limit = 100
	}
	tracked, err := s.repo.ListTracked(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toTrackedResponses(tracked), nil
}

func (s *Service) TrackedByLead(ctx context.Context, leadID uuid.UUID) ([]transport.TrackedEmailResponse, error) {
	tracked, err := s.repo.ListTrackedByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return toTrackedResponses(tracked), nil
}

func (s *Service) TrackedStats(ctx context.Context) (transport.TrackedStatsResponse, error) {
	counts, err := s.repo.TrackedCategoryCounts(ctx)
	if err != nil {
		return transport.TrackedStatsResponse{}, err
	}

	total := 0
	stats := make([]transport.CategoryStat, 0, len(domain.Categories()))
	for _, category := range domain.Categories() {
		meta := domain.CategoryConfig[category]
		count := counts[string(category)]
		total += count
		stats = append(stats, transport.CategoryStat{
			Category: string(category),
			Label:    meta.Label,
			Color:    meta.Color,
			Icon:     meta.Icon,
			Count:    count,
		})
	}
	return transport.TrackedStatsResponse{Total: total, Categories: stats}, nil
}

// withTokenRetry runs fn with a valid access token and retries exactly once
// with a forced refresh if the provider rejects the token.
func (s *Service) withTokenRetry(ctx context.Context, fn func(token string) error) error {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if perr, ok := asProviderError(err); ok && perr.IsUnauthorized() {
		token, refreshErr := s.tokens.ForceRefresh(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		return fn(token)
	}
	return err
}

func asProviderError(err error) (*msgraph.ProviderError, bool) {
	var perr *msgraph.ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

func providerStatus(err error) int {
	if perr, ok := asProviderError(err); ok {
		return perr.StatusCode
	}
	return 0
}

// passThrough converts provider failures into upstream app errors so the
// handler surfaces the provider's message without translation.
func passThrough(err error) error {
	if perr, ok := asProviderError(err); ok {
		return apperr.Upstream(perr.Error())
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEmailNotFound
	}
	return err
}

func toResponse(email repository.Email) transport.EmailResponse {
	return transport.EmailResponse{
		ID:                email.ID,
		LeadID:            email.LeadID,
		RecipientEmail:    email.RecipientEmail,
		RecipientName:     email.RecipientName,
		Subject:           email.Subject,
		BodyHTML:          email.BodyHTML,
		Status:            email.Status,
		Priority:          email.Priority,
		Source:            email.Source,
		ReplyStatus:       email.ReplyStatus,
		RejectionReason:   email.RejectionReason,
		ProviderMessageID: email.ProviderMessageID,
		InternetMessageID: email.InternetMessageID,
		SentAt:            email.SentAt,
		RepliedAt:         email.RepliedAt,
		ReplySnippet:      email.ReplySnippet,
		CreatedAt:         email.CreatedAt,
		UpdatedAt:         email.UpdatedAt,
	}
}

func toTrackedResponses(tracked []repository.TrackedEmail) []transport.TrackedEmailResponse {
	out := make([]transport.TrackedEmailResponse, 0, len(tracked))
	for _, t := range tracked {
		out = append(out, transport.TrackedEmailResponse{
			ID:                 t.ID,
			MicrosoftMessageID: t.MicrosoftMessageID,
			LeadID:             t.LeadID,
			RecipientEmail:     t.RecipientEmail,
			Subject:            t.Subject,
			Category:           t.Category,
			BodyPreview:        t.BodyPreview,
			SentAt:             t.SentAt,
			CreatedAt:          t.CreatedAt,
		})
	}
	return out
}
