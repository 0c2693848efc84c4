package domain

import (
	"strings"
	"time"
)

// SentEmail is the subset of a sent email the reply matcher needs.
type SentEmail struct {
	ID        string
	Recipient string
	Subject   string
}

// InboxMessage is one message fetched from the provider's inbox, in the
// order the provider returned them (most recent first).
type InboxMessage struct {
	ID          string
	Sender      string
	Subject     string
	BodyPreview string
	ReceivedAt  *time.Time
}

// ReplyMatch pairs a sent email with the inbox message identified as its
// reply.
type ReplyMatch struct {
	SentID  string
	Message InboxMessage
}

// IsReplyTo reports whether msg is a reply to sent: same correspondent, a
// "re:" subject prefix, and the original subject contained in the reply
// subject. All comparisons are case-insensitive.
func IsReplyTo(sent SentEmail, msg InboxMessage) bool {
	if sent.Recipient == "" || msg.Sender == "" {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(sent.Recipient), strings.TrimSpace(msg.Sender)) {
		return false
	}
	replySubject := strings.ToLower(msg.Subject)
	if !strings.HasPrefix(replySubject, "re:") {
		return false
	}
	return strings.Contains(replySubject, strings.ToLower(sent.Subject))
}

// MatchReplies scans the inbox batch for each sent email and takes the first
// matching message, then moves on. The inbox slice must keep the provider's
// ordering for the first-match policy to be deterministic.
func MatchReplies(sent []SentEmail, inbox []InboxMessage) []ReplyMatch {
	matches := make([]ReplyMatch, 0)
	for _, s := range sent {
		for _, msg := range inbox {
			if IsReplyTo(s, msg) {
				matches = append(matches, ReplyMatch{SentID: s.ID, Message: msg})
				break
			}
		}
	}
	return matches
}
