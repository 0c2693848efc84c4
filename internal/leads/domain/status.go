// Package domain holds the lead lifecycle rules. These are pure functions
// with no persistence coupling so they stay independently testable.
package domain

// Pipeline statuses, least advanced first.
const (
	StatusNotContacted   = "Not Contacted"
	StatusAttempted      = "Attempted"
	StatusConnected      = "Connected"
	StatusFollowUpNeeded = "Follow-up Needed"
	StatusQualifiedLead  = "Qualified Lead"
	StatusProposalSent   = "Proposal Sent"
	StatusConverted      = "Converted"

	// StatusNotInterested is terminal but sits outside the canonical order.
	StatusNotInterested = "Not Interested"
)

// PipelineOrder is the canonical status ordering. Index position encodes
// progress; the advancement rule only ever moves a lead to a higher index.
var PipelineOrder = []string{
	StatusNotContacted,
	StatusAttempted,
	StatusConnected,
	StatusFollowUpNeeded,
	StatusQualifiedLead,
	StatusProposalSent,
	StatusConverted,
}

var terminalStatuses = map[string]struct{}{
	StatusConverted:     {},
	StatusNotInterested: {},
}

// StatusIndex returns the position of a status in the canonical order,
// or -1 when the status is not part of it.
func StatusIndex(status string) int {
	for i, s := range PipelineOrder {
		if s == status {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the automated rule must never move the lead.
func IsTerminal(status string) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// Advance applies the monotonic advancement rule. It returns the status the
// lead should carry and whether that is a change. An unset current status is
// treated as "Not Contacted". Terminal statuses are frozen: only a direct
// user edit can move a lead out of them.
func Advance(current, proposed string) (string, bool) {
	if current == "" {
		current = StatusNotContacted
	}
	if IsTerminal(current) {
		return current, false
	}

	curIdx := StatusIndex(current)
	newIdx := StatusIndex(proposed)
	if newIdx > curIdx {
		return proposed, true
	}
	return current, false
}

// Activity types recorded against a lead.
const (
	ActivityCall    = "Call"
	ActivityEmail   = "Email"
	ActivityMeeting = "Meeting"
	ActivityNote    = "Note"
	ActivityTask    = "Task"
	ActivityOther   = "Other"
)

// ProposedStatusForActivity maps a logged activity to the status the
// advancement rule should be invoked with. The second return is false for
// activity types that never touch the pipeline (notes, tasks).
func ProposedStatusForActivity(activityType, outcome string) (string, bool) {
	switch activityType {
	case ActivityCall:
		if outcome == "Connected" || outcome == "Interested" {
			return StatusConnected, true
		}
		return StatusAttempted, true
	case ActivityEmail:
		return StatusAttempted, true
	case ActivityMeeting:
		return StatusConnected, true
	default:
		return "", false
	}
}
