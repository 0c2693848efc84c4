// Package domain holds the pure email classification and reply matching
// rules. Nothing here touches the database or the mail provider.
package domain

import "strings"

// Category classifies an outbound outreach email by its subject.
type Category string

const (
	CategoryIntroduction Category = "introduction"
	CategoryFollowUp     Category = "follow_up"
	CategoryMeetingDate  Category = "meeting_date"
	CategoryContractDeal Category = "contract_deal"
	CategoryDealClosed   Category = "deal_closed"
)

// categoryKeywords pairs each category with its keyword list. Both the
// category order and the keyword order within a category are fixed; the
// first keyword hit anywhere decides the category, so reordering changes
// classification results.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryIntroduction, []string{"introduction", "intro", "reaching out", "first contact", "nice to meet", "introducing myself", "let me introduce"}},
	{CategoryFollowUp, []string{"follow up", "following up", "checking in", "just wanted to", "touching base", "circling back", "quick follow"}},
	{CategoryMeetingDate, []string{"meeting date", "schedule", "calendar", "book a time", "availability", "let's meet", "meeting request", "call scheduled"}},
	{CategoryContractDeal, []string{"contract deal", "proposal", "agreement", "pricing", "quote", "contract", "terms", "offer", "deal terms"}},
	{CategoryDealClosed, []string{"deal closed", "welcome aboard", "signed", "congratulations", "looking forward", "thank you for choosing", "welcome to"}},
}

// Categorize classifies a subject line by case-insensitive substring match.
// It returns false for an empty subject or one matching no keyword; such
// messages are not tracked.
func Categorize(subject string) (Category, bool) {
	lowered := strings.ToLower(strings.TrimSpace(subject))
	if lowered == "" {
		return "", false
	}
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.category, true
			}
		}
	}
	return "", false
}

// CategoryMeta is display metadata for a category, served to the frontend
// alongside tracked email listings.
type CategoryMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CategoryConfig maps each category to its display metadata.
var CategoryConfig = map[Category]CategoryMeta{
	CategoryIntroduction: {Label: "Introduction", Color: "#3B82F6", Icon: "handshake"},
	CategoryFollowUp:     {Label: "Follow-up", Color: "#F59E0B", Icon: "refresh"},
	CategoryMeetingDate:  {Label: "Meeting", Color: "#8B5CF6", Icon: "calendar"},
	CategoryContractDeal: {Label: "Contract / Deal", Color: "#10B981", Icon: "file-text"},
	CategoryDealClosed:   {Label: "Deal Closed", Color: "#059669", Icon: "check-circle"},
}

// Categories returns the taxonomy in classification order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryKeywords))
	for _, entry := range categoryKeywords {
		out = append(out, entry.category)
	}
	return out
}
