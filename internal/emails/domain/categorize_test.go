package domain

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    Category
		matched bool
	}{
		{"follow up phrase", "Quick follow up on our call", CategoryFollowUp, true},
		{"pricing beats reply prefix", "Re: Pricing for your project", CategoryContractDeal, true},
		{"empty subject", "", "", false},
		{"no keywords", "Happy Monday!", "", false},
		{"introduction", "Introduction - Acme Corp", CategoryIntroduction, true},
		{"intro substring", "Intro call next week?", CategoryIntroduction, true},
		{"meeting", "Can we schedule a demo?", CategoryMeetingDate, true},
		{"deal closed", "Welcome aboard!", CategoryDealClosed, true},
		{"case insensitive", "FOLLOWING UP on last week", CategoryFollowUp, true},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Categorize(tt.subject)
			if ok != tt.matched {
				t.Fatalf("Categorize(%q) matched = %v, want %v", tt.subject, ok, tt.matched)
			}
			if got != tt.want {
				t.Fatalf("Categorize(%q) = %q, want %q", tt.subject, got, tt.want)
			}
		})
	}
}

func TestCategorizeEarlierCategoryWins(t *testing.T) {
	// "introduction" is listed before "contract_deal", so a subject hitting
	// keywords from both resolves to introduction.
	got, ok := Categorize("Introduction and proposal for Acme")
	if !ok || got != CategoryIntroduction {
		t.Fatalf("got %q (matched=%v), want introduction", got, ok)
	}
}

func TestCategoryConfigCoversTaxonomy(t *testing.T) {
	for _, cat := range Categories() {
		meta, ok := CategoryConfig[cat]
		if !ok {
			t.Fatalf("category %q has no display metadata", cat)
		}
		if meta.Label == "" || meta.Color == "" {
			t.Fatalf("category %q has incomplete metadata: %+v", cat, meta)
		}
	}
}
