package domain

import "testing"

func TestAdvanceForwardOnly(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		proposed string
		want     string
		changed  bool
	}{
		{"forward one step", StatusAttempted, StatusConnected, StatusConnected, true},
		{"forward multiple steps", StatusNotContacted, StatusQualifiedLead, StatusQualifiedLead, true},
		{"backward is ignored", StatusConnected, StatusAttempted, StatusConnected, false},
		{"same status is ignored", StatusConnected, StatusConnected, StatusConnected, false},
		{"unset current defaults to Not Contacted", "", StatusAttempted, StatusAttempted, true},
		{"unset current against Not Contacted", "", StatusNotContacted, StatusNotContacted, false},
		{"unknown current advances to any listed status", "Some Legacy Value", StatusNotContacted, StatusNotContacted, true},
		{"unknown proposed never advances", StatusAttempted, "Garbage", StatusAttempted, false},
		{"unknown current and proposed is a no-op", "Legacy", "Garbage", "Legacy", false},
		{"forward to Converted", StatusProposalSent, StatusConverted, StatusConverted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Advance(tt.current, tt.proposed)
			if got != tt.want || changed != tt.changed {
				t.Fatalf("Advance(%q, %q) = (%q, %v), want (%q, %v)",
					tt.current, tt.proposed, got, changed, tt.want, tt.changed)
			}
		})
	}
}

func TestAdvanceTerminalIsFrozen(t *testing.T) {
	proposals := append([]string{}, PipelineOrder...)
	proposals = append(proposals, StatusNotInterested, "Garbage", "")

	for _, terminal := range []string{StatusConverted, StatusNotInterested} {
		for _, proposed := range proposals {
			got, changed := Advance(terminal, proposed)
			if changed || got != terminal {
				t.Fatalf("Advance(%q, %q) moved a terminal lead to %q", terminal, proposed, got)
			}
		}
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	first, changed := Advance(StatusAttempted, StatusConnected)
	if !changed {
		t.Fatalf("expected first advance to apply")
	}
	second, changed := Advance(first, StatusConnected)
	if changed || second != first {
		t.Fatalf("second advance changed state: got %q, want %q", second, first)
	}
}

func TestAdvanceMatchesIndexComparison(t *testing.T) {
	for i, current := range PipelineOrder {
		if IsTerminal(current) {
			continue
		}
		for j, proposed := range PipelineOrder {
			got, changed := Advance(current, proposed)
			if j > i {
				if !changed || got != proposed {
					t.Fatalf("Advance(%q, %q): expected advance, got (%q, %v)", current, proposed, got, changed)
				}
			} else if changed {
				t.Fatalf("Advance(%q, %q): unexpected advance to %q", current, proposed, got)
			}
		}
	}
}

func TestProposedStatusForActivity(t *testing.T) {
	tests := []struct {
		activityType string
		outcome      string
		want         string
		invoked      bool
	}{
		{ActivityCall, "Connected", StatusConnected, true},
		{ActivityCall, "Interested", StatusConnected, true},
		{ActivityCall, "No Answer", StatusAttempted, true},
		{ActivityCall, "", StatusAttempted, true},
		{ActivityEmail, "Sent", StatusAttempted, true},
		{ActivityMeeting, "Held", StatusConnected, true},
		{ActivityNote, "", "", false},
		{ActivityTask, "Done", "", false},
		{ActivityOther, "", "", false},
	}

	for _, tt := range tests {
		got, invoked := ProposedStatusForActivity(tt.activityType, tt.outcome)
		if got != tt.want || invoked != tt.invoked {
			t.Fatalf("ProposedStatusForActivity(%q, %q) = (%q, %v), want (%q, %v)",
				tt.activityType, tt.outcome, got, invoked, tt.want, tt.invoked)
		}
	}
}
