package domain

import "testing"

func TestIsReplyTo(t *testing.T) {
	sent := SentEmail{ID: "s1", Recipient: "a@x.com", Subject: "Introduction - Acme"}

	tests := []struct {
		name string
		msg  InboxMessage
		want bool
	}{
		{"exact reply", InboxMessage{Sender: "a@x.com", Subject: "RE: Introduction - Acme"}, true},
		{"wrong sender", InboxMessage{Sender: "b@x.com", Subject: "RE: Introduction - Acme"}, false},
		{"no re prefix", InboxMessage{Sender: "a@x.com", Subject: "Introduction - Acme"}, false},
		{"case insensitive sender", InboxMessage{Sender: "A@X.COM", Subject: "re: introduction - acme"}, true},
		{"subject not contained", InboxMessage{Sender: "a@x.com", Subject: "RE: something else"}, false},
		{"lowercase re prefix", InboxMessage{Sender: "a@x.com", Subject: "re: Introduction - Acme"}, true},
		{"empty sender", InboxMessage{Sender: "", Subject: "RE: Introduction - Acme"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReplyTo(sent, tt.msg); got != tt.want {
				t.Fatalf("IsReplyTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchRepliesFirstMatchWins(t *testing.T) {
	sent := []SentEmail{{ID: "s1", Recipient: "a@x.com", Subject: "Proposal"}}
	inbox := []InboxMessage{
		{ID: "m1", Sender: "a@x.com", Subject: "RE: Proposal"},
		{ID: "m2", Sender: "a@x.com", Subject: "RE: Proposal again"},
	}

	matches := MatchReplies(sent, inbox)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Message.ID != "m1" {
		t.Fatalf("matched %q, want first message m1", matches[0].Message.ID)
	}
}

func TestMatchRepliesMultipleSent(t *testing.T) {
	sent := []SentEmail{
		{ID: "s1", Recipient: "a@x.com", Subject: "Proposal"},
		{ID: "s2", Recipient: "b@x.com", Subject: "Follow up"},
		{ID: "s3", Recipient: "c@x.com", Subject: "Quote"},
	}
	inbox := []InboxMessage{
		{ID: "m1", Sender: "b@x.com", Subject: "Re: Follow up"},
		{ID: "m2", Sender: "a@x.com", Subject: "RE: Proposal"},
	}

	matches := MatchReplies(sent, inbox)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	byID := map[string]string{}
	for _, m := range matches {
		byID[m.SentID] = m.Message.ID
	}
	if byID["s1"] != "m2" || byID["s2"] != "m1" {
		t.Fatalf("unexpected pairing: %v", byID)
	}
	if _, ok := byID["s3"]; ok {
		t.Fatal("s3 should not have matched any inbox message")
	}
}

func TestMatchRepliesEmptyInputs(t *testing.T) {
	if got := MatchReplies(nil, nil); len(got) != 0 {
		t.Fatalf("got %d matches for empty input", len(got))
	}
}
