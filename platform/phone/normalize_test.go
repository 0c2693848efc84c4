package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"national format", "(415) 555-2671", "+14155552671"},
		{"already e164", "+14155552671", "+14155552671"},
		{"with spaces and dashes", "415-555-2671", "+14155552671"},
		{"international input", "+31 20 794 0000", "+31207940000"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unparseable returns trimmed", " not a number ", "not a number"},
		{"invalid number returns trimmed", "123", "123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
