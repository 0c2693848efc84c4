package analytics

import "testing"

func TestBucketFor(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, "0-7"},
		{7, "0-7"},
		{8, "8-14"},
		{14, "8-14"},
		{15, "15-30"},
		{30, "15-30"},
		{31, "31-60"},
		{60, "31-60"},
		{61, "60+"},
		{365, "60+"},
	}
	for _, tc := range cases {
		if got := bucketFor(tc.days); got != tc.want {
			t.Errorf("bucketFor(%d) = %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestRated(t *testing.T) {
	slices := map[string]SliceRate{
		"Referral": {Total: 3, Replied: 1},
		"Cold":     {Total: 0, Replied: 0},
	}
	rated(slices)

	if got := slices["Referral"].ResponseRate; got != 33.3 {
		t.Errorf("Referral rate = %v, want 33.3", got)
	}
	if got := slices["Cold"].ResponseRate; got != 0 {
		t.Errorf("Cold rate = %v, want 0", got)
	}
}
