package dashboard

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodBoundariesMidweek(t *testing.T) {
	// Wednesday 2026-03-18, 15:30.
	now := time.Date(2026, time.March, 18, 15, 30, 0, 0, time.UTC)
	p := PeriodBoundaries(now)

	if !p.TodayStart.Equal(date(2026, time.March, 18)) {
		t.Errorf("TodayStart = %v", p.TodayStart)
	}
	if !p.WeekStart.Equal(date(2026, time.March, 16)) {
		t.Errorf("WeekStart = %v, want Monday the 16th", p.WeekStart)
	}
	if !p.LastWeekStart.Equal(date(2026, time.March, 9)) {
		t.Errorf("LastWeekStart = %v", p.LastWeekStart)
	}
	if !p.LastWeekEnd.Equal(p.WeekStart) {
		t.Errorf("LastWeekEnd = %v, want current week start", p.LastWeekEnd)
	}
	if !p.MonthStart.Equal(date(2026, time.March, 1)) {
		t.Errorf("MonthStart = %v", p.MonthStart)
	}
	if !p.LastMonthStart.Equal(date(2026, time.February, 1)) {
		t.Errorf("LastMonthStart = %v", p.LastMonthStart)
	}
	if !p.LastMonthEnd.Equal(p.MonthStart) {
		t.Errorf("LastMonthEnd = %v, want current month start", p.LastMonthEnd)
	}
	if !p.YearStart.Equal(date(2026, time.January, 1)) {
		t.Errorf("YearStart = %v", p.YearStart)
	}
}

func TestPeriodBoundariesWeekStartsOnMonday(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday itself", date(2026, time.March, 16), date(2026, time.March, 16)},
		{"sunday belongs to prior monday", date(2026, time.March, 22), date(2026, time.March, 16)},
		{"saturday", date(2026, time.March, 21), date(2026, time.March, 16)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := PeriodBoundaries(tc.now)
			if !p.WeekStart.Equal(tc.want) {
				t.Errorf("WeekStart = %v, want %v", p.WeekStart, tc.want)
			}
		})
	}
}

func TestPeriodBoundariesMonthRollover(t *testing.T) {
	// January: last month crosses the year boundary.
	p := PeriodBoundaries(date(2026, time.January, 10))
	if !p.LastMonthStart.Equal(date(2025, time.December, 1)) {
		t.Errorf("LastMonthStart = %v", p.LastMonthStart)
	}
	if !p.LastMonthEnd.Equal(date(2026, time.January, 1)) {
		t.Errorf("LastMonthEnd = %v", p.LastMonthEnd)
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		current, previous int
		want              float64
	}{
		{150, 100, 50.0},
		{50, 100, -50.0},
		{100, 100, 0.0},
		{10, 0, 100.0},
		{0, 0, 0.0},
		{1, 3, -66.7},
	}
	for _, tc := range cases {
		if got := percentChange(tc.current, tc.previous); got != tc.want {
			t.Errorf("percentChange(%d, %d) = %v, want %v", tc.current, tc.previous, got, tc.want)
		}
	}
}
