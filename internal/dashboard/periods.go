package dashboard

import (
	"math"
	"time"
)

// Periods holds the reporting window boundaries the stats endpoint
// compares against. Weeks start on Monday.
type Periods struct {
	Now            time.Time
	TodayStart     time.Time
	WeekStart      time.Time
	LastWeekStart  time.Time
	LastWeekEnd    time.Time
	MonthStart     time.Time
	LastMonthStart time.Time
	LastMonthEnd   time.Time
	YearStart      time.Time
}

// PeriodBoundaries computes the boundaries relative to the given instant
// in its location.
func PeriodBoundaries(now time.Time) Periods {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daysSinceMonday := int(now.Weekday()) - int(time.Monday)
	if daysSinceMonday < 0 {
		daysSinceMonday += 7
	}
	weekStart := todayStart.AddDate(0, 0, -daysSinceMonday)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	return Periods{
		Now:            now,
		TodayStart:     todayStart,
		WeekStart:      weekStart,
		LastWeekStart:  weekStart.AddDate(0, 0, -7),
		LastWeekEnd:    weekStart,
		MonthStart:     monthStart,
		LastMonthStart: lastMonthStart,
		LastMonthEnd:   monthStart,
		YearStart:      yearStart,
	}
}

// percentChange reports the relative change from previous to current as a
// percentage rounded to one decimal. A zero previous period maps to 100%
// when anything happened and 0% otherwise.
func percentChange(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	change := (float64(current-previous) / float64(previous)) * 100
	return math.Round(change*10) / 10
}
