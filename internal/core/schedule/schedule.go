// Package schedule contains the pure date arithmetic for weekly evaluations.
// This is part of the Functional Core - no I/O, only pure functions.
package schedule

import "time"

// DaysPerWeek is the length of one program week.
const DaysPerWeek = 7

// DateLayout is the canonical format for week keys and daily record dates.
const DateLayout = "2006-01-02"

// Normalize truncates a timestamp to its calendar date at midnight UTC.
// All week arithmetic runs on normalized dates so that DST shifts in the
// caller's location cannot produce 23- or 25-hour "days".
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of whole calendar days from start to today.
// Negative when today precedes start.
func DaysSince(start, today time.Time) int {
	return int(Normalize(today).Sub(Normalize(start)) / (24 * time.Hour))
}

// IsTargetDay reports whether today is a weekly evaluation boundary for a
// participant who began the program on start. True exactly on days
// start+7, start+14, start+21, and so on. Day 0 (enrollment day) is never
// a target day, nor is any day before enrollment.
func IsTargetDay(start, today time.Time) bool {
	days := DaysSince(start, today)
	return days >= DaysPerWeek && days%DaysPerWeek == 0
}

// WeeksSince returns the number of complete program weeks elapsed from
// start to today. On a target day this is exact; between target days it
// floors to the last completed boundary.
func WeeksSince(start, today time.Time) int {
	return DaysSince(start, today) / DaysPerWeek
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := Normalize(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// AnalysisWindow returns the most recently completed program week as of
// today: the 7 days ending the day before today. On a target day this is
// the week whose data feeds the new target.
func AnalysisWindow(today time.Time) Window {
	end := Normalize(today).AddDate(0, 0, -1)
	return Window{Start: end.AddDate(0, 0, -(DaysPerWeek - 1)), End: end}
}

// TargetWindow returns the week the new target takes effect: the 7 days
// starting on today. Its start date is the ledger key for the decision.
func TargetWindow(today time.Time) Window {
	start := Normalize(today)
	return Window{Start: start, End: start.AddDate(0, 0, DaysPerWeek-1)}
}

// PreviousWeekStart returns the ledger key of the week before the given
// target-week start.
func PreviousWeekStart(weekStart time.Time) time.Time {
	return Normalize(weekStart).AddDate(0, 0, -DaysPerWeek)
}

// FormatDate renders a date as its canonical key string.
func FormatDate(t time.Time) string {
	return Normalize(t).Format(DateLayout)
}

// ParseDate parses a canonical date key. The zero time and an error are
// returned for malformed input.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}
