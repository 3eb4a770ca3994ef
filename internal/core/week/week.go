// Package week filters a window of daily activity into a usable weekly
// sample. This is part of the Functional Core - no I/O, only pure functions.
package week

import (
	"time"

	"github.com/example/stride/internal/core/schedule"
)

// Plausibility band for a single day's step count. Values outside the band
// are treated as sensor noise and dropped from the sample, never as a hard
// error.
const (
	MinPlausibleSteps = 1000
	MaxPlausibleSteps = 100000
)

// MinWearHours is the minimum recorded wear time for a day to count as
// "device actually worn". Days without a wear-time reading are not subject
// to the rule.
const MinWearHours = 10.0

// MinValidDays is the smallest sample that supports a target computation.
const MinValidDays = 4

// Day is one daily activity reading as seen by the aggregator.
type Day struct {
	Date      time.Time
	Steps     int
	WearHours *float64 // nil when the device reported no wear time
}

// Report is the outcome of aggregating one window of daily readings.
type Report struct {
	Steps    []int // plausible, well-worn step values inside the window
	Excluded int   // in-window days dropped by the plausibility or wear rules
}

// Count returns the number of valid days in the sample.
func (r Report) Count() int {
	return len(r.Steps)
}

// Sufficient reports whether the sample supports a target computation.
func (r Report) Sufficient() bool {
	return r.Count() >= MinValidDays
}

// Average returns the truncating integer mean of the sample, or 0 for an
// empty sample. Truncation keeps the escalation thresholds exact across
// re-runs.
func (r Report) Average() int {
	if len(r.Steps) == 0 {
		return 0
	}
	sum := 0
	for _, s := range r.Steps {
		sum += s
	}
	return sum / len(r.Steps)
}

// PlausibleSteps reports whether a step count falls inside the band.
func PlausibleSteps(steps int) bool {
	return steps >= MinPlausibleSteps && steps <= MaxPlausibleSteps
}

// WornEnough applies the wear-time rule. Days with no reading pass.
func WornEnough(wear *float64) bool {
	return wear == nil || *wear >= MinWearHours
}

// Aggregate filters days to those inside the window that pass the
// plausibility and wear-time rules. Out-of-window days are ignored
// entirely; in-window days that fail a rule count toward Excluded.
// The caller decides whether the resulting sample is sufficient.
func Aggregate(days []Day, window schedule.Window) Report {
	var report Report
	for _, d := range days {
		if !window.Contains(d.Date) {
			continue
		}
		if !PlausibleSteps(d.Steps) || !WornEnough(d.WearHours) {
			report.Excluded++
			continue
		}
		report.Steps = append(report.Steps, d.Steps)
	}
	return report
}

// HasDataOn reports whether any day in the list falls on the given date
// with a positive step count. Used as the "has the device synced today"
// gate before the fallback policy engages.
func HasDataOn(days []Day, date time.Time) bool {
	target := schedule.Normalize(date)
	for _, d := range days {
		if schedule.Normalize(d.Date).Equal(target) && d.Steps > 0 {
			return true
		}
	}
	return false
}
