// Package fallback decides what happens on a target day when the device
// has not synced the evaluation day yet. This is part of the Functional
// Core - no I/O, only pure functions.
package fallback

import (
	"errors"
	"time"

	"github.com/example/stride/internal/core/schedule"
	"github.com/example/stride/internal/core/week"
)

// Calculation methods stamped onto a stored weekly target. The normal
// path writes MethodNormal; the two fallback outcomes write their own.
const (
	MethodNormal      = "normal"
	MethodPartialData = "partial_data"
	MethodSkippedWeek = "skipped_week"
)

// DefaultCutoffHour is the local hour after which a missing evaluation-day
// sync stops being "not yet" and the fallback policy engages.
const DefaultCutoffHour = 17

// MaxLookbackWeeks bounds the carry-forward scan. A participant with no
// carryable target in this many weeks has effectively left the program;
// carrying a stale value further back would mislead more than help.
const MaxLookbackWeeks = 10

// Action is the fallback decision for one evaluation.
type Action int

const (
	// ActionAwaitSync defers the evaluation to a later pass today.
	ActionAwaitSync Action = iota
	// ActionPartialData computes from the trailing week's partial sample.
	ActionPartialData
	// ActionSkipWeek carries the previous target forward unchanged.
	ActionSkipWeek
)

func (a Action) String() string {
	switch a {
	case ActionAwaitSync:
		return "await_sync"
	case ActionPartialData:
		return "partial_data"
	case ActionSkipWeek:
		return "skip_week"
	default:
		return "unknown"
	}
}

// ErrNoCarryForward is returned when the lookback window holds no target
// that could be carried into a skipped week.
var ErrNoCarryForward = errors.New("no prior target within lookback window")

// Decide picks the fallback action. Devices sync asynchronously and late,
// so before the cutoff a missing day means "not yet", not "not at all".
// At or past the cutoff, the size of the trailing-week sample picks
// between a partial computation and a skip.
func Decide(now time.Time, cutoffHour, validDays int) Action {
	if now.Hour() < cutoffHour {
		return ActionAwaitSync
	}
	if validDays >= week.MinValidDays {
		return ActionPartialData
	}
	return ActionSkipWeek
}

// PriorTarget is the slice of a stored weekly target the carry-forward
// scan needs.
type PriorTarget struct {
	WeekStart time.Time
	Method    string
	NewTarget int
}

// FindCarryForward walks backward week-by-week from the week before
// weekStart looking for the most recent target that was not itself a
// skipped week. lookup reports the stored target for a week key, if any.
// Returns ErrNoCarryForward when MaxLookbackWeeks weeks yield nothing.
func FindCarryForward(weekStart time.Time, lookup func(time.Time) (PriorTarget, bool)) (PriorTarget, error) {
	cursor := schedule.Normalize(weekStart)
	for i := 0; i < MaxLookbackWeeks; i++ {
		cursor = schedule.PreviousWeekStart(cursor)
		prior, ok := lookup(cursor)
		if !ok {
			continue
		}
		if prior.Method == MethodSkippedWeek {
			continue
		}
		return prior, nil
	}
	return PriorTarget{}, ErrNoCarryForward
}
