// Package escalation maps a weekly step average to the next target via the
// clinically defined escalation tables. This is part of the Functional
// Core - no I/O, only pure functions.
package escalation

import "strconv"

// Step labels for the weekly escalation decision. The numeric labels name
// the daily increment applied on top of the week's average.
type Step string

const (
	Step250      Step = "250"
	Step500      Step = "500"
	Step1000     Step = "1000"
	StepTo10000  Step = "increase to 10000"
	StepMaintain Step = "maintain"

	// Sentinel labels written by the maintenance and skip paths. They never
	// come out of the tables; as a previous step they behave like maintain.
	StepInsufficientData Step = "insufficient data - target maintained"
	StepSkippedWeek      Step = "skipped_week"
)

// Averages are clamped to this range before any table lookup to guard
// against corrupt stored input.
const (
	MinTableAverage = 1000
	MaxTableAverage = 50000
)

// Decision is the output of one escalation lookup.
type Decision struct {
	Step   Step
	Target int
}

// Average buckets shared by all three tables.
type bucket int

const (
	bucketUnder5000 bucket = iota
	bucket5000to7499
	bucket7500to8999
	bucket9000to9999
	bucket10000Plus
)

func bucketFor(avg int) bucket {
	switch {
	case avg < 5000:
		return bucketUnder5000
	case avg < 7500:
		return bucket5000to7499
	case avg < 9000:
		return bucket7500to8999
	case avg < 10000:
		return bucket9000to9999
	default:
		return bucket10000Plus
	}
}

// Previous-step keys for the met/missed matrices.
type prevKey int

const (
	prevMaintain prevKey = iota // "maintain", sentinels, unparseable labels
	prev250
	prev500
	prev1000
	prevTo10000
	prevOther // numeric label outside the defined step set
)

// parsePrevious normalizes a stored escalation label to its matrix key.
// Sentinels and anything unparseable collapse to maintain; an unexpected
// numeric label keys to no matrix cell and lands on the default.
func parsePrevious(label string) prevKey {
	switch Step(label) {
	case Step250:
		return prev250
	case Step500:
		return prev500
	case Step1000:
		return prev1000
	case StepTo10000:
		return prevTo10000
	case StepMaintain:
		return prevMaintain
	}
	if _, err := strconv.Atoi(label); err == nil {
		return prevOther
	}
	return prevMaintain
}

// outcome is one table cell: the step label plus how the new target is
// derived from the (clamped) average.
type outcome struct {
	step Step
	add  int // added to the average
	abs  int // absolute target, overrides add when non-zero
}

func (o outcome) decide(avg int) Decision {
	if o.abs > 0 {
		return Decision{Step: o.step, Target: o.abs}
	}
	return Decision{Step: o.step, Target: avg + o.add}
}

var (
	add250   = outcome{step: Step250, add: 250}
	add500   = outcome{step: Step500, add: 500}
	add1000  = outcome{step: Step1000, add: 1000}
	to10000  = outcome{step: StepTo10000, abs: 10000}
	maintain = outcome{step: StepMaintain}
)

// defaultOutcome covers every (bucket, previous step) combination the
// matrices leave unlisted. A conservative middle step rather than an
// error; the matrices are not fully enumerated on purpose.
var defaultOutcome = add500

// firstWeekTable sets the opening target when no previous goal exists.
var firstWeekTable = map[bucket]outcome{
	bucketUnder5000:  add500,
	bucket5000to7499: add1000,
	bucket7500to8999: add1000,
	bucket9000to9999: to10000,
	bucket10000Plus:  maintain,
}

// metMatrix applies when the previous target was reached.
var metMatrix = map[bucket]map[prevKey]outcome{
	bucketUnder5000: {
		prev250: add500,
		prev500: add500,
	},
	bucket5000to7499: {
		prev250:  add500,
		prev500:  add1000,
		prev1000: add1000,
	},
	bucket7500to8999: {
		prev250:  add1000,
		prev500:  add1000,
		prev1000: add1000,
	},
	bucket9000to9999: {
		prev250:  add500,
		prev500:  add500,
		prev1000: add500,
	},
	bucket10000Plus: {
		prevMaintain: maintain,
		prev250:      maintain,
		prev500:      maintain,
		prev1000:     maintain,
		prevTo10000:  maintain,
		prevOther:    maintain,
	},
}

// missedMatrix applies when the previous target was not reached. The
// missed-after-maintain special case is handled before lookup, so the
// maintain key appears only in the 10000+ row for completeness.
var missedMatrix = map[bucket]map[prevKey]outcome{
	bucketUnder5000: {
		prev250:     add250,
		prev500:     add250,
		prev1000:    add500,
		prevTo10000: add1000,
	},
	bucket5000to7499: {
		prev250:     add250,
		prev500:     add500,
		prev1000:    add500,
		prevTo10000: add1000,
	},
	bucket7500to8999: {
		prev500:     add500,
		prev1000:    add500,
		prevTo10000: add1000,
	},
	bucket9000to9999: {
		prev500:     add500,
		prev1000:    add250,
		prevTo10000: to10000,
	},
	bucket10000Plus: {
		prev250:     maintain,
		prev500:     maintain,
		prev1000:    maintain,
		prevTo10000: maintain,
		prevOther:   maintain,
	},
}

// Clamp bounds an average to the range the tables are defined over.
func Clamp(avg int) int {
	if avg < MinTableAverage {
		return MinTableAverage
	}
	if avg > MaxTableAverage {
		return MaxTableAverage
	}
	return avg
}

// TargetMet reports whether an average satisfies a previous target.
// Equality counts as met.
func TargetMet(avg, previousTarget int) bool {
	return avg >= previousTarget
}

// FirstWeek computes the opening decision from the first full week's
// average.
func FirstWeek(avg int) Decision {
	avg = Clamp(avg)
	return firstWeekTable[bucketFor(avg)].decide(avg)
}

// Next computes a subsequent week's decision from the average, the
// previous week's escalation label, and whether the previous target was
// met. Every input terminates in a concrete decision; unlisted matrix
// cells resolve to the "500" default.
func Next(avg int, previousStep string, met bool) Decision {
	avg = Clamp(avg)
	prev := parsePrevious(previousStep)

	// A missed target after a maintenance week re-escalates unconditionally,
	// regardless of the average bucket.
	if !met && prev == prevMaintain {
		return add1000.decide(avg)
	}

	matrix := missedMatrix
	if met {
		matrix = metMatrix
	}

	if row, ok := matrix[bucketFor(avg)]; ok {
		if cell, ok := row[prev]; ok {
			return cell.decide(avg)
		}
	}
	return defaultOutcome.decide(avg)
}
