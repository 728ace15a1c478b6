package entities

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownOutcome = errors.New("unknown review outcome")

// Outcome is the learner's self-assessment after seeing the answer.
type Outcome string

const (
	OutcomeAgain Outcome = "again" // not recalled, start over
	OutcomeGood  Outcome = "good"  // recalled
	OutcomeEasy  Outcome = "easy"  // recalled without effort
)

// ParseOutcome accepts an outcome name in any letter case.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(strings.ToLower(strings.TrimSpace(s))); o {
	case OutcomeAgain, OutcomeGood, OutcomeEasy:
		return o, nil
	default:
		return "", ErrUnknownOutcome
	}
}

// Default values of a freshly introduced record.
const (
	InitialIntervalDays = 1
	InitialEaseFactor   = 2.5
	MinEaseFactor       = 1.3
)

// ReviewRecord is the scheduling state of one fact within one level.
type ReviewRecord struct {
	NextReviewDue time.Time // calendar day, time of day is not significant
	IntervalDays  int       // >= 1
	EaseFactor    float64   // >= MinEaseFactor
	Repetitions   int       // consecutive successful reviews since the last reset
}
