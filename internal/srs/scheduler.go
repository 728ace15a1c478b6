// Package srs implements the SM-2 style review scheduler.
//
// All functions are pure: they take the as-of date explicitly and never read
// the clock. Dates have calendar-day granularity; a time value is reduced to
// the calendar date it shows in its own location.
package srs

import (
	"math"
	"sort"
	"time"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

const (
	easyIntervalBonus = 1.3
	easyEaseBonus     = 0.15

	// Products are rounded to this many parts per day before the ceiling.
	// Reachable eases are multiples of 0.05, so every real product has at
	// most four decimals and only float noise is rounded away.
	ceilPrecision = 1e6
)

// DueItem identifies a record whose review date has arrived.
type DueItem struct {
	Level  entities.Level
	FactID string
	Record entities.ReviewRecord
}

// Date returns the calendar date of t as midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays adds n whole days to the calendar date of t.
func AddDays(t time.Time, n int) time.Time {
	return Date(t).AddDate(0, 0, n)
}

// IsDue reports whether the record's due date is on or before the date of asOf.
func IsDue(r entities.ReviewRecord, asOf time.Time) bool {
	return !Date(r.NextReviewDue).After(Date(asOf))
}

// NewRecord returns the record of a fact introduced on asOf.
func NewRecord(asOf time.Time) entities.ReviewRecord {
	return entities.ReviewRecord{
		NextReviewDue: AddDays(asOf, entities.InitialIntervalDays),
		IntervalDays:  entities.InitialIntervalDays,
		EaseFactor:    entities.InitialEaseFactor,
		Repetitions:   0,
	}
}

// DueSet returns every record across all levels that is due on asOf.
// The result is ordered by level, then by fact id.
func DueSet(state *entities.SchedulerState, asOf time.Time) []DueItem {
	if state == nil {
		return nil
	}

	var due []DueItem
	for level, bucket := range state.Records {
		for id, r := range bucket {
			if IsDue(r, asOf) {
				due = append(due, DueItem{Level: level, FactID: id, Record: r})
			}
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if ri, rj := due[i].Level.Rank(), due[j].Level.Rank(); ri != rj {
			return ri < rj
		}
		if due[i].Level != due[j].Level {
			return due[i].Level < due[j].Level
		}
		return due[i].FactID < due[j].FactID
	})

	return due
}

// Introduce creates the initial record of a fact shown to the learner for the
// first time. If a record already exists it is returned unchanged with false.
func Introduce(state *entities.SchedulerState, level entities.Level, factID string, asOf time.Time) (entities.ReviewRecord, bool) {
	if existing, ok := state.Record(level, factID); ok {
		return existing, false
	}

	r := NewRecord(asOf)
	state.Put(level, factID, r)
	return r, true
}

// ApplyOutcome returns the record that results from rating a fact on asOf.
// A nil existing record is treated as a freshly introduced one.
func ApplyOutcome(existing *entities.ReviewRecord, outcome entities.Outcome, asOf time.Time) entities.ReviewRecord {
	r := entities.ReviewRecord{
		IntervalDays: entities.InitialIntervalDays,
		EaseFactor:   entities.InitialEaseFactor,
	}
	if existing != nil {
		r = *existing
	}

	// Repair records that violate the invariants before using them as input.
	if r.IntervalDays < 1 {
		r.IntervalDays = 1
	}
	if r.Repetitions < 0 {
		r.Repetitions = 0
	}

	switch outcome {
	case entities.OutcomeGood:
		r.Repetitions++
		r.IntervalDays = ceilDays(float64(r.IntervalDays) * r.EaseFactor)
	case entities.OutcomeEasy:
		r.Repetitions++
		r.IntervalDays = ceilDays(float64(r.IntervalDays) * r.EaseFactor * easyIntervalBonus)
		r.EaseFactor += easyEaseBonus
	default:
		// again, and anything unrecognised, is a hard reset
		r.Repetitions = 0
		r.IntervalDays = 1
	}

	if r.EaseFactor < entities.MinEaseFactor {
		r.EaseFactor = entities.MinEaseFactor
	}
	r.NextReviewDue = AddDays(asOf, r.IntervalDays)

	return r
}

func ceilDays(x float64) int {
	d := int(math.Ceil(math.Round(x*ceilPrecision) / ceilPrecision))
	if d < 1 {
		return 1
	}
	return d
}
