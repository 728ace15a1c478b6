package srs

import (
	"time"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// Scheduler binds the pure scheduling functions to a clock and the location
// in which calendar days are counted.
type Scheduler struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a scheduler counting days in loc (UTC when nil).
func New(loc *time.Location, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date in the scheduler's location.
func (s *Scheduler) Today() time.Time {
	return Date(s.now().In(s.loc))
}

// Location returns the location days are counted in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// DueToday is DueSet evaluated for today.
func (s *Scheduler) DueToday(state *entities.SchedulerState) []DueItem {
	return DueSet(state, s.Today())
}

// LevelStats summarises one level of a state.
type LevelStats struct {
	Level   entities.Level
	Learned int // facts with a record
	Due     int // records due on the as-of date
}

// Stats returns per-level counts in Levels order.
func Stats(state *entities.SchedulerState, asOf time.Time) []LevelStats {
	stats := make([]LevelStats, 0, len(entities.Levels))
	for _, level := range entities.Levels {
		ls := LevelStats{Level: level}
		if state != nil {
			for _, r := range state.Records[level] {
				ls.Learned++
				if IsDue(r, asOf) {
					ls.Due++
				}
			}
		}
		stats = append(stats, ls)
	}
	return stats
}
