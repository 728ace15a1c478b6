package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactID(t *testing.T) {
	assert.Equal(t, "muraho", FactID("Muraho"))
	assert.Equal(t, "ndagukunda", FactID("Nda-gukunda!"))
	assert.Equal(t, "umwana", FactID(" umwana "))
	assert.Equal(t, "", FactID("123"))

	f := NewFact("Amakuru", "news", "Amakuru yawe?", "How are you?")
	assert.Equal(t, "amakuru", f.ID)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"Basic":     LevelBasic,
		"medium":    LevelMedium,
		" ADVANCED": LevelAdvanced,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("expert")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	assert.Less(t, LevelBasic.Rank(), LevelAdvanced.Rank())
	assert.Equal(t, len(Levels), Level("expert").Rank())
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("Easy")
	require.NoError(t, err)
	assert.Equal(t, OutcomeEasy, o)

	_, err = ParseOutcome("hard")
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestSchedulerStateClone(t *testing.T) {
	s := NewSchedulerState("Alice")
	s.Put(LevelBasic, "muraho", ReviewRecord{IntervalDays: 1, EaseFactor: 2.5})

	c := s.Clone()
	c.Put(LevelBasic, "amazi", ReviewRecord{IntervalDays: 1, EaseFactor: 2.5})
	c.Put(LevelMedium, "inzu", ReviewRecord{IntervalDays: 1, EaseFactor: 2.5})

	assert.Equal(t, 1, s.Count(LevelBasic))
	assert.Equal(t, 0, s.Count(LevelMedium))
	assert.ElementsMatch(t, []string{"muraho", "amazi"}, c.FactIDs(LevelBasic))

	var nilState *SchedulerState
	_, ok := nilState.Record(LevelBasic, "muraho")
	assert.False(t, ok)
	assert.Nil(t, nilState.Clone())
}

func TestSessionQueue(t *testing.T) {
	q := NewSessionQueue(ModeLearning, LevelBasic, []QueuedFact{
		{Fact: NewFact("muraho", "hello", "", ""), Level: LevelBasic},
		{Fact: NewFact("amazi", "water", "", ""), Level: LevelBasic},
	})

	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "muraho", cur.Fact.ID)

	q.Flipped = true
	assert.True(t, q.Advance())
	assert.False(t, q.Flipped)
	assert.False(t, q.Advance())

	_, ok = q.Current()
	assert.False(t, ok)
	assert.Equal(t, 2, q.Len())
}

func TestAnonymousIdentity(t *testing.T) {
	a, b := NewAnonymousIdentity(), NewAnonymousIdentity()
	assert.True(t, a.Anonymous)
	assert.NotEqual(t, a.Name, b.Name)

	n := NewNamedIdentity("tg:42", "")
	assert.False(t, n.Anonymous)
	assert.Equal(t, "tg:42", n.DisplayName)
}

func TestParseTimezoneLocation(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in     string
		offset int
	}{
		{"", 0},
		{"UTC", 0},
		{"UTC+2", 2 * 3600},
		{"+02:00", 2 * 3600},
		{"-3:30", -(3*3600 + 30*60)},
	}
	for _, tt := range tests {
		loc, err := ParseTimezoneLocation(tt.in)
		require.NoError(t, err, tt.in)
		_, offset := at.In(loc).Zone()
		assert.Equal(t, tt.offset, offset, tt.in)
	}

	for _, bad := range []string{"Mars/Olympus", "UTC+15", "+2:75"} {
		_, err := ParseTimezoneLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestQuiz(t *testing.T) {
	q := NewQuiz([]QuizQuestion{
		{Fact: NewFact("amazi", "water", "", ""), Options: []string{"house", "water"}, Correct: 1},
		{Fact: NewFact("inzu", "house", "", ""), Options: []string{"house", "water"}, Correct: 0},
	})

	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "water", cur.CorrectAnswer())

	_, ok = q.Answer(2)
	assert.False(t, ok, "out of range choice")

	correct, ok := q.Answer(1)
	assert.True(t, ok)
	assert.True(t, correct)

	correct, ok = q.Answer(1)
	assert.True(t, ok)
	assert.False(t, correct)

	assert.True(t, q.Done())
	assert.Equal(t, 1, q.Score)
	_, ok = q.Answer(0)
	assert.False(t, ok)

	var empty *Quiz
	assert.True(t, empty.Done())
	assert.Zero(t, empty.Len())
	assert.Empty(t, QuizQuestion{}.CorrectAnswer())
}
