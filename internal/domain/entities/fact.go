package entities

import (
	"errors"
	"strings"
)

var ErrUnknownLevel = errors.New("unknown level")

// Level is a proficiency level. Facts and review records are partitioned per level.
type Level string

const (
	LevelBasic    Level = "Basic"
	LevelMedium   Level = "Medium"
	LevelAdvanced Level = "Advanced"
)

// Levels lists every level in display order.
var Levels = []Level{LevelBasic, LevelMedium, LevelAdvanced}

// ParseLevel accepts a level name in any letter case.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, nil
		}
	}
	return "", ErrUnknownLevel
}

// Rank returns the position of the level in Levels, or len(Levels) for unknown values.
func (l Level) Rank() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return len(Levels)
}

// Fact is a single vocabulary item. Facts are immutable once generated.
type Fact struct {
	ID                  string `json:"id" yaml:"id"`
	Word                string `json:"word" yaml:"word"`                                 // Kinyarwanda word
	Meaning             string `json:"meaning" yaml:"meaning"`                           // English translation
	SentenceKinyarwanda string `json:"sentence_kinyarwanda" yaml:"sentence_kinyarwanda"` // example usage
	SentenceEnglish     string `json:"sentence_english" yaml:"sentence_english"`         // translation of the example
}

// NewFact builds a fact and derives its ID from the word.
func NewFact(word, meaning, sentenceRW, sentenceEN string) Fact {
	return Fact{
		ID:                  FactID(word),
		Word:                word,
		Meaning:             meaning,
		SentenceKinyarwanda: sentenceRW,
		SentenceEnglish:     sentenceEN,
	}
}

// FactID lowercases the word and keeps only the ASCII letters a-z,
// so the same word always maps to the same identifier.
func FactID(word string) string {
	lower := strings.ToLower(word)

	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
