package service

import (
	"strings"
	"unicode"
)

// AnswerValidator compares meanings with fuzzy matching support.
type AnswerValidator struct {
	threshold float64 // Similarity threshold (0.0 - 1.0)
}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{
		threshold: 0.8, // 80% similarity required
	}
}

// Similar reports whether two meanings read as the same answer,
// e.g. "Water" and "water." or "to eat" and "to eat!".
func (v *AnswerValidator) Similar(a, b string) bool {
	a = v.normalize(a)
	b = v.normalize(b)

	if a == b {
		return true
	}

	return v.similarity(a, b) >= v.threshold
}

// normalize lowercases s, drops punctuation and collapses whitespace.
func (v *AnswerValidator) normalize(s string) string {
	s = strings.ToLower(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *AnswerValidator) similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	cols := len(r2) + 1
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[cols-1]
}
