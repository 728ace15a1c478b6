package service

import (
	"math/rand/v2"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// maxQuizOptions is the number of choices per question when the pool is large enough.
const maxQuizOptions = 4

// OptionGenerator builds multiple choice questions whose wrong options are
// meanings of the other words in the pool.
type OptionGenerator struct {
	pool      []entities.Fact
	validator *AnswerValidator
	intN      func(n int) int
	shuffle   func(n int, swap func(i, j int))
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(pool []entities.Fact) *OptionGenerator {
	return &OptionGenerator{
		pool:      pool,
		validator: NewAnswerValidator(),
		intN:      rand.IntN,
		shuffle:   rand.Shuffle,
	}
}

// Questions builds one question per pool fact, in pool order. Facts without a
// single usable wrong option are left out.
func (g *OptionGenerator) Questions() []entities.QuizQuestion {
	questions := make([]entities.QuizQuestion, 0, len(g.pool))
	for _, f := range g.pool {
		options, correct := g.GenerateOptions(f)
		if len(options) < 2 {
			continue
		}
		questions = append(questions, entities.QuizQuestion{
			Fact:    f,
			Options: options,
			Correct: correct,
		})
	}
	return questions
}

// GenerateOptions returns up to maxQuizOptions meanings including the correct
// one, and the index of the correct one.
func (g *OptionGenerator) GenerateOptions(correct entities.Fact) ([]string, int) {
	wrong := g.generateWrongOptions(correct, maxQuizOptions-1)

	correctIndex := g.intN(len(wrong) + 1)

	options := make([]string, 0, len(wrong)+1)
	options = append(options, wrong[:correctIndex]...)
	options = append(options, correct.Meaning)
	options = append(options, wrong[correctIndex:]...)

	return options, correctIndex
}

// generateWrongOptions picks meanings of other facts that cannot be mistaken
// for the correct one or for each other.
func (g *OptionGenerator) generateWrongOptions(correct entities.Fact, count int) []string {
	candidates := make([]entities.Fact, 0, len(g.pool))
	for _, f := range g.pool {
		if f.ID != correct.ID && f.Meaning != "" {
			candidates = append(candidates, f)
		}
	}

	g.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	wrong := make([]string, 0, count)
	for _, c := range candidates {
		if len(wrong) >= count {
			break
		}
		if g.validator.Similar(c.Meaning, correct.Meaning) {
			continue
		}

		duplicate := false
		for _, existing := range wrong {
			if g.validator.Similar(existing, c.Meaning) {
				duplicate = true
				break
			}
		}

		if !duplicate {
			wrong = append(wrong, c.Meaning)
		}
	}

	return wrong
}
