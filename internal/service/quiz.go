package service

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// QuizAnswer describes the outcome of the last answered question.
type QuizAnswer struct {
	Word    string
	Meaning string // the correct meaning
	Correct bool
}

// QuizView is a read-only snapshot of the quiz.
type QuizView struct {
	Identity entities.Identity
	Current  entities.QuizQuestion // zero once Done
	Position int                   // 1-based position of Current
	Total    int
	Score    int
	Done     bool
	Last     *QuizAnswer // nil before the first answer
}

// StartQuiz builds a multiple choice quiz over the words of the learning
// session that has just been completed. The quiz only keeps a score.
func (s *Session) StartQuiz() (QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != entities.StatusComplete || s.queue == nil || s.queue.Mode != entities.ModeLearning {
		return QuizView{}, ErrQuizUnavailable
	}

	facts := make([]entities.Fact, 0, s.queue.Len())
	for _, item := range s.queue.Items {
		facts = append(facts, item.Fact)
	}

	questions := NewOptionGenerator(facts).Questions()
	if len(questions) == 0 {
		return QuizView{}, ErrQuizUnavailable
	}

	s.quiz = entities.NewQuiz(questions)
	s.logger.Debug("quiz started",
		zap.String("identity", s.identity.Name),
		zap.Int("questions", len(questions)),
	)
	return s.quizView(nil), nil
}

// AnswerQuiz answers the question at position (1-based) with the option at
// index choice. Answers for any other position are rejected with
// ErrOutdatedQuestion.
func (s *Session) AnswerQuiz(position, choice int) (QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.quiz.Current()
	if !ok {
		return QuizView{}, ErrNoActiveQuiz
	}
	if position != s.quiz.Cursor+1 {
		return s.quizView(nil), ErrOutdatedQuestion
	}

	correct, ok := s.quiz.Answer(choice)
	if !ok {
		return s.quizView(nil), ErrInvalidChoice
	}

	if s.quiz.Done() {
		s.logger.Debug("quiz finished",
			zap.String("identity", s.identity.Name),
			zap.Int("score", s.quiz.Score),
			zap.Int("total", s.quiz.Len()),
		)
	}

	return s.quizView(&QuizAnswer{
		Word:    cur.Fact.Word,
		Meaning: cur.CorrectAnswer(),
		Correct: correct,
	}), nil
}

func (s *Session) quizView(last *QuizAnswer) QuizView {
	v := QuizView{
		Identity: s.identity,
		Total:    s.quiz.Len(),
		Done:     s.quiz.Done(),
		Last:     last,
	}
	if s.quiz == nil {
		return v
	}

	v.Score = s.quiz.Score
	if q, ok := s.quiz.Current(); ok {
		v.Current = q
		v.Position = s.quiz.Cursor + 1
	}
	return v
}
