package entities

// QuizQuestion asks for the meaning of one word.
type QuizQuestion struct {
	Fact    Fact
	Options []string // candidate meanings, one of them correct
	Correct int      // index of the correct option
}

// CorrectAnswer returns the text of the correct option.
func (q QuizQuestion) CorrectAnswer() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}

// Quiz is a multiple choice check over the words of a finished learning
// session. It only keeps a score; answers never touch review records.
type Quiz struct {
	Questions []QuizQuestion
	Cursor    int
	Score     int
}

// NewQuiz creates a quiz positioned at its first question.
func NewQuiz(questions []QuizQuestion) *Quiz {
	return &Quiz{Questions: questions}
}

// Current returns the question under the cursor.
func (q *Quiz) Current() (QuizQuestion, bool) {
	if q == nil || q.Cursor < 0 || q.Cursor >= len(q.Questions) {
		return QuizQuestion{}, false
	}
	return q.Questions[q.Cursor], true
}

// Answer scores choice against the current question and moves to the next one.
// ok is false when the quiz is already over or choice is not an option.
func (q *Quiz) Answer(choice int) (correct, ok bool) {
	cur, exists := q.Current()
	if !exists || choice < 0 || choice >= len(cur.Options) {
		return false, false
	}

	correct = choice == cur.Correct
	if correct {
		q.Score++
	}
	q.Cursor++
	return correct, true
}

// Done reports whether every question has been answered.
func (q *Quiz) Done() bool {
	return q == nil || q.Cursor >= len(q.Questions)
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Questions)
}
