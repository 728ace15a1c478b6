package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionLearn    = "learn"
	actionReview   = "review"
	actionProgress = "progress"
	actionFlip     = "flip"
	actionRate     = "rate"
	actionQuiz     = "quiz"
	actionAnswer   = "answer"
	actionReset    = "reset"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < len(cd.Params) {
		return cd.Params[i]
	}
	return ""
}

// position returns the card position carried by flip and rate callbacks.
// Buttons of an earlier card carry an older position and are ignored.
func (cd callbackData) position(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func buildLearnCallback(level entities.Level) string {
	return callbackData{
		Action: actionLearn,
		Params: []string{string(level)},
	}.encode()
}

func buildReviewCallback() string {
	return actionReview
}

func buildProgressCallback() string {
	return actionProgress
}

// buildFlipCallback builds callback data for revealing the card at position.
func buildFlipCallback(position int) string {
	return callbackData{
		Action: actionFlip,
		Params: []string{strconv.Itoa(position)},
	}.encode()
}

// buildRateCallback builds callback data for rating the card at position.
func buildRateCallback(outcome entities.Outcome, position int) string {
	return callbackData{
		Action: actionRate,
		Params: []string{string(outcome), strconv.Itoa(position)},
	}.encode()
}

func buildQuizCallback() string {
	return actionQuiz
}

// buildAnswerCallback builds callback data for choosing an option of the
// quiz question at position.
func buildAnswerCallback(position, choice int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(position), strconv.Itoa(choice)},
	}.encode()
}

// buildResetCallback builds callback data for the reset confirmation.
func buildResetCallback(confirm bool) string {
	answer := "no"
	if confirm {
		answer = "yes"
	}
	return callbackData{
		Action: actionReset,
		Params: []string{answer},
	}.encode()
}
