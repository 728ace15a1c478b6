package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/service"
)

// buildMainKeyboard builds the keyboard shown between sessions.
func buildMainKeyboard(guest bool) tgbotapi.InlineKeyboardMarkup {
	row := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📚 Learn", buildLearnCallback("")),
	)
	if !guest {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔁 Review", buildReviewCallback()))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Progress", buildProgressCallback()),
		),
	)
}

// buildCompleteKeyboard offers a quiz after a learning session with enough
// words to draw wrong options from.
func buildCompleteKeyboard(v service.View) tgbotapi.InlineKeyboardMarkup {
	kb := buildMainKeyboard(v.Identity.Anonymous)
	if v.Mode != entities.ModeLearning || v.Total < 2 {
		return kb
	}
	quiz := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧠 Quiz me", buildQuizCallback()),
	)
	kb.InlineKeyboard = append([][]tgbotapi.InlineKeyboardButton{quiz}, kb.InlineKeyboard...)
	return kb
}

// buildQuizKeyboard builds one button per option of a quiz question.
func buildQuizKeyboard(q entities.QuizQuestion, position int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, buildAnswerCallback(position, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildLevelKeyboard builds one button per level.
func buildLevelKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, level := range entities.Levels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(level), buildLearnCallback(level)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildFlipKeyboard builds the keyboard of an unrevealed card.
func buildFlipKeyboard(position int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👀 Show answer", buildFlipCallback(position)),
		),
	)
}

// buildRateKeyboard builds the outcome buttons of a revealed card.
func buildRateKeyboard(position int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Again", buildRateCallback(entities.OutcomeAgain, position)),
			tgbotapi.NewInlineKeyboardButtonData("👍 Good", buildRateCallback(entities.OutcomeGood, position)),
			tgbotapi.NewInlineKeyboardButtonData("⚡ Easy", buildRateCallback(entities.OutcomeEasy, position)),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard(canReview bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
	}
	if canReview {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Start review", buildReviewCallback()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📚 Learn new words", buildLearnCallback("")),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildReminderKeyboard builds keyboard attached to due reminders.
func buildReminderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Start review", buildReviewCallback()),
		),
	)
}

// buildResetKeyboard builds the confirmation keyboard of /reset.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetCallback(true)),
			tgbotapi.NewInlineKeyboardButtonData("Keep my progress", buildResetCallback(false)),
		),
	)
}
