// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgWelcome = "Muraho! 👋\n\n" +
		"I help you learn Kinyarwanda words with spaced repetition.\n\n" +
		"/learn — new words\n" +
		"/review — words due today\n" +
		"/progress — your progress\n" +
		"/guest — practice without saving\n" +
		"/profile — back to your own profile\n" +
		"/cancel — stop the current session\n" +
		"/reset — forget everything learned so far"
	msgHelp = "Each card shows a Kinyarwanda word. Try to recall its meaning, " +
		"tap «Show answer», then rate yourself:\n\n" +
		"🔁 Again — you did not remember, the word comes back tomorrow\n" +
		"👍 Good — you remembered\n" +
		"⚡ Easy — you remembered instantly, the word comes back much later"
	msgChooseLevel     = "Choose a level:"
	msgPreparing       = "⏳ Preparing your cards…"
	msgBusy            = "Your cards are still being prepared, please wait a moment."
	msgNothingDue      = "🎉 Nothing to review today. Come back tomorrow or /learn new words."
	msgNoFacts         = "Could not get any words right now. Please try again later."
	msgGuestNoReview   = "Reviews are not available in guest mode. Use /profile to switch back to your own profile."
	msgNoSession       = "There is no active session. Start one with /learn or /review."
	msgFlipFirst       = "Tap «Show answer» before rating the card."
	msgCancelled       = "Session stopped. Your progress so far is saved."
	msgGuest           = "👤 Guest mode. Nothing you do now is saved.\nUse /profile to switch back."
	msgUnknownLevel    = "Unknown level. Use Basic, Medium or Advanced."
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command. Send /start to see what I can do."
	msgOutdatedButton  = "This card is no longer active."
	msgSessionFinished = "This session is over."
	msgResetConfirm    = "This deletes every word you have learned. Are you sure?"
	msgResetDone       = "Your progress has been reset. Start again with /learn."
	msgResetKept       = "Nothing was deleted."
	msgQuizUnavailable = "A quiz is available right after a learning session with at least two words."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit replaces the text and keyboard of an existing message.
func newEdit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.ReplyMarkup = kb
	return edit
}
