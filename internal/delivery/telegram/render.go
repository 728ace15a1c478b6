package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/service"
)

// renderView renders whatever the session currently shows.
func renderView(v service.View) (string, *tgbotapi.InlineKeyboardMarkup) {
	switch {
	case v.Status == entities.StatusComplete:
		return renderComplete(v)
	case v.Status != entities.StatusActive:
		kb := buildMainKeyboard(v.Identity.Anonymous)
		return md(msgNoSession), &kb
	case v.Flipped:
		return renderBack(v)
	default:
		return renderFront(v)
	}
}

func cardHeader(v service.View) string {
	mode := "Learning"
	if v.Mode == entities.ModeReview {
		mode = "Review"
	}
	return italic(fmt.Sprintf("%s · %s · card %d/%d", mode, v.Current.Level, v.Position, v.Total))
}

func renderFront(v service.View) (string, *tgbotapi.InlineKeyboardMarkup) {
	text := fmt.Sprintf("%s\n\n%s\n\n%s",
		cardHeader(v),
		bold(v.Current.Fact.Word),
		md("What does it mean?"),
	)
	kb := buildFlipKeyboard(v.Position)
	return text, &kb
}

func renderBack(v service.View) (string, *tgbotapi.InlineKeyboardMarkup) {
	f := v.Current.Fact

	var b strings.Builder
	b.WriteString(cardHeader(v))
	b.WriteString("\n\n")
	b.WriteString(bold(f.Word))
	b.WriteString(md(" — " + f.Meaning))
	if f.SentenceKinyarwanda != "" {
		b.WriteString("\n\n🇷🇼 ")
		b.WriteString(md(f.SentenceKinyarwanda))
	}
	if f.SentenceEnglish != "" {
		b.WriteString("\n🇬🇧 ")
		b.WriteString(italic(f.SentenceEnglish))
	}
	if v.Identity.Anonymous {
		b.WriteString("\n\n")
		b.WriteString(italic("Guest mode: ratings are not saved."))
	}

	kb := buildRateKeyboard(v.Position)
	return b.String(), &kb
}

func renderComplete(v service.View) (string, *tgbotapi.InlineKeyboardMarkup) {
	what := "new words"
	if v.Mode == entities.ModeReview {
		what = "reviews"
	}
	text := fmt.Sprintf("%s\n\n%s",
		bold("✅ Session complete!"),
		md(fmt.Sprintf("You went through %d %s.", v.Total, what)),
	)
	kb := buildCompleteKeyboard(v)
	return text, &kb
}

// renderQuiz renders the current quiz question, preceded by the verdict on
// the previous answer.
func renderQuiz(q service.QuizView) (string, *tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	if q.Last != nil {
		if q.Last.Correct {
			b.WriteString(md("✅ Correct!"))
		} else {
			b.WriteString(md(fmt.Sprintf("❌ Not quite. %s means %q.", q.Last.Word, q.Last.Meaning)))
		}
		b.WriteString("\n\n")
	}

	if q.Done {
		b.WriteString(bold("🧠 Quiz complete!"))
		b.WriteString("\n\n")
		b.WriteString(md(fmt.Sprintf("Your score: %d/%d", q.Score, q.Total)))
		kb := buildMainKeyboard(q.Identity.Anonymous)
		return b.String(), &kb
	}

	b.WriteString(italic(fmt.Sprintf("Quiz · question %d/%d", q.Position, q.Total)))
	b.WriteString("\n\n")
	b.WriteString(bold(q.Current.Fact.Word))
	b.WriteString("\n\n")
	b.WriteString(md("What does it mean?"))

	kb := buildQuizKeyboard(q.Current, q.Position)
	return b.String(), &kb
}

// renderProgress renders learned and due counts per level.
func renderProgress(s service.Summary) (string, tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString(bold("📊 Progress of " + s.Identity.DisplayName))
	b.WriteString("\n")

	total, due := 0, 0
	for _, ls := range s.Levels {
		total += ls.Learned
		due += ls.Due
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf("%s: %d learned, %d due", ls.Level, ls.Learned, ls.Due)))
	}

	b.WriteString("\n\n")
	b.WriteString(md(fmt.Sprintf("Total: %d words, %d to review today.", total, due)))
	if s.Identity.Anonymous {
		b.WriteString("\n")
		b.WriteString(italic("Guest progress is not saved."))
	}

	return b.String(), buildProgressKeyboard(due > 0 && !s.Identity.Anonymous)
}

func renderReminder(due int) string {
	line := fmt.Sprintf("%d words are waiting for you today.", due)
	if due == 1 {
		line = "1 word is waiting for you today."
	}
	return fmt.Sprintf("%s\n\n%s", bold("⏰ Time to review!"), md(line))
}
