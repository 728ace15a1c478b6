package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/service"
)

// Bot is the subset of *tgbotapi.BotAPI the handler needs.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// LearningSession is implemented by *service.Session.
type LearningSession interface {
	SwitchIdentity(ctx context.Context, id entities.Identity)
	Identity() entities.Identity
	StartLearning(ctx context.Context, level entities.Level) (service.View, error)
	StartReview(ctx context.Context) (service.View, error)
	Flip(ctx context.Context) (service.View, error)
	Rate(ctx context.Context, outcome entities.Outcome) (service.View, error)
	StartQuiz() (service.QuizView, error)
	AnswerQuiz(position, choice int) (service.QuizView, error)
	Cancel()
	Reset(ctx context.Context) error
	View() service.View
	Summary() service.Summary
}

// SessionFactory creates an idle session for a new chat.
type SessionFactory func() LearningSession
