package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/service"
)

// handleLearnCommand starts a learning session for "/learn <level>" and asks
// for a level otherwise.
func (h *Handler) handleLearnCommand(ctx context.Context, chatID int64, s LearningSession, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		h.sendLevelChoice(chatID)
		return
	}

	level, err := entities.ParseLevel(args)
	if err != nil {
		h.sendText(chatID, msgUnknownLevel)
		return
	}
	h.startLearning(ctx, chatID, s, level)
}

func (h *Handler) handleProfileCommand(ctx context.Context, chatID int64, s LearningSession, from *tgbotapi.User) {
	id := namedIdentity(from)
	if cur := s.Identity(); cur.Name != id.Name {
		s.SwitchIdentity(ctx, id)
		h.logger.Info("switched to own profile", zap.String("identity", id.Name))
	}
	h.sendText(chatID, "👤 Profile: "+s.Identity().DisplayName+". Your progress is saved.")
}

func (h *Handler) sendLevelChoice(chatID int64) {
	msg := newPlainMessage(chatID, msgChooseLevel)
	msg.ReplyMarkup = buildLevelKeyboard()
	h.send(msg)
}

func (h *Handler) startLearning(ctx context.Context, chatID int64, s LearningSession, level entities.Level) {
	h.startSession(ctx, chatID, func(ctx context.Context) (service.View, error) {
		return s.StartLearning(ctx, level)
	})
}

func (h *Handler) startReview(ctx context.Context, chatID int64, s LearningSession) {
	h.startSession(ctx, chatID, s.StartReview)
}

func (h *Handler) startSession(ctx context.Context, chatID int64, start func(context.Context) (service.View, error)) {
	h.sendText(chatID, msgPreparing)
	h.runAsync(ctx, chatID, func(ctx context.Context, chatID int64) error {
		v, err := start(ctx)
		if err != nil {
			return err
		}

		text, kb := renderView(v)
		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		_, err = h.send(msg)
		return err
	})
}

// progressHandler sends learned and due counts of the active identity.
func (h *Handler) progressHandler(s LearningSession) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb := renderProgress(s.Summary())
		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		_, err := h.send(msg)
		return err
	}
}
