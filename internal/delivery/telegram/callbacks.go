package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		h.answer(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	s := h.session(ctx, cb.From)
	data := decodeCallback(cb.Data)

	notice := ""
	switch data.Action {
	case actionLearn:
		level, err := entities.ParseLevel(data.param(0))
		if err != nil {
			h.sendLevelChoice(chatID)
			break
		}
		h.startLearning(ctx, chatID, s, level)

	case actionReview:
		h.reminders.Delete(cb.From.ID)
		h.startReview(ctx, chatID, s)

	case actionProgress:
		_ = h.withErrorHandling(h.progressHandler(s))(ctx, chatID)

	case actionFlip:
		notice = h.handleFlipCallback(ctx, cb, s, data)

	case actionRate:
		notice = h.handleRateCallback(ctx, cb, s, data)

	case actionQuiz:
		notice = h.handleQuizCallback(cb, s)

	case actionAnswer:
		notice = h.handleAnswerCallback(cb, s, data)

	case actionReset:
		h.handleResetCallback(ctx, cb, s, data)

	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	// Remove the user's "clock".
	h.answer(cb.ID, notice)
}

func (h *Handler) handleFlipCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, s LearningSession, data callbackData) string {
	if notice, ok := h.checkPosition(s, data, 0); !ok {
		return notice
	}

	v, err := s.Flip(ctx)
	if err != nil && v.Status != entities.StatusActive {
		return callbackNotice(err)
	}
	if err != nil {
		h.logger.Error("flip failed", zap.Int64("chat_id", cb.Message.Chat.ID), zap.Error(err))
	}

	h.editCard(cb, v)
	return ""
}

func (h *Handler) handleRateCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, s LearningSession, data callbackData) string {
	if notice, ok := h.checkPosition(s, data, 1); !ok {
		return notice
	}

	outcome, err := entities.ParseOutcome(data.param(0))
	if err != nil {
		h.logger.Warn("invalid outcome in callback", zap.String("data", data.Raw))
		return ""
	}

	v, err := s.Rate(ctx, outcome)
	switch {
	case errors.Is(err, service.ErrNotFlipped), errors.Is(err, service.ErrNoActiveSession):
		return callbackNotice(err)
	case err != nil:
		// The outcome could not be saved; the session has still moved on.
		h.logger.Error("rate failed", zap.Int64("chat_id", cb.Message.Chat.ID), zap.Error(err))
	}

	h.editCard(cb, v)
	return ""
}

func (h *Handler) handleQuizCallback(cb *tgbotapi.CallbackQuery, s LearningSession) string {
	q, err := s.StartQuiz()
	if err != nil {
		return callbackNotice(err)
	}

	text, kb := renderQuiz(q)
	h.send(newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))
	return ""
}

func (h *Handler) handleAnswerCallback(cb *tgbotapi.CallbackQuery, s LearningSession, data callbackData) string {
	pos, ok := data.position(0)
	if !ok {
		return ""
	}
	choice, err := strconv.Atoi(data.param(1))
	if err != nil {
		h.logger.Warn("invalid quiz choice in callback", zap.String("data", data.Raw))
		return ""
	}

	q, err := s.AnswerQuiz(pos, choice)
	if err != nil {
		return callbackNotice(err)
	}

	text, kb := renderQuiz(q)
	h.send(newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))
	return ""
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, s LearningSession, data callbackData) {
	text := msgResetKept
	if data.param(0) == "yes" {
		text = msgResetDone
		if err := s.Reset(ctx); err != nil {
			h.logger.Error("reset failed", zap.Int64("chat_id", cb.Message.Chat.ID), zap.Error(err))
			text = msgInternalError
		}
	}

	h.send(tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text))
}

// checkPosition rejects buttons that belong to a card other than the current one.
func (h *Handler) checkPosition(s LearningSession, data callbackData, idx int) (string, bool) {
	pos, ok := data.position(idx)
	if !ok {
		return "", false
	}

	v := s.View()
	if v.Status != entities.StatusActive {
		return msgSessionFinished, false
	}
	if v.Position != pos {
		return msgOutdatedButton, false
	}
	return "", true
}

func (h *Handler) editCard(cb *tgbotapi.CallbackQuery, v service.View) {
	text, kb := renderView(v)
	h.send(newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))
}

func (h *Handler) answer(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func callbackNotice(err error) string {
	if text, ok := userMessage(err); ok {
		return text
	}
	return msgInternalError
}
