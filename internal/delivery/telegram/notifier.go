package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/storage"
)

// NotifyDue sends a due reminder to the private chat of a Telegram identity,
// replacing the previous reminder if it is still around.
func (h *Handler) NotifyDue(ctx context.Context, identity string, due int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	userID, ok := ParseIdentityName(identity)
	if !ok {
		h.logger.Debug("skipping reminder for non-telegram identity", zap.String("identity", identity))
		return nil
	}
	chatID := userID // a user's private chat shares the user's ID

	if prev, ok := h.reminders.Delete(userID); ok {
		if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(prev.ChatID, prev.MessageID)); err != nil {
			h.logger.Debug("failed to delete previous reminder",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}

	msg := newMessage(chatID, renderReminder(due))
	msg.ReplyMarkup = buildReminderKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	h.reminders.Store(userID, storage.ReminderMessage{
		ChatID:    chatID,
		MessageID: sent.MessageID,
		SentAt:    time.Now(),
	})
	return nil
}
