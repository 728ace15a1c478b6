package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
	"github.com/aliskhannn/amagambo-bot/internal/storage"
)

const identityPrefix = "tg:"

// IdentityName returns the stored identity name of a Telegram user.
func IdentityName(userID int64) string {
	return identityPrefix + strconv.FormatInt(userID, 10)
}

// ParseIdentityName extracts the Telegram user ID from an identity name.
func ParseIdentityName(name string) (int64, bool) {
	raw, ok := strings.CutPrefix(name, identityPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func namedIdentity(from *tgbotapi.User) entities.Identity {
	display := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if display == "" {
		display = from.UserName
	}
	return entities.NewNamedIdentity(IdentityName(from.ID), display)
}

type Handler struct {
	bot        Bot
	logger     *zap.Logger
	newSession SessionFactory
	sessions   *storage.Registry[int64, LearningSession]         // by user ID
	reminders  *storage.Registry[int64, storage.ReminderMessage] // by user ID

	wg sync.WaitGroup // session starts running in the background
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	newSession SessionFactory,
	reminders *storage.Registry[int64, storage.ReminderMessage],
) *Handler {
	return &Handler{
		bot:        bot,
		logger:     logger,
		newSession: newSession,
		sessions:   storage.NewRegistry[int64, LearningSession](),
		reminders:  reminders,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID
	s := h.session(ctx, from)

	if !update.Message.IsCommand() {
		h.sendText(chatID, msgUnknownCommand)
		return
	}

	switch update.Message.Command() {
	case "start":
		kb := buildMainKeyboard(s.Identity().Anonymous)
		msg := newPlainMessage(chatID, msgWelcome)
		msg.ReplyMarkup = kb
		h.send(msg)

	case "help":
		h.sendText(chatID, msgHelp)

	case "learn":
		h.handleLearnCommand(ctx, chatID, s, update.Message.CommandArguments())

	case "review":
		h.startReview(ctx, chatID, s)

	case "progress":
		_ = h.withErrorHandling(h.progressHandler(s))(ctx, chatID)

	case "guest":
		s.SwitchIdentity(ctx, entities.NewAnonymousIdentity())
		h.sendText(chatID, msgGuest)

	case "profile":
		h.handleProfileCommand(ctx, chatID, s, from)

	case "cancel":
		s.Cancel()
		h.sendText(chatID, msgCancelled)

	case "reset":
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)

	default:
		h.sendText(chatID, msgUnknownCommand)
	}
}

// session returns the sender's session, creating it with the sender's own
// identity on first contact. Sessions belong to users, not chats, so members
// of a group chat never act on each other's records.
func (h *Handler) session(ctx context.Context, from *tgbotapi.User) LearningSession {
	s, created := h.sessions.GetOrCreate(from.ID, func() LearningSession {
		return h.newSession()
	})
	if created {
		s.SwitchIdentity(ctx, namedIdentity(from))
		h.logger.Info("session created",
			zap.Int64("user_id", from.ID),
			zap.String("identity", IdentityName(from.ID)),
		)
	}
	return s
}

// runAsync runs a session start off the update loop; content generation may
// take several seconds.
func (h *Handler) runAsync(ctx context.Context, chatID int64, fn HandlerFunc) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		_ = h.withErrorHandling(fn)(ctx, chatID)
	}()
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return msg, fmt.Errorf("send: %w", err)
	}
	return msg, nil
}
