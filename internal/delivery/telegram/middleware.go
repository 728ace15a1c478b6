package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/amagambo-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns session errors into user messages. Anything the
// learner cannot act on is logged and reported as an internal error.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if errors.Is(err, service.ErrStaleResponse) {
			h.logger.Debug("discarded stale content", zap.Int64("chat_id", chatID))
			return nil
		}

		if text, ok := userMessage(err); ok {
			h.sendText(chatID, text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendText(chatID, msgInternalError)
		return nil
	}
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrGenerationInFlight):
		return msgBusy, true
	case errors.Is(err, service.ErrNothingDue):
		return msgNothingDue, true
	case errors.Is(err, service.ErrNoFacts):
		return msgNoFacts, true
	case errors.Is(err, service.ErrReviewUnavailable):
		return msgGuestNoReview, true
	case errors.Is(err, service.ErrNoActiveSession):
		return msgNoSession, true
	case errors.Is(err, service.ErrNotFlipped):
		return msgFlipFirst, true
	case errors.Is(err, service.ErrQuizUnavailable):
		return msgQuizUnavailable, true
	case errors.Is(err, service.ErrNoActiveQuiz):
		return msgSessionFinished, true
	case errors.Is(err, service.ErrOutdatedQuestion), errors.Is(err, service.ErrInvalidChoice):
		return msgOutdatedButton, true
	}
	return "", false
}
